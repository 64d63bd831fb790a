package ansi

import "testing"

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codes []string
		want  string
	}{
		{"no codes", nil, "x"},
		{"one code", []string{Bold}, Bold + "x" + Reset},
		{"two codes", []string{Red, Bold}, Red + Bold + "x" + Reset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Wrap("x", tt.codes...); got != tt.want {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}
