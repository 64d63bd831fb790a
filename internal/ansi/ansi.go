// Package ansi provides ANSI escape code constants and helpers for terminal output.
// Status lines on stderr reference these constants; reports are styled with lipgloss.
package ansi

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// ClearScreen moves the cursor home and clears the display.
const ClearScreen = "\033[H\033[2J"

// Wrap surrounds s with the given codes and a trailing Reset. With no codes
// it returns s unchanged.
func Wrap(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + Reset
}
