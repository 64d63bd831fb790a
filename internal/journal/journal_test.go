package journal

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var evt Event
		if err := json.Unmarshal(scanner.Bytes(), &evt); err != nil {
			t.Fatalf("invalid JSON line: %v\nline: %s", err, scanner.Text())
		}
		out = append(out, evt)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestOpen_ErrorOnBadPath(t *testing.T) {
	t.Parallel()
	_, err := Open("/nonexistent/dir/watch.jsonl")
	if err == nil || !strings.Contains(err.Error(), "journal: open") {
		t.Fatalf("Open(bad path) error = %v", err)
	}
}

func TestEmit_WritesJSONL(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watch.jsonl")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: at, Kind: KindWatchStart},
		{Timestamp: at.Add(time.Second), Kind: KindFileChanged, File: "/tmp/birth.toml"},
		{Timestamp: at.Add(2 * time.Second), Kind: KindRender, Reading: &Reading{
			At: at, Mahadasha: "Moon", Antardasha: "Mercury", Highest: 2, High: 1, General: 9,
		}},
		{Timestamp: at.Add(3 * time.Second), Kind: KindRenderFailed, Error: "missing position"},
	}
	for _, evt := range events {
		if err := j.Emit(evt); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for i := range events {
		events[i].Session = j.Session()
	}
	if diff := cmp.Diff(events, readEvents(t, path)); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestEmit_StampsZeroTimestamp(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watch.jsonl")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }
	if err := j.Emit(Event{Kind: KindWatchStop}); err != nil {
		t.Fatal(err)
	}
	j.Close()

	got := readEvents(t, path)
	if len(got) != 1 || !got[0].Timestamp.Equal(fixed) {
		t.Errorf("events = %+v, want one stamped %v", got, fixed)
	}
}

func TestEmit_Appends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watch.jsonl")

	for i := 0; i < 2; i++ {
		j, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := j.Emit(Event{Kind: KindWatchStart}); err != nil {
			t.Fatal(err)
		}
		j.Close()
	}
	got := readEvents(t, path)
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Session == "" || got[0].Session == got[1].Session {
		t.Errorf("each open should start a new session, got %q and %q", got[0].Session, got[1].Session)
	}
}

func TestEmit_Concurrent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watch.jsonl")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := j.Emit(Event{Kind: KindRender}); err != nil {
				t.Errorf("Emit: %v", err)
			}
		}()
	}
	wg.Wait()
	j.Close()

	if got := len(readEvents(t, path)); got != 50 {
		t.Errorf("events = %d, want 50", got)
	}
}

func TestNilJournal(t *testing.T) {
	t.Parallel()
	var j *Journal
	if j.Session() != "" {
		t.Error("nil journal has no session")
	}
	if err := j.Emit(Event{Kind: KindRender}); err != nil {
		t.Errorf("nil Emit: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
