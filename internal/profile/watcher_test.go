package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "birth.toml")
	if err := os.WriteFile(file, []byte(sampleProfile), 0o644); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(file, []byte(sampleProfile+"\n# edited\n"), 0o644); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeModified {
			t.Errorf("expected ChangeModified, got %v", change.Kind)
		}
		if filepath.Base(change.File) != "birth.toml" {
			t.Errorf("expected birth.toml, got %q", change.File)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ephemeris.toml")
	if err := os.WriteFile(file, []byte("name = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeRemoved {
			t.Errorf("expected ChangeRemoved, got %v", change.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for removal event")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "birth.toml")
	if err := os.WriteFile(file, []byte(sampleProfile), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case change := <-w.Changes:
		t.Errorf("unexpected change event: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewWatcher_NoFiles(t *testing.T) {
	if _, err := NewWatcher(); err == nil {
		t.Error("NewWatcher() with no files should fail")
	}
}

func TestWatcher_StartFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing-dir", "birth.toml")

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatal("Start should fail for a missing directory")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
	if _, ok := <-w.Changes; ok {
		t.Error("Changes should be closed after Stop")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "birth.toml")
	if err := os.WriteFile(file, []byte(sampleProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(file)
	if err != nil {
		t.Fatal(err)
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked without Start")
	}
}
