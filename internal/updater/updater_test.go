package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestWriteIfChangedNoopOnIdenticalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeFile(t, path, "same\n")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	before := info.ModTime()

	changed, err := WriteIfChanged(path, []byte("same\n"), []byte("same\n"))
	if err != nil {
		t.Fatalf("WriteIfChanged failed: %v", err)
	}
	if changed {
		t.Fatal("identical content should not be written")
	}

	info, err = os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(before) {
		t.Error("file should never have been touched")
	}
}

func TestWriteIfChangedWritesAndReportsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	writeFile(t, path, "old\n")

	changed, err := WriteIfChanged(path, []byte("old\n"), []byte("new\n"))
	if err != nil {
		t.Fatalf("WriteIfChanged failed: %v", err)
	}
	if !changed {
		t.Fatal("expected a write to be reported")
	}
	if got := readFile(t, path); got != "new\n" {
		t.Errorf("expected corrected content, got %q", got)
	}

	// The lock file is cleaned up after the write.
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed, stat err: %v", err)
	}
}

func TestWriteIfChangedInvokesMonitor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeFile(t, path, "old\n")

	var metrics UpdateMetrics
	called := 0
	_, err := WriteIfChanged(path, []byte("old\n"), []byte("new\n"),
		WithTimeout(2*time.Second),
		WithMonitor(func(m UpdateMetrics) {
			metrics = m
			called++
		}))
	if err != nil {
		t.Fatalf("WriteIfChanged failed: %v", err)
	}

	if called != 1 {
		t.Fatalf("monitor should be called exactly once, got %d", called)
	}
	if !metrics.Changed {
		t.Error("metrics should report the change")
	}
	if metrics.BytesWritten != len("new\n") {
		t.Errorf("expected %d bytes written, got %d", len("new\n"), metrics.BytesWritten)
	}
	if metrics.Err != nil {
		t.Errorf("unexpected metrics error: %v", metrics.Err)
	}
}

func TestWriteIfChangedMonitorOnNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	writeFile(t, path, "same\n")

	var metrics UpdateMetrics
	_, err := WriteIfChanged(path, []byte("same\n"), []byte("same\n"),
		WithMonitor(func(m UpdateMetrics) { metrics = m }))
	if err != nil {
		t.Fatalf("WriteIfChanged failed: %v", err)
	}
	if metrics.Changed {
		t.Error("no-op should report Changed=false")
	}
	if metrics.BytesWritten != 0 {
		t.Errorf("no-op should write nothing, got %d bytes", metrics.BytesWritten)
	}
}
