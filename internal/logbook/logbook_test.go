package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journey.log")
	lb, err := New(path, "session-1")
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.Info("first %d", 1)
	lb.Warn("second")
	lb.Error("third")

	lines := lb.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "first 1") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("unexpected third line: %s", lines[2])
	}
	for _, line := range lines {
		if !strings.Contains(line, "[session-1]") {
			t.Fatalf("expected session tag in %q", line)
		}
	}
}

func TestTailLimitsToMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journey.log")
	lb, err := New(path, "")
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 12; i++ {
		lb.Info("entry %d", i)
	}
	lines := lb.Tail(5)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[4], "entry 11") {
		t.Fatalf("expected newest entry last, got %q", lines[4])
	}
}

func TestTailOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.log")
	lb, err := New(path, "s")
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines := lb.Tail(3); lines != nil {
		t.Fatalf("expected nil tail for missing file, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("ignored")
	if got := lb.Path(); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
	if lines := lb.Tail(1); lines != nil {
		t.Fatalf("expected nil tail, got %v", lines)
	}
}
