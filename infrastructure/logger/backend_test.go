package logger

import (
	"bytes"
	"strings"
	"testing"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestBackendWritesByLevel(t *testing.T) {
	backend := NewBackend()
	all := &bufferCloser{}
	errorsOnly := &bufferCloser{}
	if err := backend.AddLogWriter(all, LevelDebug); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.AddLogWriter(errorsOnly, LevelError); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}

	log := backend.Logger("TEST")
	log.Infof("dropped before the backend runs")

	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if err := backend.Run(); err == nil {
		t.Fatalf("a second Run should fail")
	}
	if err := backend.AddLogWriter(&bufferCloser{}, LevelInfo); err == nil {
		t.Fatalf("adding a writer to a running backend should fail")
	}

	log.SetLevel(LevelDebug)
	log.Tracef("below the logger level")
	log.Debugf("imported %d blocks", 3)
	log.Errorf("state root mismatch")
	backend.Close()

	if !all.closed || !errorsOnly.closed {
		t.Fatalf("Close should close every writer")
	}
	allLines := strings.Split(strings.TrimSpace(all.String()), "\n")
	if len(allLines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(allLines), all.String())
	}
	if !strings.Contains(allLines[0], "[DBG] TEST: imported 3 blocks") {
		t.Errorf("unexpected line %q", allLines[0])
	}
	if strings.Count(errorsOnly.String(), "\n") != 1 || !strings.Contains(errorsOnly.String(), "[ERR] TEST: state root mismatch") {
		t.Errorf("unexpected error log %q", errorsOnly.String())
	}
}
