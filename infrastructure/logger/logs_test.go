package logger

import (
	"testing"
)

func TestParseAndSetLogLevels(t *testing.T) {
	first := RegisterSubSystem("TST1")
	second := RegisterSubSystem("TST2")
	if RegisterSubSystem("TST1") != first {
		t.Fatalf("registering a subsystem twice should return the same logger")
	}

	err := ParseAndSetLogLevels("debug")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	if first.Level() != LevelDebug || second.Level() != LevelDebug {
		t.Fatalf("expected every subsystem at %s, got %s and %s", LevelDebug, first.Level(), second.Level())
	}

	err = ParseAndSetLogLevels("TST1=trace,TST2=error")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	if first.Level() != LevelTrace || second.Level() != LevelError {
		t.Fatalf("expected TST1 at %s and TST2 at %s, got %s and %s",
			LevelTrace, LevelError, first.Level(), second.Level())
	}

	invalidLevels := []string{
		"loud",
		"TST1=loud",
		"NOSUCHSUBSYSTEM=info",
		"TST1=info,TST2",
	}
	for _, debugLevel := range invalidLevels {
		if err := ParseAndSetLogLevels(debugLevel); err == nil {
			t.Errorf("ParseAndSetLogLevels(%q): expected an error", debugLevel)
		}
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"warn", LevelWarn, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.input)
		if level != test.expected || ok != test.ok {
			t.Errorf("LevelFromString(%q): expected (%s, %t), got (%s, %t)",
				test.input, test.expected, test.ok, level, ok)
		}
	}
	if LevelOff.String() != "OFF" || LevelInfo.String() != "INF" {
		t.Errorf("unexpected level tags %s, %s", LevelOff, LevelInfo)
	}
}
