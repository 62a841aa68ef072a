package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Notice)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Info("hidden")
	logger.Notice("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected Info message to be filtered at Notice level, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "[test]") {
		t.Errorf("Expected Notice message with module name, got %q", out)
	}
}

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Debug)
	defer SetLevel(Notice)

	logger := NewWithPrefix("job", "abc")
	logger.Debugf("task %d", 3)

	if out := buf.String(); !strings.Contains(out, "[abc] task 3") {
		t.Errorf("Expected prefixed message, got %q", out)
	}
}
