package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestVerboseGating(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant []string
	}{
		{"quiet", false, []string{"WARN", "ERROR"}, []string{"DEBUG", "INFO"}},
		{"verbose", true, []string{"DEBUG", "INFO", "WARN", "ERROR"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New("test", staticChecker(tt.verbose))
			l.SetOutput(&buf)

			l.Debug("debug %d", 1)
			l.Info("info")
			l.Warn("warn")
			l.Error("error")

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Expected %s in output:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("Did not expect %s in output:\n%s", nw, out)
				}
			}
		})
	}
}

func TestComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := New("root", nil)
	child := root.WithComponent("child")
	root.SetOutput(&buf)

	child.Warn("from child")

	if !strings.Contains(buf.String(), "[child] from child") {
		t.Errorf("Expected child line in redirected output, got %q", buf.String())
	}
}

func TestFieldsAreFormattedAndRedacted(t *testing.T) {
	var buf bytes.Buffer
	l := New("ai", staticChecker(false))
	l.SetOutput(&buf)

	l.WarnWithFields("call failed", []Field{
		F("provider", "gemini"),
		F("api_key", "AIzaSyExample"),
		Error(errors.New("boom")),
		ContentLength("বাংলা"),
	})

	out := buf.String()
	if !strings.Contains(out, "provider=gemini") {
		t.Errorf("Expected provider field, got %q", out)
	}
	if strings.Contains(out, "AIzaSyExample") {
		t.Errorf("api key leaked: %q", out)
	}
	if !strings.Contains(out, "api_key=AIza****") {
		t.Errorf("Expected masked key, got %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("Expected error field, got %q", out)
	}
	if !strings.Contains(out, "content_length=5") {
		t.Errorf("Expected rune count for content_length, got %q", out)
	}
}

func TestMessageWithoutArgsKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", nil)
	l.SetOutput(&buf)

	l.Warn("100% done")
	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
