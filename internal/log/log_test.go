package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(nopWriter{})
		SetLevel(LevelInfo)
	})
	return &buf
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLevels(t *testing.T) {
	buf := capture(t, LevelWarn)

	Debug("debug line")
	Info("info line")
	Warn("warn line", "k", 1)
	Error("error line", errors.New("boom"))

	out := buf.String()
	for _, s := range []string{"debug line", "info line"} {
		if strings.Contains(out, s) {
			t.Errorf("output contains %q below minimum level:\n%s", s, out)
		}
	}
	for _, s := range []string{"[WARN] warn line k=1", "[ERROR] error line err=boom"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestFormatKVs(t *testing.T) {
	for _, tc := range []struct {
		name string
		kv   []any
		want string
	}{
		{name: "empty"},
		{name: "pairs", kv: []any{"a", 1, "b", "x"}, want: " a=1 b=x"},
		{name: "odd", kv: []any{"a", 1, "dangling"}, want: " a=1"},
		{name: "non-string key", kv: []any{7, 1, "b", 2}, want: " b=2"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatKVs(tc.kv...); got != tc.want {
				t.Errorf("formatKVs() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	} {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Error("ParseLevel(\"loud\") reported ok")
	}
}
