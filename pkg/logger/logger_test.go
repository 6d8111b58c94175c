package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.WarnLevel,
		"verbose": zerolog.WarnLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", JSON: true, Output: &first})
	Init(Options{Level: "debug", JSON: true, Output: &second})

	sessionLog := For("session")
	sessionLog.Info().Msg("hello")
	rootLog := Get()
	rootLog.Debug().Msg("dropped")

	if second.Len() != 0 {
		t.Fatalf("second Init should be ignored, got %q", second.String())
	}
	out := first.String()
	if !strings.Contains(out, `"component":"session"`) || !strings.Contains(out, "hello") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestGet_BeforeInitIsDisabled(t *testing.T) {
	Reset()
	if Get().GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger before Init")
	}
}
