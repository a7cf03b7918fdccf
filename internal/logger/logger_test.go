package logger

import (
	"bytes"
	"strings"
	"testing"

	zlog "github.com/rs/zerolog/log"
)

// Env handling is not parallel-safe, so none of these tests run in
// parallel.

func initWith(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()

	t.Setenv("LOG_LEVEL", level)
	t.Setenv("LOG_FORMAT", format)

	var buf bytes.Buffer
	InitWithWriter(&buf)
	return &buf
}

func TestInitWithWriter_Defaults(t *testing.T) {
	buf := initWith(t, "", "")

	if got := Logger.GetLevel().String(); got != "info" {
		t.Fatalf("expected default level info, got %s", got)
	}

	Logger.Info().Msg("hello")
	out := strings.TrimSpace(buf.String())
	if out == "" || strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestInitWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	buf := initWith(t, "shouting", "console")

	Logger.Debug().Msg("suppressed")
	Logger.Info().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("expected info line, got %q", out)
	}
}

func TestInitWithWriter_JSONFormat(t *testing.T) {
	buf := initWith(t, "info", "json")

	Logger.Info().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())

	for _, want := range []string{`"message":"hello"`, `"k":"v"`, `"service":"identity-service"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %q", want, out)
		}
	}
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected a json object line, got %q", out)
	}
}

func TestInit_SetsGlobalLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")

	Init()

	if zlog.Logger.GetLevel() != Logger.GetLevel() {
		t.Fatalf("global level %s diverges from package level %s",
			zlog.Logger.GetLevel(), Logger.GetLevel())
	}
}
