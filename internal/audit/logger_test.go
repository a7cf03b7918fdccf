package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(zerolog.New(&buf)), &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), err)
	}
	return m
}

func TestRecord_InfoLevelWithMaskedEmail(t *testing.T) {
	l, buf := captureLogger()

	l.Record("login_success", map[string]string{
		"user_id": "u1",
		"email":   "johndoe@example.com",
	})

	m := lastLine(t, buf)
	if m["level"] != "info" {
		t.Fatalf("expected info level, got %v", m["level"])
	}
	if m["audit"] != true {
		t.Fatal("expected audit=true")
	}
	if m["action"] != "login_success" {
		t.Fatalf("unexpected action: %v", m["action"])
	}
	if m["email"] != "jo***@example.com" {
		t.Fatalf("email not masked: %v", m["email"])
	}
}

func TestRecord_FailuresLogAtWarn(t *testing.T) {
	for _, action := range []string{"login_failed", "oauth_provider_mismatch", "oauth_email_unresolvable"} {
		l, buf := captureLogger()
		l.Record(action, nil)
		if m := lastLine(t, buf); m["level"] != "warn" {
			t.Fatalf("action %s: expected warn level, got %v", action, m["level"])
		}
	}
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	var got []string
	s := Fanout(
		func(action string, _ map[string]string) { got = append(got, "a:"+action) },
		nil,
		func(action string, _ map[string]string) { got = append(got, "b:"+action) },
	)

	s("register", nil)

	if len(got) != 2 || got[0] != "a:register" || got[1] != "b:register" {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"johndoe@example.com", "jo***@example.com"},
		{"a@example.com", "***@example.com"},
		{"x@y", "***@y"},
		{"", "***"},
	}
	for _, c := range cases {
		if got := maskEmail(c.in); got != c.want {
			t.Fatalf("maskEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskEmail_NoAtSignNeverLeaks(t *testing.T) {
	for _, in := range []string{"not-an-email-value", "short", "johndoe"} {
		if got := maskEmail(in); got != "***" {
			t.Fatalf("maskEmail(%q) = %q, leaked input", in, got)
		}
	}
}
