package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Sink receives one audit record. The auth service emits records through
// a Sink; Fanout combines several.
type Sink func(action string, fields map[string]string)

// warnActions are audited at warn level; everything else is info.
var warnActions = map[string]bool{
	"login_failed":             true,
	"oauth_provider_mismatch":  true,
	"oauth_email_unresolvable": true,
}

// Logger writes audit records as structured log lines. Email values are
// masked before they reach the log.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one audit event. Satisfies Sink.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info()
	if warnActions[action] {
		evt = l.log.Warn()
	}

	evt = evt.Str("action", action)
	for k, v := range fields {
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit event")
}

// EventPublisher is the broker surface used for fan-out.
type EventPublisher interface {
	PublishAudit(ctx context.Context, action string, fields map[string]string) error
}

// PublisherSink forwards audit records to the event bus without blocking
// the request path. Publish failures are logged and dropped.
func PublisherSink(pub EventPublisher, log zerolog.Logger) Sink {
	return func(action string, fields map[string]string) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := pub.PublishAudit(ctx, action, fields); err != nil {
				log.Warn().Err(err).Str("action", action).Msg("audit publish failed")
			}
		}()
	}
}

// Fanout delivers each record to every sink in order.
func Fanout(sinks ...Sink) Sink {
	return func(action string, fields map[string]string) {
		for _, s := range sinks {
			if s != nil {
				s(action, fields)
			}
		}
	}
}

// maskEmail keeps at most the first two characters of the local part and
// the full domain. Values without an @ are masked entirely.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return "***"
	}
	if at < 2 {
		return "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
