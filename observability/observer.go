// Package observability carries store lifecycle events to logs. Events are
// plain values emitted through an Observer; stores, instrumentation
// middleware and map state all report through the same interface so a single
// observer can be attached to a whole decorator stack.
//
// Level values align with OpenTelemetry SeverityNumbers so events can be
// forwarded to an OTel collector without translation.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto slog.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ZerologLevel maps the level onto zerolog.
func (l Level) ZerologLevel() zerolog.Level {
	switch {
	case l <= 4:
		return zerolog.TraceLevel
	case l <= 8:
		return zerolog.DebugLevel
	case l <= 12:
		return zerolog.InfoLevel
	case l <= 16:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// EventType identifies the kind of event. Each package defines its own
// constants using this type (e.g., "store.set", "instrument.action").
type EventType string

// Event is a single observation. Fields map to OTel LogRecord fields:
// Type→EventName, Level→SeverityNumber, Timestamp→Timestamp,
// Source→InstrumentationScope, Data→Attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit stamps the event with the current time and delivers it. A nil
// observer drops the event.
func Emit(ctx context.Context, observer Observer, event Event) {
	if observer == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	observer.OnEvent(ctx, event)
}
