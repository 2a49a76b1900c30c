package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZerologObserver writes events through a zerolog.Logger. The event type is
// the message; source and Data keys are added as fields.
type ZerologObserver struct {
	logger zerolog.Logger
}

// NewZerologObserver wraps an existing logger.
func NewZerologObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{logger: logger}
}

// NewConsoleObserver builds a human-readable zerolog observer writing to w,
// tagged with the given app name. A nil writer means os.Stderr.
func NewConsoleObserver(w io.Writer, app string, level zerolog.Level) *ZerologObserver {
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnEvent(ctx context.Context, event Event) {
	e := o.logger.WithLevel(event.Level.ZerologLevel())
	if e == nil {
		return
	}
	e = e.Str("source", event.Source)
	if len(event.Data) > 0 {
		e = e.Fields(event.Data)
	}
	e.Msg(string(event.Type))
}
