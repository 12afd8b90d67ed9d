package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitcoach/internal/logger"
)

// Message is a single notification.
type Message struct {
	Title string
	Body  string
}

// Text renders the message as plain text.
func (m Message) Text() string {
	if m.Title == "" {
		return m.Body
	}
	return m.Title + "\n\n" + m.Body
}

// Sink delivers notifications somewhere the user will see them.
type Sink interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// ErrNoSinks is returned by Multi.Notify when nothing is configured.
var ErrNoSinks = errors.New("no notification sinks configured")

// Multi fans a message out to every sink. It only fails when every sink
// failed.
type Multi []Sink

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, msg Message) error {
	if len(m) == 0 {
		return ErrNoSinks
	}

	var errs []error
	for _, s := range m {
		if err := s.Notify(ctx, msg); err != nil {
			logger.Warn("Notification sink failed", "sink", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	return nil
}
