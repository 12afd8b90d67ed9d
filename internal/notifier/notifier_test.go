package notifier

import (
	"context"
	"errors"
	"testing"
)

type recordingSink struct {
	name string
	err  error
	got  []Message
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Notify(_ context.Context, msg Message) error {
	s.got = append(s.got, msg)
	return s.err
}

func TestMessageText(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{name: "body only", msg: Message{Body: "hello"}, want: "hello"},
		{name: "title and body", msg: Message{Title: "Nudge", Body: "hello"}, want: "Nudge\n\nhello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMultiNotify(t *testing.T) {
	msg := Message{Title: "t", Body: "b"}

	t.Run("no sinks", func(t *testing.T) {
		if err := (Multi{}).Notify(context.Background(), msg); !errors.Is(err, ErrNoSinks) {
			t.Errorf("Notify() error = %v, want %v", err, ErrNoSinks)
		}
	})

	t.Run("one sink failing is tolerated", func(t *testing.T) {
		bad := &recordingSink{name: "bad", err: errors.New("offline")}
		good := &recordingSink{name: "good"}
		if err := (Multi{bad, good}).Notify(context.Background(), msg); err != nil {
			t.Fatalf("Notify() error = %v", err)
		}
		if len(good.got) != 1 || len(bad.got) != 1 {
			t.Errorf("sinks received %d and %d messages, want 1 each", len(bad.got), len(good.got))
		}
	})

	t.Run("every sink failing is an error", func(t *testing.T) {
		offline := errors.New("offline")
		a := &recordingSink{name: "a", err: offline}
		b := &recordingSink{name: "b", err: errors.New("rate limited")}
		err := (Multi{a, b}).Notify(context.Background(), msg)
		if err == nil {
			t.Fatal("Notify() should fail when every sink fails")
		}
		if !errors.Is(err, offline) {
			t.Errorf("Notify() error = %v, want it to wrap %v", err, offline)
		}
	})
}
