package system

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitcoach/internal/notifier"
)

func TestNotifyCmd_SendsThroughSinks(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	sink := &recordingSink{}
	ctx.Sinks = func() (notifier.Multi, error) { return notifier.Multi{sink}, nil }

	cmd := &NotifyCmd{Title: "Heads up", Text: []string{"drink", "water"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("NotifyCmd.Run() error = %v", err)
	}

	got := sink.received()
	if len(got) != 1 {
		t.Fatalf("sink received %d messages, want 1", len(got))
	}
	if got[0].Title != "Heads up" || got[0].Body != "drink water" {
		t.Errorf("message = %+v", got[0])
	}
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	ctx.Sinks = func() (notifier.Multi, error) {
		t.Fatal("dry run must not build sinks")
		return nil, nil
	}

	if err := (&NotifyCmd{Text: []string{"hello"}, DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("NotifyCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "[DryRun] hello") {
		t.Errorf("output = %q", out.String())
	}
}

func TestNotifyCmd_Errors(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		ctx, _, _ := setupTestContext(t)
		if err := (&NotifyCmd{Text: []string{" "}}).Run(ctx); err == nil {
			t.Error("NotifyCmd.Run() with blank text should fail")
		}
	})

	t.Run("no sinks", func(t *testing.T) {
		ctx, _, _ := setupTestContext(t)
		err := (&NotifyCmd{Text: []string{"hi"}}).Run(ctx)
		if !errors.Is(err, notifier.ErrNoSinks) {
			t.Errorf("NotifyCmd.Run() error = %v, want ErrNoSinks", err)
		}
	})
}
