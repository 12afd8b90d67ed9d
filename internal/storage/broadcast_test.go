package storage

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/habitcoach/internal/models"
)

func TestBroadcasterEmitsInitialSnapshot(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx, []models.Habit{{ID: "a", Title: "Read"}})
	got := <-ch
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("initial snapshot = %+v, want one habit with ID a", got)
	}
}

func TestBroadcasterKeepsLatestSnapshot(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx, nil)
	<-ch

	b.Publish([]models.Habit{{ID: "a"}})
	b.Publish([]models.Habit{{ID: "a"}, {ID: "b"}})

	got := <-ch
	if len(got) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(got))
	}

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot: %+v", extra)
	default:
	}
}

func TestBroadcasterSnapshotsAreIsolated(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	habits := []models.Habit{{ID: "a", CompletedDates: models.NewDateSet("2024-05-01")}}
	ch := b.Subscribe(ctx, habits)
	habits[0].CompletedDates["2024-05-02"] = struct{}{}

	got := <-ch
	if len(got[0].CompletedDates) != 1 {
		t.Errorf("subscriber saw mutation made after Subscribe: %v", got[0].CompletedDates)
	}
}

func TestBroadcasterClosesOnCancel(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, nil)
	<-ch
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after cancel")
	}

	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}

	// Publishing after unsubscribe must not panic.
	b.Publish([]models.Habit{{ID: "a"}})
}
