package storage

import (
	"context"
	"sync"

	"github.com/julianstephens/habitcoach/internal/models"
)

// Broadcaster fans habit list snapshots out to Observe subscribers. Each
// subscriber only ever holds the latest snapshot; slow readers skip stale ones.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan []models.Habit]struct{}
}

// Subscribe registers a subscriber primed with the initial snapshot.
func (b *Broadcaster) Subscribe(ctx context.Context, initial []models.Habit) <-chan []models.Habit {
	ch := make(chan []models.Habit, 1)
	ch <- copyHabits(initial)

	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[chan []models.Habit]struct{})
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Publish replaces any pending snapshot on every subscriber with habits.
func (b *Broadcaster) Publish(habits []models.Habit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- copyHabits(habits)
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func copyHabits(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
