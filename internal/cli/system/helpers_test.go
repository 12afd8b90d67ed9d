package system

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/config"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/notifier"
	"github.com/julianstephens/habitcoach/internal/storage/sqlite"
)

// Thursday
var testNow = time.Date(2024, 5, 9, 15, 30, 0, 0, time.UTC)

// setupTestContext returns a context over an uninitialized SQLite store.
func setupTestContext(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	ctx := cli.NewContext(store, cfg, nil, func() time.Time { return testNow })
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Sinks = func() (notifier.Multi, error) { return nil, notifier.ErrNoSinks }
	return ctx, dbPath, out
}

// setupTestDB is setupTestContext with the store initialized.
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, _, out := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, out
}

type recordingSink struct {
	mu       sync.Mutex
	messages []notifier.Message
	onNotify func()
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Notify(ctx context.Context, msg notifier.Message) error {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	if r.onNotify != nil {
		r.onNotify()
	}
	return nil
}

func (r *recordingSink) received() []notifier.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifier.Message(nil), r.messages...)
}

func newTestHabit(title string) models.Habit {
	return models.Habit{
		ID:             "id-" + title,
		Title:          title,
		CreatedAt:      testNow.AddDate(0, 0, -3),
		CompletedDates: models.NewDateSet("2024-05-08"),
	}
}
