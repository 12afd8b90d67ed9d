package cli

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitcoach/internal/config"
	"github.com/julianstephens/habitcoach/internal/storage/sqlite"
)

// Thursday
var testNow = time.Date(2024, 5, 9, 15, 30, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setupTestContext(t *testing.T) (*Context, *testClock, *bytes.Buffer) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &testClock{now: testNow}
	ctx := NewContext(store, config.Default(), nil, clock.Now)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, clock, out
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
