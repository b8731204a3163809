package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 0

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, 2, client.config.Workers)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "bookshelf-tasks.db"), TasksDBPath(filepath.Join("data", "bookshelf.db")))
	assert.Equal(t, "catalog-tasks", TasksDBPath("catalog"))
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type fakeFetcher struct {
	mu      sync.Mutex
	cached  map[string]bool
	fetched chan string
	err     error
}

func newFakeFetcher(cached ...string) *fakeFetcher {
	f := &fakeFetcher{cached: map[string]bool{}, fetched: make(chan string, 16)}
	for _, id := range cached {
		f.cached[id] = true
	}
	return f
}

func (f *fakeFetcher) GetCover(_ context.Context, bookID, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	f.cached[bookID] = true
	f.mu.Unlock()
	f.fetched <- bookID
	return "/tmp/" + bookID, nil
}

func (f *fakeFetcher) IsCached(bookID, _ string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached[bookID]
}

type bookList []entities.Book

func (b bookList) Books() []entities.Book { return b }

func TestPendingCovers(t *testing.T) {
	books := bookList{
		{ID: "cached", Image: "https://example.com/a.jpg"},
		{ID: "no-image"},
		{ID: "missing", Image: "https://example.com/b.jpg"},
	}

	pending := PendingCovers(books, newFakeFetcher("cached"))
	assert.Equal(t, []WarmCoverTask{{BookID: "missing", URL: "https://example.com/b.jpg"}}, pending)
}

func TestWarmCoverProcessor(t *testing.T) {
	fetcher := newFakeFetcher()
	err := WarmCoverProcessor(fetcher)(context.Background(), WarmCoverTask{BookID: "b1", URL: "u"})
	require.NoError(t, err)
	assert.True(t, fetcher.IsCached("b1", "u"))

	fetcher.err = errors.New("boom")
	err = WarmCoverProcessor(fetcher)(context.Background(), WarmCoverTask{BookID: "b2", URL: "u"})
	assert.ErrorContains(t, err, "b2")

	err = WarmCoverProcessor(nil)(context.Background(), WarmCoverTask{})
	assert.Error(t, err)
}

func TestWarmAllCoversFansOut(t *testing.T) {
	client := newTestClient(t)
	fetcher := newFakeFetcher("b1")
	books := bookList{
		{ID: "b1", Image: "https://example.com/1.jpg"},
		{ID: "b2", Image: "https://example.com/2.jpg"},
		{ID: "b3", Image: "https://example.com/3.jpg"},
	}

	client.Register(
		NewWarmCoverQueue(fetcher),
		NewWarmAllCoversQueue(client, func() BookLister { return books }, fetcher),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(WarmAllCoversTask{}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	got := map[string]bool{}
	for len(got) < 2 {
		select {
		case id := <-fetcher.fetched:
			got[id] = true
		case <-time.After(10 * time.Second):
			t.Fatalf("covers were not warmed in time, got %v", got)
		}
	}
	assert.Equal(t, map[string]bool{"b2": true, "b3": true}, got)
}

// TestTask is a simple task for testing
type TestTask struct {
	Value string `json:"value"`
}

func (t TestTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "test_task",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	client := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task TestTask) error {
		executed <- task.Value
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(TestTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestTaskConfigs(t *testing.T) {
	cfg := WarmCoverTask{}.Config()
	assert.Equal(t, "warm_cover", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)

	cfg = WarmAllCoversTask{}.Config()
	assert.Equal(t, "warm_all_covers", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
