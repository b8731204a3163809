package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// CoverFetcher downloads covers into the local cache.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
	IsCached(bookID, coverURL string) bool
}

// BookLister yields the books whose covers should be warm.
type BookLister interface {
	Books() []entities.Book
}

// WarmCoverTask fetches one book cover into the cache.
type WarmCoverTask struct {
	BookID string `json:"book_id"`
	URL    string `json:"url"`
}

// Config returns the queue configuration for cover warming tasks.
func (t WarmCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func WarmCoverProcessor(fetcher CoverFetcher) backlite.QueueProcessor[WarmCoverTask] {
	return func(ctx context.Context, task WarmCoverTask) error {
		if fetcher == nil {
			return fmt.Errorf("cover cache not configured")
		}
		if _, err := fetcher.GetCover(ctx, task.BookID, task.URL); err != nil {
			return fmt.Errorf("warm cover for %s: %w", task.BookID, err)
		}
		return nil
	}
}

func NewWarmCoverQueue(fetcher CoverFetcher) backlite.Queue {
	return backlite.NewQueue(WarmCoverProcessor(fetcher))
}

// WarmAllCoversTask enqueues a WarmCoverTask for every book whose cover is
// not cached yet.
type WarmAllCoversTask struct{}

func (t WarmAllCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_all_covers",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PendingCovers lists warm tasks for books with an image that is not cached.
func PendingCovers(books BookLister, fetcher CoverFetcher) []WarmCoverTask {
	var pending []WarmCoverTask
	for _, b := range books.Books() {
		if b.Image == "" || fetcher.IsCached(b.ID, b.Image) {
			continue
		}
		pending = append(pending, WarmCoverTask{BookID: b.ID, URL: b.Image})
	}
	return pending
}

// WarmAllCoversProcessor needs the client to fan out per-book tasks. The
// catalog is resolved per run since it may be reloaded between runs.
func WarmAllCoversProcessor(client *Client, books func() BookLister, fetcher CoverFetcher) backlite.QueueProcessor[WarmAllCoversTask] {
	return func(ctx context.Context, _ WarmAllCoversTask) error {
		if fetcher == nil || books == nil {
			return fmt.Errorf("cover warming not configured")
		}

		pending := PendingCovers(books(), fetcher)
		if len(pending) == 0 {
			log.Printf("[TASK] All covers already cached")
			return nil
		}

		batch := make([]backlite.Task, len(pending))
		for i, p := range pending {
			batch[i] = p
		}
		if _, err := client.Add(batch...).Ctx(ctx).Save(); err != nil {
			return fmt.Errorf("enqueue cover warming: %w", err)
		}

		log.Printf("[TASK] Queued %d covers for warming", len(pending))
		return nil
	}
}

func NewWarmAllCoversQueue(client *Client, books func() BookLister, fetcher CoverFetcher) backlite.Queue {
	return backlite.NewQueue(WarmAllCoversProcessor(client, books, fetcher))
}

// RequestWarmAll enqueues a WarmAllCoversTask.
func (c *Client) RequestWarmAll(ctx context.Context) error {
	_, err := c.Add(WarmAllCoversTask{}).Ctx(ctx).Save()
	return err
}
