package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix   = "cover_"
	maxCoverSize = 10 << 20
)

// Cache keeps book cover images on local disk so the UI does not depend on
// the remote image hosts once a cover has been seen.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
	userAgent  string
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "Bookshelf/1.0",
	}, nil
}

// GetCover returns the cached cover path for a book, fetching it first when
// needed. An empty URL yields an empty path and no error.
func (c *Cache) GetCover(ctx context.Context, bookID, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	cachePath := c.coverPath(bookID, coverURL)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, coverURL, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// IsCached reports whether the cover for this book and URL is on disk.
func (c *Cache) IsCached(bookID, coverURL string) bool {
	if coverURL == "" {
		return false
	}
	_, err := os.Stat(c.coverPath(bookID, coverURL))
	return err == nil
}

// InvalidateCover removes every cached cover for a book.
func (c *Cache) InvalidateCover(bookID string) error {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, filePrefix+bookKey(bookID)+"_*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Prune deletes cached covers of books not present in keep and returns how
// many files were removed.
func (c *Cache) Prune(keep []string) (int, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[bookKey(id)] = struct{}{}
	}

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		key, _, ok := strings.Cut(strings.TrimPrefix(name, filePrefix), "_")
		if !ok {
			continue
		}
		if _, keepIt := wanted[key]; keepIt {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, name)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// bookKey turns an arbitrary book id into a filename-safe token.
func bookKey(bookID string) string {
	hash := sha256.Sum256([]byte(bookID))
	return fmt.Sprintf("%x", hash[:8])
}

func (c *Cache) coverPath(bookID, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s%s_%x.jpg", filePrefix, bookKey(bookID), hash[:8]))
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Temp file in the same directory keeps the rename atomic.
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_cover_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, io.LimitReader(resp.Body, maxCoverSize)); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
