package browser

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is how many pages a Loader keeps.
const DefaultCacheSize = 50

// Loader fetches and extracts pages, keeping recent ones in an LRU cache so
// history traversal does not refetch.
type Loader struct {
	fetcher *Fetcher
	cache   *lru.Cache[string, *Page]
	logger  *slog.Logger
}

// NewLoader creates a Loader. A non-positive size uses DefaultCacheSize.
func NewLoader(f *Fetcher, size int, logger *slog.Logger) (*Loader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *Page](size)
	if err != nil {
		return nil, fmt.Errorf("creating page cache: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{fetcher: f, cache: cache, logger: logger}, nil
}

// Fetcher returns the fetcher pages are loaded with.
func (l *Loader) Fetcher() *Fetcher { return l.fetcher }

// Load returns the page at rawURL, from cache unless reload is set.
func (l *Loader) Load(ctx context.Context, rawURL string, reload bool) (*Page, error) {
	key := NormalizeURL(rawURL)
	if !reload {
		if p, ok := l.cache.Get(key); ok {
			l.logger.Debug("page cache hit", "url", key)
			return p, nil
		}
	}

	res, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", key, res.StatusCode)
	}

	page, err := Extract(res)
	if err != nil {
		return nil, err
	}

	l.cache.Add(key, page)
	if page.FinalURL != "" && page.FinalURL != key {
		l.cache.Add(page.FinalURL, page)
	}
	l.logger.Info("page loaded", "url", key, "final_url", page.FinalURL, "status", res.StatusCode, "duration", res.Duration)
	return page, nil
}

// Cached returns a page without fetching.
func (l *Loader) Cached(rawURL string) (*Page, bool) {
	return l.cache.Peek(NormalizeURL(rawURL))
}

// Forget evicts every cached page.
func (l *Loader) Forget() {
	l.cache.Purge()
}
