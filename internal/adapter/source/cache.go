// Package source downloads weekly menu files from the canteen operator and
// keeps them in a local directory until they expire.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// Config configures a Cache.
type Config struct {
	BaseURL    string
	StorageDir string
	// FetchTimeout bounds a single download. Zero means no timeout.
	FetchTimeout time.Duration
}

// Cache resolves week keys to local files, downloads missing ones and tracks
// every file it has ensured so they can be purged later.
type Cache struct {
	base   *url.URL
	dir    string
	client *http.Client
	log    *slog.Logger
	now    func() time.Time

	flight singleflight.Group

	mu       sync.Mutex
	registry map[domain.WeekKey]*File
}

// NewCache validates cfg and creates the storage directory.
func NewCache(cfg Config, logger *slog.Logger) (*Cache, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidBaseURL, base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("source: create storage dir: %w", err)
	}

	return &Cache{
		base:     base,
		dir:      cfg.StorageDir,
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		log:      logger.With("adapter", "source"),
		now:      time.Now,
		registry: make(map[domain.WeekKey]*File),
	}, nil
}

// File returns the handle for key without touching the disk or network.
// A week outside [1, domain.MaxWeek] fails with domain.ErrInvalidWeek.
func (c *Cache) File(key domain.WeekKey) (*File, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &File{
		key:  key,
		path: filepath.Join(c.dir, key.FileName()),
		url:  c.base.JoinPath(key.FileName()).String(),
	}, nil
}

// EnsurePresent makes sure the file for key exists locally, downloading it
// when absent. It reports false when the source has no file for the week.
// Concurrent calls for the same key share one download; a caller whose ctx
// ends stops waiting but does not cancel the shared download.
func (c *Cache) EnsurePresent(ctx context.Context, key domain.WeekKey) (*File, bool, error) {
	f, err := c.File(key)
	if err != nil {
		return nil, false, err
	}
	ch := c.flight.DoChan(key.String(), func() (any, error) {
		return c.ensure(context.WithoutCancel(ctx), f)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		got := res.Val.(*File)
		if got == nil {
			return nil, false, nil
		}
		return got, true, nil
	}
}

func (c *Cache) ensure(ctx context.Context, f *File) (*File, error) {
	key := f.key
	if f.Exists() {
		c.register(f)
		return f, nil
	}

	c.log.DebugContext(ctx, "downloading menu file", slog.String("week", key.String()), slog.String("url", f.url))

	start := c.now()
	ok, err := f.Download(ctx, c.client)
	if err != nil {
		c.log.ErrorContext(ctx, "menu file download failed",
			slog.String("week", key.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if !ok {
		c.log.WarnContext(ctx, "menu file not published", slog.String("week", key.String()))
		return nil, nil
	}

	c.log.InfoContext(ctx, "menu file downloaded",
		slog.String("week", key.String()),
		slog.Duration("took", c.now().Sub(start)),
	)
	c.register(f)
	return f, nil
}

func (c *Cache) register(f *File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry[f.key] = f
}

// Scan registers every week file already present in the storage directory,
// so files left by an earlier process can be purged. It returns the number
// of files found.
func (c *Cache) Scan() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("source: read storage dir: %w", err)
	}

	n := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		key, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		f, err := c.File(key)
		if err != nil {
			continue
		}
		c.register(f)
		n++
	}
	return n, nil
}

func parseFileName(name string) (domain.WeekKey, bool) {
	var year, week int
	if _, err := fmt.Sscanf(name, "%d-%d.csv", &year, &week); err != nil {
		return domain.WeekKey{}, false
	}
	key, err := domain.NewWeekKey(year, week)
	if err != nil || key.FileName() != name {
		return domain.WeekKey{}, false
	}
	return key, true
}

// PurgeExpired deletes registered files older than maxAge and returns how
// many were removed. Entries whose file has disappeared are forgotten.
func (c *Cache) PurgeExpired(maxAge time.Duration) int {
	now := c.now()
	return c.purge(func(f *File) bool { return f.DeleteOlderThan(maxAge, now) })
}

// PurgeAll deletes every registered file regardless of age.
func (c *Cache) PurgeAll() int {
	return c.purge(func(f *File) bool { return f.Delete() })
}

func (c *Cache) purge(remove func(*File) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, f := range c.registry {
		if remove(f) {
			removed++
			delete(c.registry, key)
			continue
		}
		if !f.Exists() {
			delete(c.registry, key)
		}
	}
	return removed
}

// Registered returns the keys currently tracked, oldest week first.
func (c *Cache) Registered() []domain.WeekKey {
	c.mu.Lock()
	keys := make([]domain.WeekKey, 0, len(c.registry))
	for key := range c.registry {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	slices.SortFunc(keys, func(a, b domain.WeekKey) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Week - b.Week
	})
	return keys
}

// Ping checks that the storage directory is still reachable.
func (c *Cache) Ping() error {
	info, err := os.Stat(c.dir)
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("source: storage dir %s missing", c.dir)
		}
		return fmt.Errorf("source: stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source: %s is not a directory", c.dir)
	}
	return nil
}
