// Package menu serves typed, filterable menu entries for a calendar date.
// It ties the weekly source files to the parser and, when configured, to the
// Postgres archive.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/adapter/source"
	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/internal/menufile"
)

type weekFiles interface {
	EnsurePresent(ctx context.Context, key domain.WeekKey) (*source.File, bool, error)
	PurgeExpired(maxAge time.Duration) int
	PurgeAll() int
}

// Archive stores parsed entries beyond the lifetime of their source file.
type Archive interface {
	Save(ctx context.Context, entries []domain.MenuEntry) (int, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.MenuEntry, error)
}

// Config holds the service settings.
type Config struct {
	// DateLayout is the Go layout of the dates in the source files.
	DateLayout string
	// MaxAge is the age after which PurgeExpired removes a source file.
	MaxAge time.Duration
}

// Service implements the menu operations.
type Service struct {
	log     *slog.Logger
	files   weekFiles
	archive Archive
	cfg     Config

	mu       sync.Mutex
	archived map[domain.WeekKey]time.Time // week -> mod time of the archived file
}

// NewService creates a menu service. archive may be nil, which disables
// write-through and archive reads.
func NewService(logger *slog.Logger, files weekFiles, archive Archive, cfg Config) *Service {
	if cfg.DateLayout == "" {
		cfg.DateLayout = menufile.DefaultDateLayout
	}
	return &Service{
		log:      logger.With("service", "menu"),
		files:    files,
		archive:  archive,
		cfg:      cfg,
		archived: make(map[domain.WeekKey]time.Time),
	}
}

// EntriesForDate returns the entries served on the calendar day of date, in
// source order. The week's file is fetched when not present locally.
func (s *Service) EntriesForDate(ctx context.Context, date time.Time) ([]domain.MenuEntry, error) {
	key := domain.WeekOf(date)

	f, ok, err := s.files.EnsurePresent(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWeek) {
			return nil, fmt.Errorf("week %s: %w", key, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w: week %s: %w", ErrSourceUnavailable, ErrFetchFailed, key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: week %s not published", ErrSourceUnavailable, key)
	}

	res, err := menufile.ParseFile(f.Path(), s.cfg.DateLayout)
	if err != nil {
		var fe *menufile.FormatError
		switch {
		case errors.As(err, &fe):
			s.log.ErrorContext(ctx, "malformed menu file",
				slog.String("week", key.String()),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: week %s: %w", ErrSourceFormat, key, err)
		case errors.Is(err, fs.ErrNotExist):
			// Purged between fetch and parse.
			return nil, fmt.Errorf("%w: week %s vanished", ErrSourceUnavailable, key)
		default:
			return nil, fmt.Errorf("parse week %s: %w", key, err)
		}
	}
	if res.Skipped > 0 {
		s.log.DebugContext(ctx, "skipped rows of unknown category",
			slog.String("week", key.String()),
			slog.Int("skipped", res.Skipped),
		)
	}

	s.archiveWeek(ctx, key, f, res.Entries)

	day := make([]domain.MenuEntry, 0, len(res.Entries))
	for _, e := range res.Entries {
		if e.ServedOnDay(date) {
			day = append(day, e)
		}
	}
	return day, nil
}

// FilterEntries returns the entries for date that share no code with filter.
func (s *Service) FilterEntries(ctx context.Context, date time.Time, filter domain.MenuFilter) ([]domain.MenuEntry, error) {
	entries, err := s.EntriesForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return filter.Apply(entries), nil
}

// archiveWeek writes the parsed week to the archive once per version of the
// source file. Failures are logged and never reach the caller.
func (s *Service) archiveWeek(ctx context.Context, key domain.WeekKey, f *source.File, entries []domain.MenuEntry) {
	if s.archive == nil || len(entries) == 0 {
		return
	}

	mod, err := f.ModTime()
	if err != nil {
		return
	}

	s.mu.Lock()
	done := s.archived[key].Equal(mod)
	s.mu.Unlock()
	if done {
		return
	}

	n, err := s.archive.Save(ctx, entries)
	if err != nil {
		s.log.WarnContext(ctx, "archive write failed",
			slog.String("week", key.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.mu.Lock()
	s.archived[key] = mod
	s.mu.Unlock()

	s.log.InfoContext(ctx, "week archived", slog.String("week", key.String()), slog.Int("entries", n))
}

// PurgeExpired deletes source files older than the configured max age.
func (s *Service) PurgeExpired(ctx context.Context) int {
	n := s.files.PurgeExpired(s.cfg.MaxAge)
	s.log.InfoContext(ctx, "purged expired menu files",
		slog.Int("removed", n),
		slog.Duration("max_age", s.cfg.MaxAge),
	)
	return n
}

// PurgeAll deletes every source file the service has used.
func (s *Service) PurgeAll(ctx context.Context) int {
	n := s.files.PurgeAll()
	s.log.InfoContext(ctx, "purged all menu files", slog.Int("removed", n))
	return n
}

// ArchivedEntries returns the archived entries for date.
func (s *Service) ArchivedEntries(ctx context.Context, date time.Time) ([]domain.MenuEntry, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	entries, err := s.archive.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	return entries, nil
}

// ArchiveEnabled reports whether an archive is configured.
func (s *Service) ArchiveEnabled() bool { return s.archive != nil }
