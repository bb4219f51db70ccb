package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/adapter/source"
	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/internal/menufile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockWeekFiles struct {
	EnsurePresentFunc func(ctx context.Context, key domain.WeekKey) (*source.File, bool, error)
	PurgeExpiredFunc  func(maxAge time.Duration) int
	PurgeAllFunc      func() int
}

func (m *mockWeekFiles) EnsurePresent(ctx context.Context, key domain.WeekKey) (*source.File, bool, error) {
	return m.EnsurePresentFunc(ctx, key)
}

func (m *mockWeekFiles) PurgeExpired(maxAge time.Duration) int {
	return m.PurgeExpiredFunc(maxAge)
}

func (m *mockWeekFiles) PurgeAll() int {
	return m.PurgeAllFunc()
}

type mockArchive struct {
	SaveFunc       func(ctx context.Context, entries []domain.MenuEntry) (int, error)
	ListByDateFunc func(ctx context.Context, date time.Time) ([]domain.MenuEntry, error)
}

func (m *mockArchive) Save(ctx context.Context, entries []domain.MenuEntry) (int, error) {
	return m.SaveFunc(ctx, entries)
}

func (m *mockArchive) ListByDate(ctx context.Context, date time.Time) ([]domain.MenuEntry, error) {
	return m.ListByDateFunc(ctx, date)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const weekCSV = "datum;tag;warengruppe;name;kennz;stud;bed;gast\n" +
	"27.11.2023;Mo;S1;Kartoffelsuppe (2,A,I);V;0,80;1,20;1,60\n" +
	"27.11.2023;Mo;HG1;Fisch (2,3,A,C);F;2,50;3,50;4,50\n" +
	"01.12.2023;Fr;HG2;Schweineschnitzel (8,AA,C,G);S;3,10;4,10;5,10\n" +
	"01.12.2023;Fr;HG3;Gemüsecurry (F,HI);VG,MV;2,90;3,90;4,90\n" +
	"01.12.2023;Fr;N1;Schokopudding (1,G);V;0,90;1,30;1,70\n" +
	"01.12.2023;Fr;A1;Aktionsessen;;4,00;5,00;6,00\n"

var (
	friday = time.Date(2023, 12, 1, 12, 30, 0, 0, time.UTC)
	week48 = domain.WeekKey{Year: 2023, Week: 48}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// weekFile returns a source file for key backed by a temp dir, written with
// content unless content is empty.
func weekFile(t *testing.T, key domain.WeekKey, content string) *source.File {
	t.Helper()
	cache, err := source.NewCache(source.Config{
		BaseURL:    "http://menu.invalid/",
		StorageDir: t.TempDir(),
	}, discardLogger())
	require.NoError(t, err)

	f, err := cache.File(key)
	require.NoError(t, err)
	if content != "" {
		require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))
	}
	return f
}

func presentFiles(f *source.File) *mockWeekFiles {
	return &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return f, true, nil
		},
	}
}

func newTestService(files weekFiles, archive Archive) *Service {
	return NewService(discardLogger(), files, archive, Config{MaxAge: 24 * time.Hour})
}

func entryNames(entries []domain.MenuEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

// ---------------------------------------------------------------------------
// EntriesForDate
// ---------------------------------------------------------------------------

func TestService_EntriesForDate(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, weekCSV)
	var requested domain.WeekKey
	files := &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, key domain.WeekKey) (*source.File, bool, error) {
			requested = key
			return f, true, nil
		},
	}

	got, err := newTestService(files, nil).EntriesForDate(context.Background(), friday)
	require.NoError(t, err)

	assert.Equal(t, week48, requested)
	assert.Equal(t, []string{"Schweineschnitzel", "Gemüsecurry", "Schokopudding"}, entryNames(got))
	for _, e := range got {
		assert.True(t, e.ServedOnDay(friday))
	}
}

func TestService_EntriesForDate_DayWithoutEntries(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, weekCSV)
	tuesday := time.Date(2023, 11, 28, 0, 0, 0, 0, time.UTC)

	got, err := newTestService(presentFiles(f), nil).EntriesForDate(context.Background(), tuesday)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_EntriesForDate_NotPublished(t *testing.T) {
	t.Parallel()

	files := &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return nil, false, nil
		},
	}

	_, err := newTestService(files, nil).EntriesForDate(context.Background(), friday)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrFetchFailed)
}

func TestService_EntriesForDate_FetchFailed(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	files := &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return nil, false, cause
		},
	}

	_, err := newTestService(files, nil).EntriesForDate(context.Background(), friday)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)
}

func TestService_EntriesForDate_InvalidWeek(t *testing.T) {
	t.Parallel()

	files := &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return nil, false, fmt.Errorf("source: %w", domain.ErrInvalidWeek)
		},
	}

	_, err := newTestService(files, nil).EntriesForDate(context.Background(), friday)
	require.ErrorIs(t, err, domain.ErrInvalidWeek)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrFetchFailed)
}

func TestService_EntriesForDate_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := &mockWeekFiles{
		EnsurePresentFunc: func(ctx context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return nil, false, ctx.Err()
		},
	}

	_, err := newTestService(files, nil).EntriesForDate(ctx, friday)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
}

func TestService_EntriesForDate_Malformed(t *testing.T) {
	t.Parallel()

	content := "datum;tag;warengruppe;name;kennz;stud;bed;gast\n" +
		"01.12.2023;Fr;HG1;Fisch;F;2,5O;3,50;4,50\n"
	f := weekFile(t, week48, content)

	_, err := newTestService(presentFiles(f), nil).EntriesForDate(context.Background(), friday)
	require.ErrorIs(t, err, ErrSourceFormat)

	var fe *menufile.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Line)
}

func TestService_EntriesForDate_FileVanished(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, "")

	_, err := newTestService(presentFiles(f), nil).EntriesForDate(context.Background(), friday)
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

// ---------------------------------------------------------------------------
// FilterEntries
// ---------------------------------------------------------------------------

func TestService_FilterEntries(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, weekCSV)
	svc := newTestService(presentFiles(f), nil)

	tests := []struct {
		name   string
		filter domain.MenuFilter
		want   []string
	}{
		{
			name:   "empty filter keeps all",
			filter: domain.MenuFilter{},
			want:   []string{"Schweineschnitzel", "Gemüsecurry", "Schokopudding"},
		},
		{
			name:   "excluded allergen",
			filter: domain.MenuFilter{ExcludedAllergens: []domain.Allergen{domain.AllergenEggs}},
			want:   []string{"Gemüsecurry", "Schokopudding"},
		},
		{
			name:   "excluded additive",
			filter: domain.MenuFilter{ExcludedAdditives: []domain.Additive{domain.AdditiveColouring}},
			want:   []string{"Schweineschnitzel", "Gemüsecurry"},
		},
		{
			name:   "excluded tag",
			filter: domain.MenuFilter{ExcludedTags: []domain.Tag{domain.TagPork, domain.TagVegan}},
			want:   []string{"Schokopudding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FilterEntries(context.Background(), friday, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryNames(got))
		})
	}
}

func TestService_FilterEntries_PropagatesError(t *testing.T) {
	t.Parallel()

	files := &mockWeekFiles{
		EnsurePresentFunc: func(_ context.Context, _ domain.WeekKey) (*source.File, bool, error) {
			return nil, false, nil
		},
	}

	_, err := newTestService(files, nil).FilterEntries(context.Background(), friday, domain.MenuFilter{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

// ---------------------------------------------------------------------------
// Archive write-through
// ---------------------------------------------------------------------------

func TestService_ArchivesWeekOncePerFileVersion(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, weekCSV)
	var saved [][]domain.MenuEntry
	archive := &mockArchive{
		SaveFunc: func(_ context.Context, entries []domain.MenuEntry) (int, error) {
			saved = append(saved, entries)
			return len(entries), nil
		},
	}
	svc := newTestService(presentFiles(f), archive)

	for range 3 {
		_, err := svc.EntriesForDate(context.Background(), friday)
		require.NoError(t, err)
	}
	require.Len(t, saved, 1)
	assert.Len(t, saved[0], 5, "whole week is archived, not just the requested day")

	// A re-downloaded file has a new modification time.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(f.Path(), later, later))

	_, err := svc.EntriesForDate(context.Background(), friday)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestService_ArchiveFailureDoesNotFailRead(t *testing.T) {
	t.Parallel()

	f := weekFile(t, week48, weekCSV)
	calls := 0
	archive := &mockArchive{
		SaveFunc: func(_ context.Context, _ []domain.MenuEntry) (int, error) {
			calls++
			return 0, errors.New("db down")
		},
	}
	svc := newTestService(presentFiles(f), archive)

	got, err := svc.EntriesForDate(context.Background(), friday)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Not marked as archived, so the next read retries.
	_, err = svc.EntriesForDate(context.Background(), friday)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// ---------------------------------------------------------------------------
// ArchivedEntries
// ---------------------------------------------------------------------------

func TestService_ArchivedEntries_Disabled(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockWeekFiles{}, nil)

	_, err := svc.ArchivedEntries(context.Background(), friday)
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	assert.False(t, svc.ArchiveEnabled())
}

func TestService_ArchivedEntries(t *testing.T) {
	t.Parallel()

	var gotDate time.Time
	archive := &mockArchive{
		ListByDateFunc: func(_ context.Context, date time.Time) ([]domain.MenuEntry, error) {
			gotDate = date
			return []domain.MenuEntry{}, nil
		},
	}
	svc := newTestService(&mockWeekFiles{}, archive)

	got, err := svc.ArchivedEntries(context.Background(), friday)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, friday, gotDate)
	assert.True(t, svc.ArchiveEnabled())
}

func TestService_ArchivedEntries_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	archive := &mockArchive{
		ListByDateFunc: func(_ context.Context, _ time.Time) ([]domain.MenuEntry, error) {
			return nil, cause
		},
	}

	_, err := newTestService(&mockWeekFiles{}, archive).ArchivedEntries(context.Background(), friday)
	assert.ErrorIs(t, err, cause)
}

// ---------------------------------------------------------------------------
// Purge
// ---------------------------------------------------------------------------

func TestService_PurgeExpired(t *testing.T) {
	t.Parallel()

	var gotAge time.Duration
	files := &mockWeekFiles{
		PurgeExpiredFunc: func(maxAge time.Duration) int {
			gotAge = maxAge
			return 2
		},
	}

	n := newTestService(files, nil).PurgeExpired(context.Background())
	assert.Equal(t, 2, n)
	assert.Equal(t, 24*time.Hour, gotAge)
}

func TestService_PurgeAll(t *testing.T) {
	t.Parallel()

	files := &mockWeekFiles{PurgeAllFunc: func() int { return 5 }}

	assert.Equal(t, 5, newTestService(files, nil).PurgeAll(context.Background()))
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

func TestService_Catalog(t *testing.T) {
	t.Parallel()

	c := newTestService(&mockWeekFiles{}, nil).Catalog()

	assert.Len(t, c.Additives, domain.MaxAdditiveIndex)
	assert.Len(t, c.Allergens, 31)
	assert.Len(t, c.Tags, 13)
	require.Len(t, c.Categories, 4)
	assert.Equal(t, domain.CatalogEntry{Code: "APPETISER", Description: "Vorspeise"}, c.Categories[0])
	assert.Equal(t, domain.CatalogEntry{Code: "A", Description: domain.AdditiveColouring.Description()}, c.Additives[0])
}
