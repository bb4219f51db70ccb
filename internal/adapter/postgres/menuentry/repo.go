// Package menuentry archives parsed menu entries in PostgreSQL so past menus
// stay queryable after their source files have been purged.
package menuentry

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/mensa-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mensa-backend/internal/domain"
)

const table = "menu_entries"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides menu archive persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new archive repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertSuffix = `ON CONFLICT (served_on, category, name) DO UPDATE SET
    position      = EXCLUDED.position,
    additives     = EXCLUDED.additives,
    allergens     = EXCLUDED.allergens,
    tags          = EXCLUDED.tags,
    student_price = EXCLUDED.student_price,
    staff_price   = EXCLUDED.staff_price,
    guest_price   = EXCLUDED.guest_price,
    archived_at   = now()`

// Save upserts entries in one transaction. An entry is identified by its
// day, category and name; saving a re-published week overwrites the codes
// and prices. The position of an entry within its day is kept so reads
// return the source order.
func (r *Repo) Save(ctx context.Context, entries []domain.MenuEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	positions := make(map[time.Time]int)
	for _, e := range entries {
		pos := positions[e.ServedOn()]
		positions[e.ServedOn()] = pos + 1

		sql, args, err := psql.Insert(table).
			Columns("id", "served_on", "position", "category", "name",
				"additives", "allergens", "tags",
				"student_price", "staff_price", "guest_price").
			Values(uuid.New(), e.ServedOn(), pos, e.Category().String(), e.Name(),
				codes(e.Additives()), codes(e.Allergens()), codes(e.Tags()),
				e.StudentPrice().String(), e.StaffPrice().String(), e.GuestPrice().String()).
			Suffix(upsertSuffix).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build upsert: %w", err)
		}
		batch.Queue(sql, args...)
	}

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		br := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
		for i := range entries {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return postgres.MapError(err, "menu_entry", entries[i].Name())
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("save menu entries: %w", err)
	}
	return len(entries), nil
}

// DeleteBefore removes every entry served before the given day and returns
// the number of rows removed.
func (r *Repo) DeleteBefore(ctx context.Context, day time.Time) (int64, error) {
	sql, args, err := psql.Delete(table).
		Where(squirrel.Lt{"served_on": domain.DateOf(day)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "menu_entry", day.Format(time.DateOnly))
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByDate returns the entries archived for the calendar day of date in
// source order. Returns an empty slice (not nil) when nothing is archived.
func (r *Repo) ListByDate(ctx context.Context, date time.Time) ([]domain.MenuEntry, error) {
	day := domain.DateOf(date)

	sql, args, err := psql.
		Select("category", "name", "additives", "allergens", "tags",
			"student_price::text", "staff_price::text", "guest_price::text", "served_on").
		From(table).
		Where(squirrel.Eq{"served_on": day}).
		OrderBy("position", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "menu_entry", day.Format(time.DateOnly))
	}
	defer rows.Close()

	entries := []domain.MenuEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list menu entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "menu_entry", day.Format(time.DateOnly))
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (domain.MenuEntry, error) {
	var (
		category, name                 string
		additives, allergens, tags     []string
		studentRaw, staffRaw, guestRaw string
		servedOn                       time.Time
	)
	if err := row.Scan(&category, &name, &additives, &allergens, &tags,
		&studentRaw, &staffRaw, &guestRaw, &servedOn); err != nil {
		return domain.MenuEntry{}, fmt.Errorf("scan row: %w", err)
	}

	prices := make([]decimal.Decimal, 3)
	for i, raw := range []string{studentRaw, staffRaw, guestRaw} {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.MenuEntry{}, fmt.Errorf("parse price %q: %w", raw, err)
		}
		prices[i] = p
	}

	return domain.NewMenuEntry(domain.MenuEntryParams{
		Category:     domain.Category(category),
		Name:         name,
		Additives:    fromCodes[domain.Additive](additives),
		Allergens:    fromCodes[domain.Allergen](allergens),
		Tags:         fromCodes[domain.Tag](tags),
		StudentPrice: prices[0],
		StaffPrice:   prices[1],
		GuestPrice:   prices[2],
		ServedOn:     servedOn,
	})
}

func codes[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = string(c)
	}
	return out
}

func fromCodes[T ~string](in []string) []T {
	out := make([]T, len(in))
	for i, c := range in {
		out[i] = T(c)
	}
	return out
}
