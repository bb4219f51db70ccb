package testhelper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueDate returns a day far in the future that no other test uses, so
// tests sharing the container do not see each other's rows.
func UniqueDate() time.Time {
	id := uuid.New()
	days := int(id[0])<<8 | int(id[1])
	return time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

// NewMenuEntry builds a valid entry served on the given day. The name gets a
// unique suffix.
func NewMenuEntry(t *testing.T, category domain.Category, name string, servedOn time.Time) domain.MenuEntry {
	t.Helper()

	e, err := domain.NewMenuEntry(domain.MenuEntryParams{
		Category:     category,
		Name:         name + " " + uniqueSuffix(),
		Additives:    []domain.Additive{domain.AdditivePreservative, domain.AdditiveAntioxidant},
		Allergens:    []domain.Allergen{domain.AllergenGluten, domain.AllergenEggs},
		Tags:         []domain.Tag{domain.TagFish},
		StudentPrice: decimal.RequireFromString("2.50"),
		StaffPrice:   decimal.RequireFromString("3.50"),
		GuestPrice:   decimal.RequireFromString("4.50"),
		ServedOn:     servedOn,
	})
	if err != nil {
		t.Fatalf("testhelper: build menu entry: %v", err)
	}
	return e
}
