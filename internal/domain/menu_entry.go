package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MenuEntry is one dish served on one day. It is immutable: the only way to
// obtain one is NewMenuEntry, and accessors hand out copies of the code sets.
type MenuEntry struct {
	category     Category
	name         string
	additives    []Additive
	allergens    []Allergen
	tags         []Tag
	studentPrice decimal.Decimal
	staffPrice   decimal.Decimal
	guestPrice   decimal.Decimal
	servedOn     time.Time
}

// MenuEntryParams carries the raw values for NewMenuEntry.
// Code slices may contain duplicates and come in any order.
type MenuEntryParams struct {
	Category     Category
	Name         string
	Additives    []Additive
	Allergens    []Allergen
	Tags         []Tag
	StudentPrice decimal.Decimal
	StaffPrice   decimal.Decimal
	GuestPrice   decimal.Decimal
	ServedOn     time.Time
}

// NewMenuEntry validates p and returns the entry. Code sets are deduplicated
// and sorted; ServedOn is truncated to its calendar day.
func NewMenuEntry(p MenuEntryParams) (MenuEntry, error) {
	var errs []FieldError
	if !p.Category.IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "invalid"})
	}
	if p.ServedOn.IsZero() {
		errs = append(errs, FieldError{Field: "served_on", Message: "required"})
	}
	for _, price := range []struct {
		field string
		value decimal.Decimal
	}{
		{"student_price", p.StudentPrice},
		{"staff_price", p.StaffPrice},
		{"guest_price", p.GuestPrice},
	} {
		if !price.value.IsPositive() {
			errs = append(errs, FieldError{Field: price.field, Message: "must be positive"})
		}
	}
	if len(errs) > 0 {
		return MenuEntry{}, NewValidationErrors(errs)
	}

	return MenuEntry{
		category:     p.Category,
		name:         p.Name,
		additives:    sortedSet(p.Additives),
		allergens:    sortedSet(p.Allergens),
		tags:         sortedSet(p.Tags),
		studentPrice: p.StudentPrice,
		staffPrice:   p.StaffPrice,
		guestPrice:   p.GuestPrice,
		servedOn:     DateOf(p.ServedOn),
	}, nil
}

func (e MenuEntry) Category() Category { return e.category }
func (e MenuEntry) Name() string { return e.name }
func (e MenuEntry) Additives() []Additive { return slices.Clone(e.additives) }
func (e MenuEntry) Allergens() []Allergen { return slices.Clone(e.allergens) }
func (e MenuEntry) Tags() []Tag { return slices.Clone(e.tags) }
func (e MenuEntry) StudentPrice() decimal.Decimal { return e.studentPrice }
func (e MenuEntry) StaffPrice() decimal.Decimal { return e.staffPrice }
func (e MenuEntry) GuestPrice() decimal.Decimal { return e.guestPrice }
func (e MenuEntry) ServedOn() time.Time { return e.servedOn }

func (e MenuEntry) HasAdditive(a Additive) bool { return slices.Contains(e.additives, a) }
func (e MenuEntry) HasAllergen(a Allergen) bool { return slices.Contains(e.allergens, a) }
func (e MenuEntry) HasTag(t Tag) bool { return slices.Contains(e.tags, t) }

// ServedOnDay reports whether the entry is served on the calendar day of date.
func (e MenuEntry) ServedOnDay(date time.Time) bool {
	return e.servedOn.Equal(DateOf(date))
}

// Equal reports structural equality. Prices compare by value, so 2.5 equals 2.50.
func (e MenuEntry) Equal(o MenuEntry) bool {
	return e.category == o.category &&
		e.name == o.name &&
		slices.Equal(e.additives, o.additives) &&
		slices.Equal(e.allergens, o.allergens) &&
		slices.Equal(e.tags, o.tags) &&
		e.studentPrice.Equal(o.studentPrice) &&
		e.staffPrice.Equal(o.staffPrice) &&
		e.guestPrice.Equal(o.guestPrice) &&
		e.servedOn.Equal(o.servedOn)
}

func sortedSet[T cmp.Ordered](in []T) []T {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
