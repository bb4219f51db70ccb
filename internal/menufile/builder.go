package menufile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// Header names used by the source.
const (
	FieldDate         = "datum"
	FieldWeekday      = "tag"
	FieldGroup        = "warengruppe"
	FieldName         = "name"
	FieldTags         = "kennz"
	FieldStudentPrice = "stud"
	FieldStaffPrice   = "bed"
	FieldGuestPrice   = "gast"
)

// DefaultDateLayout matches the dd.MM.yyyy dates of the source.
const DefaultDateLayout = "02.01.2006"

var (
	// ErrUnknownCategory rejects a single row whose group maps to no course.
	ErrUnknownCategory = errors.New("unknown category")

	ErrMissingField  = errors.New("missing field")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidRecord = errors.New("invalid record")
)

// FormatError reports a malformed field. It matches domain.ErrInvalidFormat
// as well as its cause.
type FormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: field %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{domain.ErrInvalidFormat, e.Err}
}

// BuildEntry turns one row into a menu entry. Dates are parsed with layout.
// Rows of an unknown group return an error wrapping ErrUnknownCategory; any
// other failure is a *FormatError.
func BuildEntry(row Row, layout string) (domain.MenuEntry, error) {
	group, err := require(row, FieldGroup)
	if err != nil {
		return domain.MenuEntry{}, err
	}
	category, ok := domain.CategoryForGroup(group)
	if !ok {
		return domain.MenuEntry{}, fmt.Errorf("line %d: group %q: %w", row.Line(), group, ErrUnknownCategory)
	}

	rawName, err := require(row, FieldName)
	if err != nil {
		return domain.MenuEntry{}, err
	}
	decoded := DecodeName(rawName)

	rawTags, err := require(row, FieldTags)
	if err != nil {
		return domain.MenuEntry{}, err
	}

	prices := make([]decimal.Decimal, 0, 3)
	for _, field := range []string{FieldStudentPrice, FieldStaffPrice, FieldGuestPrice} {
		price, err := parsePrice(row, field)
		if err != nil {
			return domain.MenuEntry{}, err
		}
		prices = append(prices, price)
	}

	servedOn, err := parseDate(row, layout)
	if err != nil {
		return domain.MenuEntry{}, err
	}

	entry, err := domain.NewMenuEntry(domain.MenuEntryParams{
		Category:     category,
		Name:         decoded.Name,
		Additives:    decoded.Additives,
		Allergens:    decoded.Allergens,
		Tags:         parseTags(rawTags),
		StudentPrice: prices[0],
		StaffPrice:   prices[1],
		GuestPrice:   prices[2],
		ServedOn:     servedOn,
	})
	if err != nil {
		return domain.MenuEntry{}, &FormatError{Line: row.Line(), Field: FieldName, Value: rawName, Err: errors.Join(ErrInvalidRecord, err)}
	}
	return entry, nil
}

func require(row Row, field string) (string, error) {
	v, ok := row.Lookup(field)
	if !ok {
		return "", &FormatError{Line: row.Line(), Field: field, Err: ErrMissingField}
	}
	return v, nil
}

// parsePrice accepts a decimal comma ("2,50") or point.
func parsePrice(row Row, field string) (decimal.Decimal, error) {
	raw, err := require(row, field)
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Decimal{}, &FormatError{Line: row.Line(), Field: field, Value: raw, Err: fmt.Errorf("%w: %v", ErrInvalidPrice, err)}
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, &FormatError{Line: row.Line(), Field: field, Value: raw, Err: fmt.Errorf("%w: must be positive", ErrInvalidPrice)}
	}
	return price, nil
}

func parseDate(row Row, layout string) (time.Time, error) {
	raw, err := require(row, FieldDate)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, &FormatError{Line: row.Line(), Field: FieldDate, Value: raw, Err: fmt.Errorf("%w: %v", ErrInvalidDate, err)}
	}
	return t, nil
}

// parseTags resolves comma separated tag codes, dropping unknown ones.
func parseTags(raw string) []domain.Tag {
	var tags []domain.Tag
	for _, code := range strings.Split(raw, ",") {
		if tag, ok := domain.TagForCode(strings.TrimSpace(code)); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}
