package domain

import (
	"slices"
	"strconv"
	"strings"
)

// MenuFilter holds the codes a guest wants to avoid. An entry carrying any
// excluded code is removed; an empty filter keeps everything.
type MenuFilter struct {
	ExcludedAdditives []Additive
	ExcludedAllergens []Allergen
	ExcludedTags      []Tag
}

func (f MenuFilter) IsEmpty() bool {
	return len(f.ExcludedAdditives) == 0 && len(f.ExcludedAllergens) == 0 && len(f.ExcludedTags) == 0
}

// Excludes reports whether e shares at least one code with the filter.
func (f MenuFilter) Excludes(e MenuEntry) bool {
	return intersects(e.additives, f.ExcludedAdditives) ||
		intersects(e.allergens, f.ExcludedAllergens) ||
		intersects(e.tags, f.ExcludedTags)
}

// Apply returns the entries not excluded by f, preserving order.
func (f MenuFilter) Apply(entries []MenuEntry) []MenuEntry {
	out := make([]MenuEntry, 0, len(entries))
	for _, e := range entries {
		if !f.Excludes(e) {
			out = append(out, e)
		}
	}
	return out
}

func intersects[T comparable](have, excluded []T) bool {
	for _, x := range excluded {
		if slices.Contains(have, x) {
			return true
		}
	}
	return false
}

// ParseMenuFilter builds a filter from user-supplied tokens. Each token may be
// a code or an exact description; additives also accept their numeric index.
// Unknown tokens are collected into a single *ValidationError.
func ParseMenuFilter(additiveTokens, allergenTokens, tagTokens []string) (MenuFilter, error) {
	var (
		f    MenuFilter
		errs []FieldError
	)
	for _, tok := range additiveTokens {
		if a, ok := parseAdditive(tok); ok {
			f.ExcludedAdditives = append(f.ExcludedAdditives, a)
		} else {
			errs = append(errs, FieldError{Field: "exclude_additives", Message: "unknown additive " + strconv.Quote(tok)})
		}
	}
	for _, tok := range allergenTokens {
		if a, ok := parseCode(tok, AllergenForCode, AllergenForDescription); ok {
			f.ExcludedAllergens = append(f.ExcludedAllergens, a)
		} else {
			errs = append(errs, FieldError{Field: "exclude_allergens", Message: "unknown allergen " + strconv.Quote(tok)})
		}
	}
	for _, tok := range tagTokens {
		if t, ok := parseCode(tok, TagForCode, TagForDescription); ok {
			f.ExcludedTags = append(f.ExcludedTags, t)
		} else {
			errs = append(errs, FieldError{Field: "exclude_tags", Message: "unknown tag " + strconv.Quote(tok)})
		}
	}
	if len(errs) > 0 {
		return MenuFilter{}, NewValidationErrors(errs)
	}
	return f, nil
}

func parseAdditive(tok string) (Additive, bool) {
	tok = strings.TrimSpace(tok)
	if index, err := strconv.Atoi(tok); err == nil {
		return AdditiveForIndex(index)
	}
	return parseCode(tok, func(code string) (Additive, bool) {
		a := Additive(code)
		return a, a.IsValid()
	}, AdditiveForDescription)
}

func parseCode[T any](tok string, byCode, byDescription func(string) (T, bool)) (T, bool) {
	tok = strings.TrimSpace(tok)
	if v, ok := byCode(tok); ok {
		return v, true
	}
	return byDescription(tok)
}
