package domain

import "strconv"

// Vocabulary identifies one of the three independent code tables.
type Vocabulary string

const (
	VocabularyAdditive Vocabulary = "ADDITIVE"
	VocabularyAllergen Vocabulary = "ALLERGEN"
	VocabularyTag      Vocabulary = "TAG"
)

func (v Vocabulary) String() string { return string(v) }

func (v Vocabulary) IsValid() bool {
	switch v {
	case VocabularyAdditive, VocabularyAllergen, VocabularyTag:
		return true
	}
	return false
}

// CatalogEntry is one code/description pair of a vocabulary.
type CatalogEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ResolveByCode returns the description for a code of the given vocabulary.
// Additive codes may be given either as the numeric source index ("3") or as
// the letter ("C"). Unknown codes and vocabularies report ok == false.
func ResolveByCode(v Vocabulary, code string) (string, bool) {
	switch v {
	case VocabularyAdditive:
		if index, err := strconv.Atoi(code); err == nil {
			a, ok := AdditiveForIndex(index)
			if !ok {
				return "", false
			}
			return a.Description(), true
		}
		return additives.description(Additive(code))
	case VocabularyAllergen:
		return allergens.description(Allergen(code))
	case VocabularyTag:
		return tags.description(Tag(code))
	}
	return "", false
}

// ResolveByDescription returns the code carrying exactly the given description.
func ResolveByDescription(v Vocabulary, description string) (string, bool) {
	switch v {
	case VocabularyAdditive:
		a, ok := additives.code(description)
		return string(a), ok
	case VocabularyAllergen:
		a, ok := allergens.code(description)
		return string(a), ok
	case VocabularyTag:
		t, ok := tags.code(description)
		return string(t), ok
	}
	return "", false
}

// CatalogEntries lists the whole vocabulary in declaration order.
func CatalogEntries(v Vocabulary) []CatalogEntry {
	switch v {
	case VocabularyAdditive:
		return toCatalogEntries(additives)
	case VocabularyAllergen:
		return toCatalogEntries(allergens)
	case VocabularyTag:
		return toCatalogEntries(tags)
	}
	return nil
}

func toCatalogEntries[T ~string](v vocabulary[T]) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(v.ordered))
	for _, code := range v.ordered {
		out = append(out, CatalogEntry{Code: string(code), Description: v.byCode[code]})
	}
	return out
}
