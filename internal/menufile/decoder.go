package menufile

import (
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// DecodedName is a dish name split from its annotation.
type DecodedName struct {
	Name      string
	Additives []domain.Additive
	Allergens []domain.Allergen
}

// DecodeName splits a raw source name such as "Fisch (2,3,A,C)" into the
// plain name and the codes found in the parenthesised annotation.
//
// The annotation is the text after the first "(" up to the next "(", if any.
// Capital-letter runs are allergen candidates and digit runs are additive
// indexes. Tokens that resolve to nothing are dropped. The closing ")" does
// not end the annotation, so capitals in text after it are classified too:
// "Menü (1,A) mit Beilage" yields the allergens A and B.
//
// Letters are not split further, so "(AB C)" yields the codes AB and C while
// "(A,B,C)" yields A, B and C.
func DecodeName(raw string) DecodedName {
	name, blob, found := strings.Cut(raw, "(")
	if !found {
		return DecodedName{Name: strings.TrimSpace(raw)}
	}
	blob, _, _ = strings.Cut(blob, "(")

	return DecodedName{
		Name:      strings.TrimSpace(name),
		Additives: decodeAdditives(blob),
		Allergens: decodeAllergens(blob),
	}
}

func decodeAllergens(blob string) []domain.Allergen {
	var out []domain.Allergen
	for _, token := range strings.FieldsFunc(blob, notCapital) {
		if a, ok := domain.AllergenForCode(token); ok {
			out = append(out, a)
		}
	}
	return set(out)
}

func decodeAdditives(blob string) []domain.Additive {
	var out []domain.Additive
	for _, token := range strings.FieldsFunc(blob, notDigit) {
		index, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if a, ok := domain.AdditiveForIndex(index); ok {
			out = append(out, a)
		}
	}
	return set(out)
}

func notCapital(r rune) bool { return r < 'A' || r > 'Z' }

func notDigit(r rune) bool { return r < '0' || r > '9' }

func set[T ~string](in []T) []T {
	slices.Sort(in)
	return slices.Compact(in)
}
