package domain

// vocabulary is an immutable code/description table. It is built once at
// package initialisation and only read afterwards.
type vocabulary[T ~string] struct {
	ordered       []T
	byCode        map[T]string
	byDescription map[string]T
}

type vocabularyEntry[T ~string] struct {
	code        T
	description string
}

func newVocabulary[T ~string](entries []vocabularyEntry[T]) vocabulary[T] {
	v := vocabulary[T]{
		ordered:       make([]T, 0, len(entries)),
		byCode:        make(map[T]string, len(entries)),
		byDescription: make(map[string]T, len(entries)),
	}
	for _, e := range entries {
		v.ordered = append(v.ordered, e.code)
		v.byCode[e.code] = e.description
		v.byDescription[e.description] = e.code
	}
	return v
}

func (v vocabulary[T]) description(code T) (string, bool) {
	d, ok := v.byCode[code]
	return d, ok
}

func (v vocabulary[T]) code(description string) (T, bool) {
	c, ok := v.byDescription[description]
	return c, ok
}

// codes returns a copy of the codes in declaration order.
func (v vocabulary[T]) codes() []T {
	out := make([]T, len(v.ordered))
	copy(out, v.ordered)
	return out
}
