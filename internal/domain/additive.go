package domain

// Additive is a food additive code. Source files do not use the letter
// directly: they reference an additive by its 1-based position in the
// alphabet (1 = A, 2 = B, ... 17 = Q).
type Additive string

const (
	AdditiveColouring           Additive = "A"
	AdditivePreservative        Additive = "B"
	AdditiveAntioxidant         Additive = "C"
	AdditiveFlavourEnhancer     Additive = "D"
	AdditiveSulphured           Additive = "E"
	AdditiveBlackened           Additive = "F"
	AdditiveWaxed               Additive = "G"
	AdditivePhosphate           Additive = "H"
	AdditiveSaccharin           Additive = "I"
	AdditiveAspartame           Additive = "J"
	AdditiveCyclamate           Additive = "K"
	AdditiveAcesulfame          Additive = "L"
	AdditiveQuinine             Additive = "M"
	AdditiveCaffeine            Additive = "N"
	AdditiveGeneticallyModified Additive = "O"
	AdditiveSulphides           Additive = "P"
	AdditivePhenylalanine       Additive = "Q"
)

// MaxAdditiveIndex is the highest index a source file may use for an additive.
const MaxAdditiveIndex = 17

var additives = newVocabulary([]vocabularyEntry[Additive]{
	{AdditiveColouring, "Farbstoff"},
	{AdditivePreservative, "Konservierungsstoff"},
	{AdditiveAntioxidant, "Antioxidationsmittel"},
	{AdditiveFlavourEnhancer, "Geschmacksverstärker"},
	{AdditiveSulphured, "Geschwefelt"},
	{AdditiveBlackened, "Geschwärzt"},
	{AdditiveWaxed, "Gewachst"},
	{AdditivePhosphate, "Phosphat"},
	{AdditiveSaccharin, "Säuerungsmittel Saccharin"},
	{AdditiveAspartame, "Säuerungsmittel Aspartam (enthält Phenylalaninquelle)"},
	{AdditiveCyclamate, "Säuerungsmittel Cyclamat"},
	{AdditiveAcesulfame, "Säuerungsmittel Acesulfam"},
	{AdditiveQuinine, "Chininhaltig"},
	{AdditiveCaffeine, "Coffeinhaltig"},
	{AdditiveGeneticallyModified, "Gentechnisch verändert"},
	{AdditiveSulphides, "Sulfide"},
	{AdditivePhenylalanine, "Phenylalanin"},
})

func (a Additive) String() string { return string(a) }

func (a Additive) IsValid() bool {
	_, ok := additives.description(a)
	return ok
}

// Description returns the human-readable label, or "" for unknown codes.
func (a Additive) Description() string {
	d, _ := additives.description(a)
	return d
}

// Index returns the 1-based position used by source files, or 0 for unknown codes.
func (a Additive) Index() int {
	if !a.IsValid() {
		return 0
	}
	return int(a[0]-'A') + 1
}

// AdditiveForIndex maps a source-file index onto its additive.
// The mapping is positional, so anything outside [1, MaxAdditiveIndex] has no match.
func AdditiveForIndex(index int) (Additive, bool) {
	if index < 1 || index > MaxAdditiveIndex {
		return "", false
	}
	return Additive(rune('A' + index - 1)), true
}

// AdditiveForDescription finds the additive with exactly the given label.
func AdditiveForDescription(description string) (Additive, bool) {
	return additives.code(description)
}

// Additives returns every additive in index order.
func Additives() []Additive {
	return additives.codes()
}
