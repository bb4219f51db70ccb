package domain

// Tag is a descriptive dish marker from the source's classification column.
type Tag string

const (
	TagPoultry    Tag = "G"
	TagPork       Tag = "S"
	TagBeef       Tag = "R"
	TagFish       Tag = "F"
	TagAlcohol    Tag = "A"
	TagVegetarian Tag = "V"
	TagVegan      Tag = "VG"
	TagMensaVital Tag = "MV"
	TagJuradistl  Tag = "J"
	TagBioland    Tag = "BL"
	TagLamb       Tag = "L"
	TagGame       Tag = "W"
	TagOrganic    Tag = "B"
)

var tags = newVocabulary([]vocabularyEntry[Tag]{
	{TagPoultry, "Geflügel"},
	{TagPork, "Schweinefleisch"},
	{TagBeef, "Rindfleisch"},
	{TagFish, "Fisch"},
	{TagAlcohol, "Alkohol"},
	{TagVegetarian, "Vegetarisch"},
	{TagVegan, "Vegan"},
	{TagMensaVital, "Mensa Vital"},
	{TagJuradistl, "Juradistl"},
	{TagBioland, "Bioland"},
	{TagLamb, "Lamm"},
	{TagGame, "Wild"},
	{TagOrganic, "DE-ÖKO-006 mit ausschließlich biologisch erzeugten Rohstoffen"},
})

func (t Tag) String() string { return string(t) }

func (t Tag) IsValid() bool {
	_, ok := tags.description(t)
	return ok
}

func (t Tag) Description() string {
	d, _ := tags.description(t)
	return d
}

// TagForCode resolves an exact code token ("V", "VG", ...).
func TagForCode(code string) (Tag, bool) {
	t := Tag(code)
	if !t.IsValid() {
		return "", false
	}
	return t, true
}

func TagForDescription(description string) (Tag, bool) {
	return tags.code(description)
}

// Tags returns every tag in declaration order.
func Tags() []Tag {
	return tags.codes()
}
