package domain

// Allergen is an allergen code as printed in dish annotations.
// Sub-kinds share the letter of their parent (AA..AF are glutens, HA..HI nuts).
type Allergen string

const (
	AllergenGluten        Allergen = "A"
	AllergenWheatGluten   Allergen = "AA"
	AllergenRyeGluten     Allergen = "AB"
	AllergenBarleyGluten  Allergen = "AC"
	AllergenOatGluten     Allergen = "AD"
	AllergenSpeltGluten   Allergen = "AE"
	AllergenKamutGluten   Allergen = "AF"
	AllergenCrustaceans   Allergen = "B"
	AllergenEggs          Allergen = "C"
	AllergenFish          Allergen = "D"
	AllergenPeanuts       Allergen = "E"
	AllergenSoy           Allergen = "F"
	AllergenMilk          Allergen = "G"
	AllergenNuts          Allergen = "H"
	AllergenAlmond        Allergen = "HA"
	AllergenHazelnut      Allergen = "HB"
	AllergenWalnut        Allergen = "HC"
	AllergenCashew        Allergen = "HD"
	AllergenPecan         Allergen = "HE"
	AllergenBrazilNut     Allergen = "HF"
	AllergenPistachio     Allergen = "HG"
	AllergenMacadamia     Allergen = "HH"
	AllergenQueenslandNut Allergen = "HI"
	AllergenCelery        Allergen = "I"
	AllergenMustard       Allergen = "J"
	AllergenSesame        Allergen = "K"
	AllergenSulphites     Allergen = "L"
	AllergenLupin         Allergen = "M"
	AllergenMolluscs      Allergen = "N"
	AllergenNitrate       Allergen = "O"
	AllergenCuringSalt    Allergen = "P"
)

var allergens = newVocabulary([]vocabularyEntry[Allergen]{
	{AllergenGluten, "Gluten"},
	{AllergenWheatGluten, "Weizengluten"},
	{AllergenRyeGluten, "Roggengluten"},
	{AllergenBarleyGluten, "Gerstengluten"},
	{AllergenOatGluten, "Hafergluten"},
	{AllergenSpeltGluten, "Dinkelgluten"},
	{AllergenKamutGluten, "Kamutgluten"},
	{AllergenCrustaceans, "Krebstiere"},
	{AllergenEggs, "Eier"},
	{AllergenFish, "Fisch"},
	{AllergenPeanuts, "Erdnüsse"},
	{AllergenSoy, "Soja"},
	{AllergenMilk, "Milch und Milchprodukte"},
	{AllergenNuts, "Nuss"},
	{AllergenAlmond, "Mandel"},
	{AllergenHazelnut, "Haselnuss"},
	{AllergenWalnut, "Walnuss"},
	{AllergenCashew, "Cashew"},
	{AllergenPecan, "Pecannuss"},
	{AllergenBrazilNut, "Paranuss"},
	{AllergenPistachio, "Pistazie"},
	{AllergenMacadamia, "Macadamianuss"},
	{AllergenQueenslandNut, "Queenslandnuss"},
	{AllergenCelery, "Sellerie"},
	{AllergenMustard, "Senf"},
	{AllergenSesame, "Sesamsamen"},
	{AllergenSulphites, "Schwefeldioxid und Sulfide"},
	{AllergenLupin, "Lupinen"},
	{AllergenMolluscs, "Weichtiere"},
	{AllergenNitrate, "Nitrat"},
	{AllergenCuringSalt, "Nitritpökelsalz"},
})

func (a Allergen) String() string { return string(a) }

func (a Allergen) IsValid() bool {
	_, ok := allergens.description(a)
	return ok
}

// Description returns the human-readable label, or "" for unknown codes.
func (a Allergen) Description() string {
	d, _ := allergens.description(a)
	return d
}

// AllergenForCode resolves an exact code token ("A", "HB", ...).
func AllergenForCode(code string) (Allergen, bool) {
	a := Allergen(code)
	if !a.IsValid() {
		return "", false
	}
	return a, true
}

// AllergenForDescription finds the allergen with exactly the given label.
func AllergenForDescription(description string) (Allergen, bool) {
	return allergens.code(description)
}

// Allergens returns every allergen in declaration order.
func Allergens() []Allergen {
	return allergens.codes()
}
