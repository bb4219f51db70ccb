package domain

// Category is the course kind of a menu entry.
type Category string

const (
	CategoryAppetiser Category = "APPETISER"
	CategoryMain      Category = "MAIN"
	CategorySide      Category = "SIDE"
	CategoryDessert   Category = "DESSERT"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryAppetiser, CategoryMain, CategorySide, CategoryDessert:
		return true
	}
	return false
}

// Label returns the German course name shown to guests.
func (c Category) Label() string {
	switch c {
	case CategoryAppetiser:
		return "Vorspeise"
	case CategoryMain:
		return "Hauptspeise"
	case CategorySide:
		return "Beilage"
	case CategoryDessert:
		return "Nachspeise"
	}
	return ""
}

// CategoryForGroup maps the leading letter of a source "warengruppe" value
// onto a category: H main, S appetiser, B side, N dessert.
func CategoryForGroup(group string) (Category, bool) {
	if group == "" {
		return "", false
	}
	switch group[0] {
	case 'H':
		return CategoryMain, true
	case 'S':
		return CategoryAppetiser, true
	case 'B':
		return CategorySide, true
	case 'N':
		return CategoryDessert, true
	}
	return "", false
}

// Categories returns all categories in menu order.
func Categories() []Category {
	return []Category{CategoryAppetiser, CategoryMain, CategorySide, CategoryDessert}
}
