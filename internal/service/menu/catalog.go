package menu

import "github.com/heartmarshall/mensa-backend/internal/domain"

// Catalog lists every code a menu entry can carry.
type Catalog struct {
	Additives  []domain.CatalogEntry `json:"additives"`
	Allergens  []domain.CatalogEntry `json:"allergens"`
	Tags       []domain.CatalogEntry `json:"tags"`
	Categories []domain.CatalogEntry `json:"categories"`
}

// Catalog returns the static code tables with their descriptions.
func (s *Service) Catalog() Catalog {
	categories := make([]domain.CatalogEntry, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, domain.CatalogEntry{Code: c.String(), Description: c.Label()})
	}
	return Catalog{
		Additives:  domain.CatalogEntries(domain.VocabularyAdditive),
		Allergens:  domain.CatalogEntries(domain.VocabularyAllergen),
		Tags:       domain.CatalogEntries(domain.VocabularyTag),
		Categories: categories,
	}
}
