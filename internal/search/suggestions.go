package search

import (
	"athlete-connect-backend/internal/models"

	"github.com/samber/lo"
)

// SuggestionProvider ranks users to suggest independently of search queries
type SuggestionProvider interface {
	Suggest() []models.User
}

// Lookup resolves users by id
type Lookup interface {
	FindByID(id string) (*models.User, error)
}

// StaticSuggestions suggests a fixed list of users curated at bootstrap
type StaticSuggestions struct {
	lookup Lookup
	ids    []string
}

// NewStaticSuggestions creates a provider for the given user ids
func NewStaticSuggestions(lookup Lookup, ids []string) *StaticSuggestions {
	return &StaticSuggestions{lookup: lookup, ids: append([]string{}, ids...)}
}

// Suggest resolves the curated ids against the directory, skipping unknown ones
func (s *StaticSuggestions) Suggest() []models.User {
	return lo.FilterMap(s.ids, func(id string, _ int) (models.User, bool) {
		u, err := s.lookup.FindByID(id)
		if err != nil {
			return models.User{}, false
		}
		return *u, true
	})
}
