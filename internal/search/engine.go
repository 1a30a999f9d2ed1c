// Package search implements user discovery over the user directory.
package search

import (
	"strings"
	"sync"

	"athlete-connect-backend/internal/models"

	"github.com/samber/lo"
)

// DefaultHistoryLimit is the number of distinct recent queries kept
const DefaultHistoryLimit = 5

// Directory is the read side of the user directory used by the engine
type Directory interface {
	List() []models.User
}

// Engine runs substring queries over a directory and keeps a bounded query history
type Engine struct {
	mu           sync.Mutex
	directory    Directory
	suggestions  SuggestionProvider
	history      []string
	historyLimit int
}

// NewEngine creates a search engine. A non-positive limit falls back to DefaultHistoryLimit.
func NewEngine(directory Directory, suggestions SuggestionProvider, historyLimit int) *Engine {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Engine{
		directory:    directory,
		suggestions:  suggestions,
		historyLimit: historyLimit,
	}
}

// Search returns users whose name or email contains the query, case-insensitively,
// in directory order. An empty query matches nothing and is not recorded.
func (e *Engine) Search(query string) []models.User {
	if query == "" {
		return []models.User{}
	}

	needle := strings.ToLower(query)
	results := lo.Filter(e.directory.List(), func(u models.User, _ int) bool {
		return strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle)
	})

	e.record(query)
	return results
}

// record prepends a query to the history unless it is already present
func (e *Engine) record(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if lo.Contains(e.history, query) {
		return
	}
	e.history = append([]string{query}, e.history...)
	if len(e.history) > e.historyLimit {
		e.history = e.history[:e.historyLimit]
	}
}

// History returns recent queries, most recent first
func (e *Engine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.history...)
}

// ClearHistory empties the query history
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// Suggested returns the suggested users. It does not depend on search state.
func (e *Engine) Suggested() []models.User {
	if e.suggestions == nil {
		return []models.User{}
	}
	return e.suggestions.Suggest()
}
