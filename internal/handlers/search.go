package handlers

import (
	"net/http"

	"athlete-connect-backend/internal/middleware"
)

// SearchHandler handles user discovery requests
type SearchHandler struct{}

// NewSearchHandler creates a new search handler
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// Search handles GET /api/v1/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	users := session.Search(r.URL.Query().Get("q"))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": len(users),
	})
}

// History handles GET /api/v1/search/history
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"queries": session.SearchHistory(),
	})
}

// ClearHistory handles DELETE /api/v1/search/history
func (h *SearchHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	session.ClearSearchHistory()
	w.WriteHeader(http.StatusNoContent)
}

// Suggestions handles GET /api/v1/suggestions
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": session.SuggestedUsers(),
	})
}
