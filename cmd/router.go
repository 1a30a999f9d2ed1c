package cmd

import (
	"net/http"

	"athlete-connect-backend/internal/handlers"
	"athlete-connect-backend/internal/middleware"
	"athlete-connect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP routes
func NewRouter(
	sessionManager *services.SessionManager,
	conversationService *services.ConversationService,
	videoService *services.VideoService,
	wsHub *services.WSHub,
) http.Handler {
	userHandler := handlers.NewUserHandler(sessionManager)
	sessionHandler := handlers.NewSessionHandler(sessionManager)
	searchHandler := handlers.NewSearchHandler()
	conversationHandler := handlers.NewConversationHandler(conversationService, wsHub)
	videoHandler := handlers.NewVideoHandler(videoService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, sessionManager, conversationService)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)
		r.Post("/sessions", sessionHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(sessionManager))
			r.Delete("/sessions", sessionHandler.Logout)
			r.Get("/me", userHandler.GetMe)
			r.Get("/users/{user_id}", userHandler.GetUser)
			r.Put("/users/{user_id}", userHandler.UpdateUser)
			r.Get("/search", searchHandler.Search)
			r.Get("/search/history", searchHandler.History)
			r.Delete("/search/history", searchHandler.ClearHistory)
			r.Get("/suggestions", searchHandler.Suggestions)
			r.Get("/conversations", conversationHandler.ListConversations)
			r.Post("/conversations", conversationHandler.StartConversation)
			r.Get("/conversations/{conversation_id}", conversationHandler.GetConversation)
			r.Post("/conversations/{conversation_id}/messages", conversationHandler.SendMessage)
			r.Post("/videos", videoHandler.UploadVideo)
		})
	})

	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
