package handlers

import (
	"JourFlow/internal/config"
	"JourFlow/internal/middleware"
	"JourFlow/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	postService *service.PostService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Content-Encoding"},
		MaxAge:         300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(userService, logger)
	postHandler := NewPostHandler(postService, logger)

	r.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/google-signin", authHandler.GoogleSignIn)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Posts routes
		r.Get("/posts/{userID}", postHandler.GetPosts)
		r.Post("/posts/add-post", postHandler.AddPosts)
		r.Post("/posts/add-image", postHandler.AddImages)
		r.Put("/posts/update", postHandler.UpdatePosts)
		r.Delete("/posts/delete", postHandler.DeletePosts)
	})

	return &Handler{Router: r}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess — тело ответа мутаций, которое ждёт клиент.
func writeSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("success"))
}
