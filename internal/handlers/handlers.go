package handlers

import (
	"PassVault/internal/auth"
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"PassVault/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	recordService *service.RecordService,
	searchService *service.SearchComposer,
	secretService *service.SecretService,
	userService *service.UserService,
	gate *auth.Gate,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(gate))

	// Handlers
	userHandler := NewUserHandler(userService, gate, logger, config)
	recordHandler := NewRecordHandler(recordService, logger)
	searchHandler := NewSearchHandler(searchService, logger)
	secretHandler := NewSecretHandler(secretService, logger)

	// Auth routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Get("/api/auth/status", userHandler.Status)

	// Account of the caller
	r.Get("/api/user", userHandler.Profile)
	r.Patch("/api/user", userHandler.Update)

	// Records
	r.Route("/api/records", func(r chi.Router) {
		r.Post("/", recordHandler.Create)
		r.Get("/", recordHandler.List)
		r.Get("/{id}", recordHandler.Get)
		r.Patch("/{id}", recordHandler.Update)
		r.Delete("/{id}", recordHandler.Delete)
	})

	// Secrets of the old format
	r.Route("/api/secrets", func(r chi.Router) {
		r.Post("/", secretHandler.Create)
		r.Get("/", secretHandler.List)
		r.Get("/{id}", secretHandler.Get)
		r.Patch("/{id}", secretHandler.Update)
		r.Delete("/{id}", secretHandler.Delete)
	})

	r.Get("/api/search", searchHandler.Search)

	return &Handler{Router: r}
}
