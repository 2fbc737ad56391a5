package api

import (
	"log/slog"
	"net/http"
	"time"

	"inventory_api/internal/api/handler"
	"inventory_api/internal/app/service"
	"inventory_api/internal/common"
	"inventory_api/internal/platform/logging"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface. security.InitJWT must have been called.
func NewRouter(
	logger *slog.Logger,
	authService *service.AuthService,
	itemService *service.ItemService,
	categoryService *service.CategoryService,
) http.Handler {
	r := chi.NewRouter()

	// Set before mounting so sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/auth", authHandler.RegisterRoutes)

	// Item routes (authenticated)
	itemHandler := handler.NewItemHandler(itemService)
	r.Route("/items", itemHandler.RegisterRoutes)

	// Category routes (public)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	r.Route("/categories", categoryHandler.RegisterRoutes)

	return r
}
