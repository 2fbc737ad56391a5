package handler

import (
	"net/http"

	"inventory_api/internal/app/service"
	"inventory_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(cs *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

// RegisterRoutes mounts the public category listing.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
}

func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err, "failed to fetch categories")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}
