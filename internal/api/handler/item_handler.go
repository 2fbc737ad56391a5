package handler

import (
	"log/slog"
	"net/http"

	"inventory_api/internal/api/middleware"
	"inventory_api/internal/app/service"
	"inventory_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type ItemHandler struct {
	itemService *service.ItemService
}

func NewItemHandler(is *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: is}
}

// RegisterRoutes mounts the item endpoints. Every one of them needs a bearer token.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Get("/", h.listItems)             // GET /items?category=tools&inStock=true
	r.Post("/", h.createItem)           // POST /items
	r.Put("/{itemID}", h.updateItem)    // PUT /items/{id}
	r.Delete("/{itemID}", h.deleteItem) // DELETE /items/{id}
}

func (h *ItemHandler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ParseItemFilter(q.Get("category"), q.Get("inStock"))

	items, err := h.itemService.ListItems(r.Context(), filter)
	if err != nil {
		common.RespondWithServiceError(w, r, err, "failed to fetch items")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) createItem(w http.ResponseWriter, r *http.Request) {
	var req service.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err, "failed to create item")
		return
	}
	logItemWrite(r, "item created", item.ID)
	common.RespondWithJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req service.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err, "failed to update item")
		return
	}
	logItemWrite(r, "item updated", item.ID)
	common.RespondWithJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if err := h.itemService.DeleteItem(r.Context(), itemID); err != nil {
		common.RespondWithServiceError(w, r, err, "failed to delete item")
		return
	}
	logItemWrite(r, "item deleted", itemID)
	common.RespondNoContent(w)
}

// logItemWrite records which authenticated user changed an item.
func logItemWrite(r *http.Request, msg, itemID string) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	slog.InfoContext(r.Context(), msg, "item_id", itemID, "user_id", userID)
}
