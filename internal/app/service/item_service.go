package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"inventory_api/internal/common"
	"inventory_api/internal/domain/model"
	"inventory_api/internal/domain/repository"

	"github.com/google/uuid"
)

type ItemService struct {
	itemRepo      repository.ItemRepository
	categoryCache repository.CategoryCache
}

func NewItemService(itemRepo repository.ItemRepository, categoryCache repository.CategoryCache) *ItemService {
	return &ItemService{itemRepo: itemRepo, categoryCache: categoryCache}
}

// ItemRequest is the body of both create and full-replace update. Quantity
// accepts a JSON number or a numeric string.
type ItemRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	Category    string      `json:"category"`
}

// ParseItemFilter turns the listing query parameters into a filter. Any
// non-empty inStock other than "true" selects items with exactly zero stock.
func ParseItemFilter(category, inStock string) model.ItemFilter {
	f := model.ItemFilter{Category: category}
	if inStock != "" {
		if inStock == "true" {
			f.Stock = model.StockInStock
		} else {
			f.Stock = model.StockOutOfStock
		}
	}
	return f
}

func (s *ItemService) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *ItemService) CreateItem(ctx context.Context, req ItemRequest) (*model.Item, error) {
	item, err := req.toItem()
	if err != nil {
		return nil, err
	}
	item.ID = uuid.NewString()

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	s.invalidateCategories(ctx)
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id string, req ItemRequest) (*model.Item, error) {
	if err := validateItemID(id); err != nil {
		return nil, err
	}
	item, err := req.toItem()
	if err != nil {
		return nil, err
	}
	item.ID = id

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", id, err)
	}
	s.invalidateCategories(ctx)
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	if err := validateItemID(id); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	s.invalidateCategories(ctx)
	return nil
}

// invalidateCategories drops the cached category list. A cache failure does
// not fail the write; the entry expires on its own.
func (s *ItemService) invalidateCategories(ctx context.Context) {
	if err := s.categoryCache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "category cache invalidation failed", "error", err)
	}
}

func (req ItemRequest) toItem() (*model.Item, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Category) == "" || req.Quantity == "" {
		return nil, fmt.Errorf("name, description, quantity and category are required: %w", common.ErrValidation)
	}

	// items.quantity is a 32-bit INTEGER column.
	quantity, err := strconv.ParseInt(strings.TrimSpace(req.Quantity.String()), 10, 32)
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("quantity must be an integer between 0 and %d: %w", math.MaxInt32, common.ErrValidation)
	}

	return &model.Item{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    int(quantity),
		Category:    req.Category,
	}, nil
}

// Item ids are UUIDs; anything else cannot name an existing item.
func validateItemID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}
	return nil
}
