package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"inventory_api/internal/common"
	"inventory_api/internal/domain/model"
)

// memoryUserRepository keeps users in process memory. It is used with
// STORAGE_BACKEND=memory for local runs and by tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byEmail: make(map[string]*model.User),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// memoryItemRepository keeps items in a slice. List orders them like the
// Postgres repository.
type memoryItemRepository struct {
	mu    sync.RWMutex
	items []model.Item
}

func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{}
}

func (r *memoryItemRepository) Create(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items = append(r.items, *item)
	return nil
}

func (r *memoryItemRepository) Update(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(item.ID)
	if i < 0 {
		return common.ErrNotFound
	}
	stored := &r.items[i]
	stored.Name = item.Name
	stored.Description = item.Description
	stored.Quantity = item.Quantity
	stored.Category = item.Category
	stored.UpdatedAt = time.Now().UTC()

	*item = *stored
	return nil
}

func (r *memoryItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return common.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *memoryItemRepository) List(_ context.Context, filter model.ItemFilter) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Item{}
	for _, it := range r.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		switch filter.Stock {
		case model.StockInStock:
			if it.Quantity <= 0 {
				continue
			}
		case model.StockOutOfStock:
			if it.Quantity != 0 {
				continue
			}
		}
		out = append(out, it)
	}
	sortByCreation(out)
	return out, nil
}

// sortByCreation orders items by created_at, then id.
func sortByCreation(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func (r *memoryItemRepository) DistinctCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.items))
	categories := []string{}
	for _, it := range r.items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		categories = append(categories, it.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *memoryItemRepository) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
