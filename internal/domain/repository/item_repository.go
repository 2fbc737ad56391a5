package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventory_api/internal/common"
	"inventory_api/internal/domain/model"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type pgItemRepository struct {
	db *sql.DB
}

func NewPgItemRepository(db *sql.DB) ItemRepository {
	return &pgItemRepository{db: db}
}

func (r *pgItemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `INSERT INTO items (id, name, description, quantity, category)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, item.ID, item.Name, item.Description, item.Quantity, item.Category).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgItemRepository.Create: %w", err)
	}
	return nil
}

// Update replaces every mutable column of the item with the given ID.
func (r *pgItemRepository) Update(ctx context.Context, item *model.Item) error {
	query := `UPDATE items SET
                name = $1, description = $2, quantity = $3, category = $4, updated_at = CURRENT_TIMESTAMP
              WHERE id = $5
              RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, item.Name, item.Description, item.Quantity, item.Category, item.ID).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgItemRepository.Update: %w", err)
	}
	return nil
}

func (r *pgItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgItemRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgItemRepository.Delete rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// List returns matching items ordered by created_at, then id.
func (r *pgItemRepository) List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	var query strings.Builder
	query.WriteString(`SELECT id, name, description, quantity, category, created_at, updated_at FROM items`)

	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}

	switch filter.Stock {
	case model.StockInStock:
		conditions = append(conditions, "quantity > 0")
	case model.StockOutOfStock:
		conditions = append(conditions, "quantity = 0")
	}

	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgItemRepository.List query: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Quantity, &it.Category, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgItemRepository.List scan: %w", err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgItemRepository.List rows.Err: %w", err)
	}
	return items, nil
}

func (r *pgItemRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM items ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgItemRepository.DistinctCategories query: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("pgItemRepository.DistinctCategories scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgItemRepository.DistinctCategories rows.Err: %w", err)
	}
	return categories, nil
}
