package model

import "time"

// Item is a stock entry. Items are shared by all authenticated users.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockFilter selects items by quantity.
type StockFilter int

const (
	StockAny StockFilter = iota
	StockInStock
	StockOutOfStock
)

// ItemFilter holds the optional constraints of an item query. An empty
// Category and StockAny apply no constraint.
type ItemFilter struct {
	Category string
	Stock    StockFilter
}
