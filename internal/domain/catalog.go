package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is one catalog entry.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Score       float64  `json:"_score,omitempty"`
}

// ProductRepository provides read access to the product catalog.
type ProductRepository interface {
	List(ctx context.Context, category string, limit, offset int) ([]*Product, int, error)
	Search(ctx context.Context, query string, limit int) ([]*Product, error)
	SearchLexical(ctx context.Context, query string, limit int) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

// ClickEvent is one clickstream action (view_item, add_to_cart, click_tag).
type ClickEvent struct {
	ID        uuid.UUID `json:"-"`
	Timestamp time.Time `json:"@timestamp"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	ProductID string    `json:"product_id,omitempty"`
	MetaTags  []string  `json:"meta_tags,omitempty"`
	SessionID uuid.UUID `json:"session_id"`
}

// ClickstreamRepository stores clickstream events.
type ClickstreamRepository interface {
	Insert(ctx context.Context, ev *ClickEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*ClickEvent, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// CartItem is one line in a user's cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
