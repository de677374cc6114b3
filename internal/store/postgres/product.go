package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = `id, title, description, category, brand, price, image_url, tags, rating`

func (r *ProductRepo) List(ctx context.Context, category string, limit, offset int) ([]*domain.Product, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE ($1 = '' OR category = $1)`,
		category,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.List: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE ($1 = '' OR category = $1)
		 ORDER BY title
		 LIMIT $2 OFFSET $3`,
		category, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.List: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows, false, "productRepo.List")
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Search ranks products with full-text search across title, description
// and tags. Multi-word queries match any term.
func (r *ProductRepo) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`,
		        ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score
		 FROM products
		 WHERE search_vector @@ websearch_to_tsquery('english', $1)
		 ORDER BY score DESC, title
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("productRepo.Search: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, true, "productRepo.Search")
}

// SearchLexical is the fuzzy fallback for queries full-text search
// cannot parse or match: trigram similarity against the title.
func (r *ProductRepo) SearchLexical(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`,
		        similarity(title, $1) AS score
		 FROM products
		 WHERE title % $1 OR title ILIKE '%' || $1 || '%'
		 ORDER BY score DESC, title
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("productRepo.SearchLexical: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, true, "productRepo.SearchLexical")
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product

	err := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		id,
	).Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Brand,
		&p.Price, &p.ImageURL, &p.Tags, &p.Rating,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("productRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}

	return &p, nil
}

func scanProducts(rows pgx.Rows, withScore bool, op string) ([]*domain.Product, error) {
	var products []*domain.Product

	for rows.Next() {
		var p domain.Product
		dest := []any{
			&p.ID, &p.Title, &p.Description, &p.Category, &p.Brand,
			&p.Price, &p.ImageURL, &p.Tags, &p.Rating,
		}
		if withScore {
			dest = append(dest, &p.Score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return products, nil
}
