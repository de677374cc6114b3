// Package postgres implements the catalog and clickstream repositories
// on PostgreSQL. The catalog search uses built-in full-text ranking
// with a trigram fallback for fuzzy lexical matches.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	products    *ProductRepo
	clickstream *ClickstreamRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		products:    NewProductRepo(pool),
		clickstream: NewClickstreamRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Products() domain.ProductRepository        { return s.products }
func (s *Store) Clickstream() domain.ClickstreamRepository { return s.clickstream }
