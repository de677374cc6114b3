package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

var sampleProducts = []*domain.Product{
	{ID: "p-1", Title: "Summit Forge Alpine Tent", Category: "Tents", Brand: "Summit Forge", Price: 449.99},
	{ID: "p-2", Title: "TrailWeight Down Quilt", Category: "Sleeping Bags", Brand: "TrailWeight", Price: 289.00},
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				listFunc: func(_ context.Context, category string, limit, offset int) ([]*domain.Product, int, error) {
					assert.Equal(t, "Tents", category)
					assert.Equal(t, 10, limit)
					assert.Equal(t, 0, offset)
					return sampleProducts[:1], 1, nil
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products?category=Tents&limit=10")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Products []*domain.Product `json:"products"`
			Total    int               `json:"total"`
			Limit    int               `json:"limit"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Summit Forge Alpine Tent", body.Products[0].Title)
		assert.Equal(t, 1, body.Total)
		assert.Equal(t, 10, body.Limit)
	})

	t.Run("empty_result_is_array", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				listFunc: func(context.Context, string, int, int) ([]*domain.Product, int, error) {
					return nil, 0, nil
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"products":[]`)
	})

	t.Run("store_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				listFunc: func(context.Context, string, int, int) ([]*domain.Product, int, error) {
					return nil, 0, errors.New("connection refused")
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	t.Run("fulltext", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				searchFunc: func(_ context.Context, query string, limit int) ([]*domain.Product, error) {
					assert.Equal(t, "alpine tent", query)
					assert.Equal(t, 20, limit)
					return sampleProducts[:1], nil
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products/search?q=alpine+tent")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "Summit Forge Alpine Tent")
		assert.Contains(t, resp.Body.String(), `"query":"alpine tent"`)
	})

	t.Run("missing_query_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{products: &mockProductRepo{}}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products/search")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("hybrid_deduplicates", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				searchFunc: func(context.Context, string, int) ([]*domain.Product, error) {
					return sampleProducts, nil
				},
				searchLexicalFunc: func(context.Context, string, int) ([]*domain.Product, error) {
					// p-2 duplicates the full-text hit; p-3 is new.
					return []*domain.Product{
						sampleProducts[1],
						{ID: "p-3", Title: "NorthRidge Trekking Poles", Price: 89.00},
					}, nil
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products/search/hybrid?q=gear")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Products []*domain.Product `json:"products"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Products, 3)
		assert.Equal(t, "p-1", body.Products[0].ID)
		assert.Equal(t, "p-2", body.Products[1].ID)
		assert.Equal(t, "p-3", body.Products[2].ID)
	})
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				getByIDFunc: func(_ context.Context, id string) (*domain.Product, error) {
					assert.Equal(t, "p-1", id)
					return sampleProducts[0], nil
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products/p-1")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "Summit Forge Alpine Tent")
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				getByIDFunc: func(context.Context, string) (*domain.Product, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterProductRoutes(api, store)

		resp := api.Get("/products/nope")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
