package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type ListProductsInput struct {
	Category string `query:"category" doc:"Filter by category"`
	Limit    int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Max results"`
	Offset   int    `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListProductsOutput struct {
	Body struct {
		Products []*domain.Product `json:"products"`
		Total    int               `json:"total"`
		Limit    int               `json:"limit"`
		Offset   int               `json:"offset"`
	}
}

type SearchProductsInput struct {
	Q     string `query:"q" required:"true" minLength:"1" doc:"Search query"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Max results"`
}

type SearchProductsOutput struct {
	Body struct {
		Products []*domain.Product `json:"products"`
		Query    string            `json:"query"`
	}
}

type GetProductInput struct {
	ProductID string `path:"product_id" doc:"Product ID"`
}

type GetProductOutput struct {
	Body *domain.Product
}

// RegisterProductRoutes wires the catalog read endpoints. Search routes
// are registered before the {product_id} route so "search" never
// resolves as a product id.
func RegisterProductRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/products",
		Summary:     "List catalog products",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
		products, total, err := store.Products().List(ctx, input.Category, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list products", err)
		}

		out := &ListProductsOutput{}
		out.Body.Products = emptyIfNil(products)
		out.Body.Total = total
		out.Body.Limit = input.Limit
		out.Body.Offset = input.Offset
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-products",
		Method:      http.MethodGet,
		Path:        "/products/search",
		Summary:     "Full-text product search",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *SearchProductsInput) (*SearchProductsOutput, error) {
		products, err := store.Products().Search(ctx, input.Q, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("search failed", err)
		}

		out := &SearchProductsOutput{}
		out.Body.Products = emptyIfNil(products)
		out.Body.Query = input.Q
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-products-lexical",
		Method:      http.MethodGet,
		Path:        "/products/search/lexical",
		Summary:     "Fuzzy lexical product search",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *SearchProductsInput) (*SearchProductsOutput, error) {
		products, err := store.Products().SearchLexical(ctx, input.Q, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("lexical search failed", err)
		}

		out := &SearchProductsOutput{}
		out.Body.Products = emptyIfNil(products)
		out.Body.Query = input.Q
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-products-hybrid",
		Method:      http.MethodGet,
		Path:        "/products/search/hybrid",
		Summary:     "Combined full-text and lexical search",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *SearchProductsInput) (*SearchProductsOutput, error) {
		primary, err := store.Products().Search(ctx, input.Q, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("search failed", err)
		}
		secondary, err := store.Products().SearchLexical(ctx, input.Q, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("lexical search failed", err)
		}

		out := &SearchProductsOutput{}
		out.Body.Products = mergeResults(primary, secondary, input.Limit)
		out.Body.Query = input.Q
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/products/{product_id}",
		Summary:     "Get a product by ID",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *GetProductInput) (*GetProductOutput, error) {
		product, err := store.Products().GetByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("product not found")
			}
			return nil, huma.Error500InternalServerError("failed to get product", err)
		}
		return &GetProductOutput{Body: product}, nil
	})
}

// mergeResults interleaves two ranked result lists, deduplicating by id
// with the primary list winning.
func mergeResults(primary, secondary []*domain.Product, limit int) []*domain.Product {
	seen := make(map[string]struct{}, len(primary))
	merged := make([]*domain.Product, 0, limit)

	for _, p := range primary {
		if len(merged) == limit {
			return merged
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range secondary {
		if len(merged) == limit {
			break
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func emptyIfNil(products []*domain.Product) []*domain.Product {
	if products == nil {
		return []*domain.Product{}
	}
	return products
}
