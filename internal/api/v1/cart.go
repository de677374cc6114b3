package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type AddToCartInput struct {
	UserID string `query:"user_id" required:"true" doc:"Cart owner"`
	Body   struct {
		ProductID string `json:"product_id" minLength:"1" doc:"Product to add"`
		Quantity  int    `json:"quantity" minimum:"1" default:"1" doc:"Quantity to add"`
	}
}

type AddToCartOutput struct {
	Body struct {
		Message string            `json:"message"`
		Cart    []domain.CartItem `json:"cart"`
	}
}

type cartLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type GetCartInput struct {
	UserID      string `query:"user_id" required:"true" doc:"Cart owner"`
	LoyaltyTier string `query:"loyalty_tier" doc:"Loyalty tier for discount calculation"`
}

type GetCartOutput struct {
	Body struct {
		Items        []cartLine `json:"items"`
		Subtotal     float64    `json:"subtotal"`
		Discount     float64    `json:"discount"`
		Total        float64    `json:"total"`
		LoyaltyPerks []string   `json:"loyalty_perks"`
	}
}

type ClearCartInput struct {
	UserID string `query:"user_id" required:"true" doc:"Cart owner"`
}

type ClearCartOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

type RemoveFromCartInput struct {
	UserID    string `query:"user_id" required:"true" doc:"Cart owner"`
	ProductID string `path:"product_id" doc:"Product to remove"`
}

type RemoveFromCartOutput struct {
	Body struct {
		Message string            `json:"message"`
		Cart    []domain.CartItem `json:"cart"`
	}
}

// RegisterCartRoutes wires the demo cart. Product details are resolved
// at add time so cart reads never touch the catalog.
func RegisterCartRoutes(api huma.API, store DataStore, sessions SessionStore) {
	huma.Register(api, huma.Operation{
		OperationID: "add-to-cart",
		Method:      http.MethodPost,
		Path:        "/cart",
		Summary:     "Add an item to the cart",
		Tags:        []string{"Cart"},
	}, func(ctx context.Context, input *AddToCartInput) (*AddToCartOutput, error) {
		product, err := store.Products().GetByID(ctx, input.Body.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("product not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up product", err)
		}

		item := domain.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  input.Body.Quantity,
		}
		if err := sessions.AddToCart(ctx, input.UserID, item); err != nil {
			return nil, huma.Error500InternalServerError("failed to add to cart", err)
		}

		cart, err := sessions.Cart(ctx, input.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read cart", err)
		}

		out := &AddToCartOutput{}
		out.Body.Message = "Item added to cart"
		out.Body.Cart = cart
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-cart",
		Method:      http.MethodGet,
		Path:        "/cart",
		Summary:     "Get cart contents with pricing",
		Tags:        []string{"Cart"},
	}, func(ctx context.Context, input *GetCartInput) (*GetCartOutput, error) {
		items, err := sessions.Cart(ctx, input.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read cart", err)
		}

		out := &GetCartOutput{}
		out.Body.Items = make([]cartLine, 0, len(items))
		out.Body.LoyaltyPerks = []string{}

		for _, item := range items {
			lineTotal := item.Price * float64(item.Quantity)
			out.Body.Subtotal += lineTotal
			out.Body.Items = append(out.Body.Items, cartLine{
				ProductID: item.ProductID,
				Title:     item.Title,
				Price:     item.Price,
				Quantity:  item.Quantity,
				Subtotal:  lineTotal,
			})
		}

		switch input.LoyaltyTier {
		case "platinum":
			out.Body.Discount = out.Body.Subtotal * 0.10
			out.Body.LoyaltyPerks = append(out.Body.LoyaltyPerks, "Free overnight shipping")
		case "business":
			out.Body.Discount = out.Body.Subtotal * 0.15
			out.Body.LoyaltyPerks = append(out.Body.LoyaltyPerks, "Net-30 payment terms")
		}
		out.Body.Total = out.Body.Subtotal - out.Body.Discount
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-cart",
		Method:      http.MethodDelete,
		Path:        "/cart",
		Summary:     "Clear the cart",
		Tags:        []string{"Cart"},
	}, func(ctx context.Context, input *ClearCartInput) (*ClearCartOutput, error) {
		if err := sessions.ClearCart(ctx, input.UserID); err != nil {
			return nil, huma.Error500InternalServerError("failed to clear cart", err)
		}

		out := &ClearCartOutput{}
		out.Body.Message = "Cart cleared"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-from-cart",
		Method:      http.MethodDelete,
		Path:        "/cart/{product_id}",
		Summary:     "Remove an item from the cart",
		Tags:        []string{"Cart"},
	}, func(ctx context.Context, input *RemoveFromCartInput) (*RemoveFromCartOutput, error) {
		if err := sessions.RemoveFromCart(ctx, input.UserID, input.ProductID); err != nil {
			return nil, huma.Error500InternalServerError("failed to remove item", err)
		}

		cart, err := sessions.Cart(ctx, input.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read cart", err)
		}

		out := &RemoveFromCartOutput{}
		out.Body.Message = "Item removed"
		out.Body.Cart = cart
		return out, nil
	})
}
