package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type TrackEventInput struct {
	Body struct {
		UserID    string `json:"user_id" minLength:"1" doc:"User the event belongs to"`
		Action    string `json:"action" enum:"view_item,add_to_cart,click_tag" doc:"Event action"`
		ProductID string `json:"product_id,omitempty" doc:"Product the event refers to"`
		Tag       string `json:"tag,omitempty" doc:"Tag clicked, for click_tag events"`
	}
}

type TrackEventOutput struct {
	Body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
}

type ClearHistoryInput struct {
	UserID string `path:"user_id" doc:"User to clear"`
}

type ClearHistoryOutput struct {
	Body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
}

type UserStatsInput struct {
	UserID string `path:"user_id" doc:"User to report on"`
}

type UserStatsOutput struct {
	Body struct {
		UserID        string `json:"user_id"`
		TotalViews    int    `json:"total_views"`
		TotalCartAdds int    `json:"total_cart_adds"`
		TotalEvents   int    `json:"total_events"`
	}
}

type UserEventsInput struct {
	UserID string `path:"user_id" doc:"User to report on"`
	Action string `query:"action" default:"view_item" doc:"Action type to filter by"`
}

type userEventView struct {
	ProductID   string    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
}

type UserEventsOutput struct {
	Body struct {
		UserID string          `json:"user_id"`
		Action string          `json:"action"`
		Events []userEventView `json:"events"`
	}
}

type RecentlyViewedInput struct {
	UserID string `path:"user_id" doc:"User to report on"`
	Limit  int    `query:"limit" minimum:"1" maximum:"20" default:"8" doc:"Max products"`
}

type RecentlyViewedOutput struct {
	Body struct {
		UserID   string            `json:"user_id"`
		Products []*domain.Product `json:"products"`
	}
}

// RegisterClickstreamRoutes wires event tracking and the per-user
// activity reports. Events persist in the catalog database and fan out
// over the session store for live websocket subscribers.
func RegisterClickstreamRoutes(api huma.API, store DataStore, sessions SessionStore) {
	huma.Register(api, huma.Operation{
		OperationID: "track-event",
		Method:      http.MethodPost,
		Path:        "/clickstream",
		Summary:     "Track a clickstream event",
		Tags:        []string{"Clickstream"},
	}, func(ctx context.Context, input *TrackEventInput) (*TrackEventOutput, error) {
		ev := &domain.ClickEvent{
			ID:        uuid.New(),
			Timestamp: time.Now().UTC(),
			UserID:    input.Body.UserID,
			Action:    input.Body.Action,
			ProductID: input.Body.ProductID,
			SessionID: uuid.New(),
		}
		if input.Body.Tag != "" {
			ev.MetaTags = []string{input.Body.Tag}
		}

		if err := store.Clickstream().Insert(ctx, ev); err != nil {
			return nil, huma.Error500InternalServerError("failed to track event", err)
		}

		// Live feed and recently-viewed updates are best effort.
		if err := sessions.PublishClickEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Msg("api: clickstream publish failed")
		}
		if ev.Action == "view_item" && ev.ProductID != "" {
			if err := sessions.RecordView(ctx, ev.UserID, ev.ProductID); err != nil {
				log.Warn().Err(err).Msg("api: recently viewed update failed")
			}
		}

		out := &TrackEventOutput{}
		out.Body.Status = "success"
		out.Body.Message = "Event tracked"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-user-history",
		Method:      http.MethodDelete,
		Path:        "/clickstream/{user_id}",
		Summary:     "Clear all clickstream events for a user",
		Tags:        []string{"Clickstream"},
	}, func(ctx context.Context, input *ClearHistoryInput) (*ClearHistoryOutput, error) {
		deleted, err := store.Clickstream().DeleteByUser(ctx, input.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to clear history", err)
		}

		out := &ClearHistoryOutput{}
		out.Body.Status = "success"
		out.Body.Message = fmt.Sprintf("Cleared %d events for user %s", deleted, input.UserID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "user-stats",
		Method:      http.MethodGet,
		Path:        "/clickstream/{user_id}/stats",
		Summary:     "Live per-user activity counters",
		Tags:        []string{"Clickstream"},
	}, func(ctx context.Context, input *UserStatsInput) (*UserStatsOutput, error) {
		events, err := store.Clickstream().ListByUser(ctx, input.UserID, 1000)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get stats", err)
		}

		out := &UserStatsOutput{}
		out.Body.UserID = input.UserID
		for _, ev := range events {
			out.Body.TotalEvents++
			switch ev.Action {
			case "view_item":
				out.Body.TotalViews++
			case "add_to_cart":
				out.Body.TotalCartAdds++
			}
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "user-events",
		Method:      http.MethodGet,
		Path:        "/clickstream/{user_id}/events",
		Summary:     "Per-user event list with product names",
		Tags:        []string{"Clickstream"},
	}, func(ctx context.Context, input *UserEventsInput) (*UserEventsOutput, error) {
		events, err := store.Clickstream().ListByUser(ctx, input.UserID, 100)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to fetch events", err)
		}

		out := &UserEventsOutput{}
		out.Body.UserID = input.UserID
		out.Body.Action = input.Action
		out.Body.Events = []userEventView{}

		names := map[string]string{}
		for _, ev := range events {
			if ev.Action != input.Action {
				continue
			}

			name := "Unknown Product"
			if ev.ProductID != "" {
				cached, ok := names[ev.ProductID]
				if !ok {
					if product, err := store.Products().GetByID(ctx, ev.ProductID); err == nil {
						cached = product.Title
					} else {
						cached = "Unknown Product"
					}
					names[ev.ProductID] = cached
				}
				name = cached
			}

			out.Body.Events = append(out.Body.Events, userEventView{
				ProductID:   ev.ProductID,
				ProductName: name,
				Timestamp:   ev.Timestamp,
				Action:      ev.Action,
			})
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recently-viewed",
		Method:      http.MethodGet,
		Path:        "/clickstream/{user_id}/recent",
		Summary:     "A user's recently viewed products, newest first",
		Tags:        []string{"Clickstream"},
	}, func(ctx context.Context, input *RecentlyViewedInput) (*RecentlyViewedOutput, error) {
		ids, err := sessions.RecentlyViewed(ctx, input.UserID, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to fetch recently viewed", err)
		}

		out := &RecentlyViewedOutput{}
		out.Body.UserID = input.UserID
		out.Body.Products = []*domain.Product{}
		for _, id := range ids {
			product, err := store.Products().GetByID(ctx, id)
			if err != nil {
				continue
			}
			out.Body.Products = append(out.Body.Products, product)
		}
		return out, nil
	})
}
