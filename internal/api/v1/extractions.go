package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/extract"
)

// ExtractionAgents names the single-purpose upstream agents behind the
// synchronous extraction endpoints. CollectTimeout bounds each
// collect-and-parse call; zero means no bound.
type ExtractionAgents struct {
	Context        string
	Itinerary      string
	Parser         string
	CollectTimeout time.Duration
}

func (a ExtractionAgents) collect(ctx context.Context, client AgentClient, input, agentID string) (string, error) {
	if a.CollectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.CollectTimeout)
		defer cancel()
	}
	return client.CollectResponse(ctx, input, agentID)
}

type ParseTripContextInput struct {
	Message string `query:"message" required:"true" doc:"The user message to parse"`
}

type ParseTripContextOutput struct {
	Body struct {
		Destination any `json:"destination"`
		Dates       any `json:"dates"`
		Activity    any `json:"activity"`
	}
}

type ExtractItineraryInput struct {
	TripPlan string `query:"trip_plan" required:"true" doc:"The trip plan text to extract itinerary from"`
}

type ExtractItineraryOutput struct {
	Body struct {
		Days any `json:"days"`
	}
}

type ExtractTripEntitiesInput struct {
	TripPlan string `query:"trip_plan" required:"true" doc:"The trip plan text to extract entities from"`
}

type ExtractTripEntitiesOutput struct {
	Body map[string]any
}

type AgentStatusInput struct {
	AgentID string `path:"agent_id" doc:"Agent ID to check"`
}

type AgentStatusOutput struct {
	Body struct {
		Exists  bool   `json:"exists"`
		AgentID string `json:"agent_id"`
		Error   string `json:"error,omitempty"`
	}
}

// RegisterExtractionRoutes wires the synchronous extraction endpoints.
// Each one runs a full converse turn against a dedicated upstream agent
// and parses structured JSON out of its answer.
func RegisterExtractionRoutes(api huma.API, client AgentClient, agents ExtractionAgents) {
	huma.Register(api, huma.Operation{
		OperationID: "parse-trip-context",
		Method:      http.MethodPost,
		Path:        "/parse-trip-context",
		Summary:     "Parse destination, dates and activity from a user message",
		Tags:        []string{"Extraction"},
	}, func(ctx context.Context, input *ParseTripContextInput) (*ParseTripContextOutput, error) {
		text, err := agents.collect(ctx, client, input.Message, agents.Context)
		if err != nil {
			return nil, upstreamError("parse trip context", err)
		}

		parsed := extract.JSONFromResponse(text,
			[]string{"destination", "dates", "activity"},
			map[string]any{"destination": nil, "dates": nil, "activity": nil},
		)

		out := &ParseTripContextOutput{}
		out.Body.Destination = parsed["destination"]
		out.Body.Dates = parsed["dates"]
		out.Body.Activity = parsed["activity"]
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "extract-itinerary",
		Method:      http.MethodPost,
		Path:        "/extract-itinerary",
		Summary:     "Extract a day-by-day itinerary from a trip plan",
		Tags:        []string{"Extraction"},
	}, func(ctx context.Context, input *ExtractItineraryInput) (*ExtractItineraryOutput, error) {
		text, err := agents.collect(ctx, client, input.TripPlan, agents.Itinerary)
		if err != nil {
			return nil, upstreamError("extract itinerary", err)
		}

		parsed := extract.JSONFromResponse(text,
			[]string{"days"},
			map[string]any{"days": []any{}},
		)

		out := &ExtractItineraryOutput{}
		out.Body.Days = parsed["days"]
		if out.Body.Days == nil {
			out.Body.Days = []any{}
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "extract-trip-entities",
		Method:      http.MethodPost,
		Path:        "/extract-trip-entities",
		Summary:     "Extract products, itinerary and safety notes from a trip plan",
		Tags:        []string{"Extraction"},
	}, func(ctx context.Context, input *ExtractTripEntitiesInput) (*ExtractTripEntitiesOutput, error) {
		text, err := agents.collect(ctx, client, input.TripPlan, agents.Parser)
		if err != nil {
			return nil, upstreamError("extract trip entities", err)
		}

		parsed := extract.JSONFromResponse(text,
			[]string{"products", "itinerary", "safety_notes"},
			map[string]any{"products": []any{}, "itinerary": []any{}, "safety_notes": []any{}},
		)
		return &ExtractTripEntitiesOutput{Body: parsed}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "agent-status",
		Method:      http.MethodGet,
		Path:        "/agent-status/{agent_id}",
		Summary:     "Check whether an upstream agent exists",
		Tags:        []string{"Extraction"},
	}, func(ctx context.Context, input *AgentStatusInput) (*AgentStatusOutput, error) {
		out := &AgentStatusOutput{}
		out.Body.AgentID = input.AgentID

		exists, err := client.AgentStatus(ctx, input.AgentID)
		if err != nil {
			// Reported inline rather than failing; the storefront polls this.
			log.Warn().Err(err).Str("agent_id", input.AgentID).Msg("api: agent status check failed")
			out.Body.Error = err.Error()
			return out, nil
		}
		out.Body.Exists = exists
		return out, nil
	})
}

// upstreamError maps agent client failures onto HTTP statuses: timeouts
// to 504, unreachable upstream to 503.
func upstreamError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Request timeout")
	case errors.Is(err, domain.ErrUnavailable):
		return huma.Error503ServiceUnavailable("Agent Builder API error: " + err.Error())
	default:
		return huma.Error500InternalServerError("failed to "+op, err)
	}
}
