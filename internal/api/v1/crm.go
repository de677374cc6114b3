package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wayfinder-supply/wayfinder/internal/crm"
)

type CRMProfileInput struct {
	UserID string `path:"user_id" doc:"Customer to look up"`
}

type CRMProfileOutput struct {
	Body crm.CustomerProfile
}

type WeatherInput struct {
	Location string `query:"location" required:"true" minLength:"1" doc:"Destination name or alias"`
	Dates    string `query:"dates" doc:"Trip dates, free form"`
}

type WeatherOutput struct {
	Body crm.TripConditions
}

type WeatherLocationsOutput struct {
	Body struct {
		Locations []crm.LocationSummary `json:"locations"`
	}
}

// RegisterCRMRoutes exposes the mock CRM and weather data over REST for
// the storefront. The /mcp endpoint serves the same data to the agent.
func RegisterCRMRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "crm-profile",
		Method:      http.MethodGet,
		Path:        "/crm/profile/{user_id}",
		Summary:     "Mock CRM profile for a customer",
		Tags:        []string{"CRM"},
	}, func(_ context.Context, input *CRMProfileInput) (*CRMProfileOutput, error) {
		return &CRMProfileOutput{Body: crm.Profile(input.UserID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "weather-conditions",
		Method:      http.MethodGet,
		Path:        "/weather",
		Summary:     "Seasonal trip conditions for a destination",
		Tags:        []string{"CRM"},
	}, func(_ context.Context, input *WeatherInput) (*WeatherOutput, error) {
		return &WeatherOutput{Body: crm.Conditions(input.Location, input.Dates)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "weather-locations",
		Method:      http.MethodGet,
		Path:        "/weather/locations",
		Summary:     "Destinations with detailed coverage",
		Tags:        []string{"CRM"},
	}, func(_ context.Context, _ *struct{}) (*WeatherLocationsOutput, error) {
		out := &WeatherLocationsOutput{}
		out.Body.Locations = crm.CoveredLocations()
		return out, nil
	})
}
