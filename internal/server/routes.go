package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
	"github.com/wayfinder-supply/wayfinder/internal/api/ws"
	"github.com/wayfinder-supply/wayfinder/internal/config"
	"github.com/wayfinder-supply/wayfinder/internal/credentials"
	"github.com/wayfinder-supply/wayfinder/internal/store/postgres"
	redisstore "github.com/wayfinder-supply/wayfinder/internal/store/redis"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

func registerAPIRoutes(
	api huma.API,
	cfg *config.Config,
	store *postgres.Store,
	sessions *redisstore.Store,
	creds *credentials.Resolver,
	client *agent.Client,
	visionSvc *vision.Service,
) {
	v1.RegisterProductRoutes(api, store)
	v1.RegisterClickstreamRoutes(api, store, sessions)
	v1.RegisterCartRoutes(api, store, sessions)
	v1.RegisterExtractionRoutes(api, client, v1.ExtractionAgents{
		Context:        cfg.Agent.ContextAgentID,
		Itinerary:      cfg.Agent.ItineraryAgentID,
		Parser:         cfg.Agent.ParserAgentID,
		CollectTimeout: cfg.Agent.CollectTimeout,
	})
	v1.RegisterSettingsRoutes(api, creds, cfg.Vision.BaseURL)
	v1.RegisterVisionRoutes(api, visionSvc, creds)
	v1.RegisterUserRoutes(api)
	v1.RegisterCRMRoutes(api)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/clickstream", hub.ServeClickstream)
}
