// Package v1 implements the storefront HTTP API: the streaming chat
// proxy, synchronous extraction endpoints, catalog and clickstream
// access, runtime credential settings, and the vision surface.
package v1

import (
	"context"
	"io"

	"golang.org/x/oauth2"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

// DataStore abstracts the repository accessor pattern for handler
// testing. *postgres.Store satisfies this interface.
type DataStore interface {
	Products() domain.ProductRepository
	Clickstream() domain.ClickstreamRepository
}

// SessionStore holds the per-user session state and the live event
// fan-out. *redis.Store satisfies this interface.
type SessionStore interface {
	PublishClickEvent(ctx context.Context, ev *domain.ClickEvent) error
	RecordView(ctx context.Context, userID, productID string) error
	RecentlyViewed(ctx context.Context, userID string, limit int) ([]string, error)
	AddToCart(ctx context.Context, userID string, item domain.CartItem) error
	Cart(ctx context.Context, userID string) ([]domain.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}

// AgentClient abstracts the upstream Agent Builder calls used by the
// synchronous extraction endpoints. *agent.Client satisfies this
// interface.
type AgentClient interface {
	Converse(ctx context.Context, input, agentID string) (io.ReadCloser, error)
	CollectResponse(ctx context.Context, input, agentID string) (string, error)
	AgentStatus(ctx context.Context, agentID string) (bool, error)
}

// ChatRelay abstracts the streaming chat pump. *agent.Relay satisfies
// this interface.
type ChatRelay interface {
	Run(ctx context.Context, req domain.ChatRequest, agentID string, sink agent.Sink) error
}

// VisionService abstracts the image services. *vision.Service satisfies
// this interface.
type VisionService interface {
	Ready() bool
	Warm(ctx context.Context) (string, error)
	Analyze(ctx context.Context, imageBase64, prompt string) (string, error)
	GeneratePreview(ctx context.Context, req vision.PreviewRequest) (string, string, error)
	GroundConditions(ctx context.Context, location, activity string) (*vision.Conditions, error)
}

// CredentialStore abstracts runtime credential management.
// *credentials.Resolver satisfies this interface.
type CredentialStore interface {
	Get(key string) string
	Set(key, value string)
	Clear(key string)
	SetServiceAccountJSON(raw string) (string, error)
	Status() map[string]string
	IsImagenReady() bool
	IsGroundingReady() bool
	VertexTokenSource(ctx context.Context) (oauth2.TokenSource, string, error)
}
