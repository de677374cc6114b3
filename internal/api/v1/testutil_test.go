package v1_test

import (
	"context"
	"encoding/json"
	"io"

	"golang.org/x/oauth2"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	products    domain.ProductRepository
	clickstream domain.ClickstreamRepository
}

func (m *mockDataStore) Products() domain.ProductRepository        { return m.products }
func (m *mockDataStore) Clickstream() domain.ClickstreamRepository { return m.clickstream }

// ---------------------------------------------------------------------------
// Mock ProductRepository
// ---------------------------------------------------------------------------

type mockProductRepo struct {
	listFunc          func(ctx context.Context, category string, limit, offset int) ([]*domain.Product, int, error)
	searchFunc        func(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	searchLexicalFunc func(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	getByIDFunc       func(ctx context.Context, id string) (*domain.Product, error)
}

func (m *mockProductRepo) List(ctx context.Context, category string, limit, offset int) ([]*domain.Product, int, error) {
	return m.listFunc(ctx, category, limit, offset)
}

func (m *mockProductRepo) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	return m.searchFunc(ctx, query, limit)
}

func (m *mockProductRepo) SearchLexical(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	return m.searchLexicalFunc(ctx, query, limit)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return m.getByIDFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ClickstreamRepository
// ---------------------------------------------------------------------------

type mockClickstreamRepo struct {
	insertFunc       func(ctx context.Context, ev *domain.ClickEvent) error
	listByUserFunc   func(ctx context.Context, userID string, limit int) ([]*domain.ClickEvent, error)
	deleteByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockClickstreamRepo) Insert(ctx context.Context, ev *domain.ClickEvent) error {
	return m.insertFunc(ctx, ev)
}

func (m *mockClickstreamRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ClickEvent, error) {
	return m.listByUserFunc(ctx, userID, limit)
}

func (m *mockClickstreamRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return m.deleteByUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock SessionStore
// ---------------------------------------------------------------------------

type mockSessionStore struct {
	publishFunc        func(ctx context.Context, ev *domain.ClickEvent) error
	recordViewFunc     func(ctx context.Context, userID, productID string) error
	recentlyViewedFunc func(ctx context.Context, userID string, limit int) ([]string, error)
	addToCartFunc      func(ctx context.Context, userID string, item domain.CartItem) error
	cartFunc           func(ctx context.Context, userID string) ([]domain.CartItem, error)
	removeFromCartFunc func(ctx context.Context, userID, productID string) error
	clearCartFunc      func(ctx context.Context, userID string) error
}

func (m *mockSessionStore) PublishClickEvent(ctx context.Context, ev *domain.ClickEvent) error {
	if m.publishFunc == nil {
		return nil
	}
	return m.publishFunc(ctx, ev)
}

func (m *mockSessionStore) RecordView(ctx context.Context, userID, productID string) error {
	if m.recordViewFunc == nil {
		return nil
	}
	return m.recordViewFunc(ctx, userID, productID)
}

func (m *mockSessionStore) RecentlyViewed(ctx context.Context, userID string, limit int) ([]string, error) {
	return m.recentlyViewedFunc(ctx, userID, limit)
}

func (m *mockSessionStore) AddToCart(ctx context.Context, userID string, item domain.CartItem) error {
	return m.addToCartFunc(ctx, userID, item)
}

func (m *mockSessionStore) Cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return m.cartFunc(ctx, userID)
}

func (m *mockSessionStore) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return m.removeFromCartFunc(ctx, userID, productID)
}

func (m *mockSessionStore) ClearCart(ctx context.Context, userID string) error {
	return m.clearCartFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock AgentClient (only CollectResponse and AgentStatus are exercised
// by the typed routes; Converse belongs to the streaming relay)
// ---------------------------------------------------------------------------

type mockAgentClient struct {
	collectFunc func(ctx context.Context, input, agentID string) (string, error)
	statusFunc  func(ctx context.Context, agentID string) (bool, error)
}

func (m *mockAgentClient) Converse(context.Context, string, string) (io.ReadCloser, error) {
	panic("not used by typed routes")
}

func (m *mockAgentClient) CollectResponse(ctx context.Context, input, agentID string) (string, error) {
	return m.collectFunc(ctx, input, agentID)
}

func (m *mockAgentClient) AgentStatus(ctx context.Context, agentID string) (bool, error) {
	return m.statusFunc(ctx, agentID)
}

// ---------------------------------------------------------------------------
// Mock CredentialStore
// ---------------------------------------------------------------------------

type mockCredStore struct {
	values         map[string]string
	status         map[string]string
	imagenReady    bool
	groundingReady bool
	tokenSourceErr error
	projectID      string
}

func (m *mockCredStore) Get(key string) string { return m.values[key] }

func (m *mockCredStore) Set(key, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
}

func (m *mockCredStore) Clear(key string) { delete(m.values, key) }

func (m *mockCredStore) SetServiceAccountJSON(raw string) (string, error) {
	var sa struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return "", err
	}
	m.Set("GCP_SERVICE_ACCOUNT_JSON", raw)
	return sa.ProjectID, nil
}

func (m *mockCredStore) Status() map[string]string {
	if m.status != nil {
		return m.status
	}
	return map[string]string{"jina": "not_configured", "imagen": "not_configured", "grounding": "not_configured"}
}

func (m *mockCredStore) IsImagenReady() bool    { return m.imagenReady }
func (m *mockCredStore) IsGroundingReady() bool { return m.groundingReady }

func (m *mockCredStore) VertexTokenSource(context.Context) (oauth2.TokenSource, string, error) {
	if m.tokenSourceErr != nil {
		return nil, "", m.tokenSourceErr
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}), m.projectID, nil
}

// ---------------------------------------------------------------------------
// Mock VisionService
// ---------------------------------------------------------------------------

type mockVisionService struct {
	ready       bool
	warmFunc    func(ctx context.Context) (string, error)
	analyzeFunc func(ctx context.Context, imageBase64, prompt string) (string, error)
	previewFunc func(ctx context.Context, req vision.PreviewRequest) (string, string, error)
	groundFunc  func(ctx context.Context, location, activity string) (*vision.Conditions, error)
}

func (m *mockVisionService) Ready() bool { return m.ready }

func (m *mockVisionService) Warm(ctx context.Context) (string, error) {
	return m.warmFunc(ctx)
}

func (m *mockVisionService) Analyze(ctx context.Context, imageBase64, prompt string) (string, error) {
	return m.analyzeFunc(ctx, imageBase64, prompt)
}

func (m *mockVisionService) GeneratePreview(ctx context.Context, req vision.PreviewRequest) (string, string, error) {
	return m.previewFunc(ctx, req)
}

func (m *mockVisionService) GroundConditions(ctx context.Context, location, activity string) (*vision.Conditions, error) {
	return m.groundFunc(ctx, location, activity)
}
