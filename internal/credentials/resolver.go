// Package credentials resolves API keys for the vision services from three
// ordered tiers: runtime overrides set through the settings UI, process
// environment variables, and (for GCP only) ambient default credentials.
// Overrides live in memory only and are lost on restart; this is a
// non-durable override cache, not a secret store.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credential keys accepted by the settings surface.
const (
	KeyJinaAPIKey            = "JINA_API_KEY"
	KeyVertexProjectID       = "VERTEX_PROJECT_ID"
	KeyVertexLocation        = "VERTEX_LOCATION"
	KeyGoogleCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
	KeyServiceAccountJSON    = "GCP_SERVICE_ACCOUNT_JSON"
)

// Service domains reported by Status.
const (
	ServiceJinaVLM  = "jina_vlm"
	ServiceVertexAI = "vertex_ai"
	ServiceImagen   = "imagen"
)

// Status values per service domain. Used for UI feature gating only,
// never for authorization decisions.
const (
	StatusConfiguredUI  = "configured_ui"
	StatusConfiguredEnv = "configured_env"
	StatusNotConfigured = "not_configured"
)

// vertexScope is the OAuth scope required for Vertex AI calls.
const vertexScope = "https://www.googleapis.com/auth/cloud-platform"

//nolint:gochecknoglobals // fixed key whitelist
var knownKeys = map[string]struct{}{
	KeyJinaAPIKey:            {},
	KeyVertexProjectID:       {},
	KeyVertexLocation:        {},
	KeyGoogleCredentialsFile: {},
	KeyServiceAccountJSON:    {},
}

//nolint:gochecknoglobals // keys whose change invalidates cached GCP tokens
var gcpKeys = map[string]struct{}{
	KeyServiceAccountJSON:    {},
	KeyGoogleCredentialsFile: {},
	KeyVertexProjectID:       {},
}

// Resolver is the process-wide credential resolver. One instance is owned
// by main and passed explicitly to the components that need it.
type Resolver struct {
	mu        sync.RWMutex
	overrides map[string]string

	// Cached GCP token source, rebuilt when any GCP key changes.
	tokenSource oauth2.TokenSource
	projectID   string
}

// NewResolver creates an empty Resolver; resolution falls through to the
// environment until overrides are set.
func NewResolver() *Resolver {
	return &Resolver{overrides: make(map[string]string)}
}

// Get resolves a credential: UI override first, then environment.
// Returns "" when neither tier has a non-empty value.
func (r *Resolver) Get(key string) string {
	r.mu.RLock()
	v, ok := r.overrides[key]
	r.mu.RUnlock()
	if ok {
		return v
	}
	return os.Getenv(key)
}

// Set stores a UI override in memory. Unknown keys are ignored with a
// warning. Never writes to the environment or disk.
func (r *Resolver) Set(key, value string) {
	if _, ok := knownKeys[key]; !ok {
		log.Warn().Str("key", key).Msg("credentials: unknown credential key ignored")
		return
	}

	r.mu.Lock()
	r.overrides[key] = value
	if _, gcp := gcpKeys[key]; gcp {
		r.tokenSource = nil
		r.projectID = ""
	}
	r.mu.Unlock()

	log.Info().Str("key", key).Msg("credentials: override set via settings")
}

// Clear removes a UI override, falling back to the environment tier.
func (r *Resolver) Clear(key string) {
	r.mu.Lock()
	delete(r.overrides, key)
	if _, gcp := gcpKeys[key]; gcp {
		r.tokenSource = nil
		r.projectID = ""
	}
	r.mu.Unlock()

	log.Info().Str("key", key).Msg("credentials: override cleared")
}

// SetServiceAccountJSON stores a pasted service-account JSON blob and
// auto-extracts its project_id into VERTEX_PROJECT_ID. Returns the
// extracted project id, or an error when the blob is not valid JSON.
func (r *Resolver) SetServiceAccountJSON(raw string) (string, error) {
	var info struct {
		Type      string `json:"type"`
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return "", fmt.Errorf("credentials.SetServiceAccountJSON: %w", err)
	}

	if info.Type != "service_account" {
		log.Warn().Str("type", info.Type).Msg("credentials: JSON type is not service_account")
	}

	r.mu.Lock()
	r.overrides[KeyServiceAccountJSON] = raw
	if info.ProjectID != "" {
		r.overrides[KeyVertexProjectID] = info.ProjectID
	}
	r.tokenSource = nil
	r.projectID = ""
	r.mu.Unlock()

	if info.ProjectID != "" {
		log.Info().Str("project_id", info.ProjectID).Msg("credentials: project id extracted from service account JSON")
	}
	return info.ProjectID, nil
}

// keyStatus reports which tier satisfies one key.
func (r *Resolver) keyStatus(key string) string {
	r.mu.RLock()
	_, ok := r.overrides[key]
	r.mu.RUnlock()
	if ok {
		return StatusConfiguredUI
	}
	if os.Getenv(key) != "" {
		return StatusConfiguredEnv
	}
	return StatusNotConfigured
}

// vertexStatus reports the combined status of the Vertex credential paths:
// pasted SA JSON, credentials file + project id, or bare project id (ADC
// resolved lazily at call time).
func (r *Resolver) vertexStatus() string {
	if s := r.keyStatus(KeyServiceAccountJSON); s != StatusNotConfigured {
		return s
	}

	fileStatus := r.keyStatus(KeyGoogleCredentialsFile)
	pidStatus := r.keyStatus(KeyVertexProjectID)
	if fileStatus != StatusNotConfigured && pidStatus != StatusNotConfigured {
		if fileStatus == StatusConfiguredUI || pidStatus == StatusConfiguredUI {
			return StatusConfiguredUI
		}
		return StatusConfiguredEnv
	}
	if pidStatus != StatusNotConfigured {
		return pidStatus
	}
	return StatusNotConfigured
}

// ServiceStatus reports the configuration status of one service domain.
func (r *Resolver) ServiceStatus(service string) string {
	switch service {
	case ServiceVertexAI, ServiceImagen:
		return r.vertexStatus()
	case ServiceJinaVLM:
		return r.keyStatus(KeyJinaAPIKey)
	default:
		return StatusNotConfigured
	}
}

// Status reports every service domain's status plus the resolved project
// id so the UI can display it. Never includes credential values.
func (r *Resolver) Status() map[string]string {
	result := map[string]string{
		ServiceJinaVLM:  r.ServiceStatus(ServiceJinaVLM),
		ServiceVertexAI: r.ServiceStatus(ServiceVertexAI),
		ServiceImagen:   r.ServiceStatus(ServiceImagen),
	}
	if pid := r.Get(KeyVertexProjectID); pid != "" {
		result["vertex_project_id"] = pid
	}
	return result
}

// IsVisionReady reports whether image analysis can be attempted.
func (r *Resolver) IsVisionReady() bool {
	return r.Get(KeyJinaAPIKey) != ""
}

// IsImagenReady reports whether preview generation can be attempted.
func (r *Resolver) IsImagenReady() bool {
	return r.vertexStatus() != StatusNotConfigured
}

// IsGroundingReady reports whether conditions grounding can be attempted.
func (r *Resolver) IsGroundingReady() bool {
	return r.vertexStatus() != StatusNotConfigured
}

// VertexTokenSource resolves a Vertex AI token source and project id.
// Tier order: pasted service-account JSON, credentials file, ambient
// default credentials. The result is cached until a GCP key changes.
func (r *Resolver) VertexTokenSource(ctx context.Context) (oauth2.TokenSource, string, error) {
	r.mu.RLock()
	ts, pid := r.tokenSource, r.projectID
	r.mu.RUnlock()
	if ts != nil {
		return ts, pid, nil
	}

	projectID := r.Get(KeyVertexProjectID)

	if saJSON := r.Get(KeyServiceAccountJSON); saJSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(saJSON), vertexScope)
		if err != nil {
			return nil, "", fmt.Errorf("credentials.VertexTokenSource: service account JSON: %w", err)
		}
		if projectID == "" {
			projectID = creds.ProjectID
		}
		return r.cacheTokenSource(creds.TokenSource, projectID), projectID, nil
	}

	if file := r.Get(KeyGoogleCredentialsFile); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, "", fmt.Errorf("credentials.VertexTokenSource: read %s: %w", file, err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, vertexScope)
		if err != nil {
			return nil, "", fmt.Errorf("credentials.VertexTokenSource: credentials file: %w", err)
		}
		if projectID == "" {
			projectID = creds.ProjectID
		}
		return r.cacheTokenSource(creds.TokenSource, projectID), projectID, nil
	}

	if projectID != "" {
		creds, err := google.FindDefaultCredentials(ctx, vertexScope)
		if err != nil {
			return nil, "", fmt.Errorf("credentials.VertexTokenSource: default credentials: %w", err)
		}
		return r.cacheTokenSource(creds.TokenSource, projectID), projectID, nil
	}

	return nil, "", fmt.Errorf("credentials.VertexTokenSource: Vertex AI not configured; paste a service account JSON in settings or set VERTEX_PROJECT_ID")
}

func (r *Resolver) cacheTokenSource(ts oauth2.TokenSource, projectID string) oauth2.TokenSource {
	r.mu.Lock()
	r.tokenSource = ts
	r.projectID = projectID
	r.mu.Unlock()
	return ts
}
