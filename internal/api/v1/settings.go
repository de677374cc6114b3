package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/credentials"
)

type SettingsStatusOutput struct {
	Body map[string]string
}

type UpdateSettingsInput struct {
	Body struct {
		JinaAPIKey            *string `json:"JINA_API_KEY,omitempty" doc:"Jina VLM API key"`
		VertexProjectID       *string `json:"VERTEX_PROJECT_ID,omitempty" doc:"GCP project ID"`
		VertexLocation        *string `json:"VERTEX_LOCATION,omitempty" doc:"Vertex AI region"`
		GCPServiceAccountJSON *string `json:"GCP_SERVICE_ACCOUNT_JSON,omitempty" doc:"Pasted service account JSON"`
	}
}

type UpdateSettingsOutput struct {
	Body map[string]string
}

type ConnectionTestOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

// RegisterSettingsRoutes wires runtime credential management. Values
// live in memory only and vanish on restart; status responses never
// echo a credential back.
func RegisterSettingsRoutes(api huma.API, creds CredentialStore, jinaBaseURL string) {
	huma.Register(api, huma.Operation{
		OperationID: "settings-status",
		Method:      http.MethodGet,
		Path:        "/settings/status",
		Summary:     "Configuration status per vision service",
		Tags:        []string{"Settings"},
	}, func(_ context.Context, _ *struct{}) (*SettingsStatusOutput, error) {
		return &SettingsStatusOutput{Body: creds.Status()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPost,
		Path:        "/settings",
		Summary:     "Update API credentials at runtime",
		Tags:        []string{"Settings"},
	}, func(_ context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
		updates := map[string]*string{
			credentials.KeyJinaAPIKey:         input.Body.JinaAPIKey,
			credentials.KeyVertexProjectID:    input.Body.VertexProjectID,
			credentials.KeyVertexLocation:     input.Body.VertexLocation,
			credentials.KeyServiceAccountJSON: input.Body.GCPServiceAccountJSON,
		}

		var applied []string
		for key, value := range updates {
			if value == nil {
				continue
			}
			applied = append(applied, key)

			trimmed := strings.TrimSpace(*value)
			if trimmed == "" {
				creds.Clear(key)
				continue
			}

			if key == credentials.KeyServiceAccountJSON {
				projectID, err := creds.SetServiceAccountJSON(trimmed)
				if err != nil {
					return nil, huma.Error400BadRequest("invalid service account JSON: " + err.Error())
				}
				log.Info().Str("project_id", projectID).Msg("api: extracted project id from service account JSON")
				continue
			}
			creds.Set(key, trimmed)
		}

		if len(applied) == 0 {
			return nil, huma.Error400BadRequest("No settings provided")
		}

		log.Info().Strs("keys", applied).Msg("api: settings updated")
		return &UpdateSettingsOutput{Body: creds.Status()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "test-jina",
		Method:      http.MethodPost,
		Path:        "/settings/test/jina",
		Summary:     "Test the Jina VLM connection",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, _ *struct{}) (*ConnectionTestOutput, error) {
		out := &ConnectionTestOutput{}

		apiKey := creds.Get(credentials.KeyJinaAPIKey)
		if apiKey == "" {
			out.Body.Message = "Jina API key not configured"
			return out, nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			strings.TrimRight(jinaBaseURL, "/")+"/v1/models", nil)
		if err != nil {
			out.Body.Message = "Connection failed: " + err.Error()
			return out, nil
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			out.Body.Message = "Connection failed: " + err.Error()
			return out, nil
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			out.Body.Success = true
			out.Body.Message = "Jina VLM API connected successfully"
		case http.StatusUnauthorized:
			out.Body.Message = "Invalid Jina API key"
		default:
			out.Body.Message = fmt.Sprintf("Jina API returned status %d", resp.StatusCode)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "test-vertex",
		Method:      http.MethodPost,
		Path:        "/settings/test/vertex",
		Summary:     "Test the Vertex AI connection",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, _ *struct{}) (*ConnectionTestOutput, error) {
		out := &ConnectionTestOutput{}

		ts, projectID, err := creds.VertexTokenSource(ctx)
		if err != nil {
			out.Body.Message = err.Error()
			return out, nil
		}

		if _, err := ts.Token(); err != nil {
			out.Body.Message = "Connection failed: " + err.Error()
			return out, nil
		}

		out.Body.Success = true
		out.Body.Message = fmt.Sprintf("Vertex AI connected (project: %s)", projectID)
		return out, nil
	})
}
