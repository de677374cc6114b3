package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

type WarmVisionOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

type AnalyzeImageInput struct {
	Body struct {
		ImageBase64 string `json:"image_base64" minLength:"1" doc:"Base64-encoded image, data URI accepted"`
		Prompt      string `json:"prompt,omitempty" doc:"Optional custom analysis prompt"`
	}
}

type AnalyzeImageOutput struct {
	Body struct {
		Description string `json:"description"`
		Success     bool   `json:"success"`
	}
}

type GeneratePreviewInput struct {
	Body struct {
		ImageBase64        string `json:"image_base64" minLength:"1" doc:"Original scene image"`
		ProductName        string `json:"product_name" minLength:"1" doc:"Product to place in scene"`
		SceneDescription   string `json:"scene_description" minLength:"1" doc:"Scene description from analysis"`
		ProductDescription string `json:"product_description,omitempty" doc:"Catalog product description"`
		ProductImageURL    string `json:"product_image_url,omitempty" doc:"Catalog image for style reference"`
	}
}

type GeneratePreviewOutput struct {
	Body struct {
		ImageBase64 string `json:"image_base64"`
		Prompt      string `json:"prompt"`
		Success     bool   `json:"success"`
	}
}

type GroundConditionsInput struct {
	Body struct {
		Location string `json:"location" minLength:"1" doc:"Destination"`
		Activity string `json:"activity" minLength:"1" doc:"Planned activity"`
	}
}

type GroundConditionsOutput struct {
	Body struct {
		Success    bool               `json:"success"`
		Conditions *vision.Conditions `json:"conditions"`
	}
}

// RegisterVisionRoutes wires the vision surface. Each endpoint gates on
// credential availability with a 503 so the storefront can hide the
// features rather than show failures.
func RegisterVisionRoutes(api huma.API, svc VisionService, creds CredentialStore) {
	huma.Register(api, huma.Operation{
		OperationID: "warm-vision",
		Method:      http.MethodPost,
		Path:        "/vision/warm",
		Summary:     "Wake the vision model from cold sleep",
		Tags:        []string{"Vision"},
	}, func(ctx context.Context, _ *struct{}) (*WarmVisionOutput, error) {
		out := &WarmVisionOutput{}

		status, err := svc.Warm(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotConfigured) {
				out.Body.Status = "unavailable"
				return out, nil
			}
			return nil, huma.Error500InternalServerError("warm ping failed", err)
		}
		out.Body.Status = status
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "analyze-image",
		Method:      http.MethodPost,
		Path:        "/vision/analyze",
		Summary:     "Analyze an image for terrain and conditions",
		Tags:        []string{"Vision"},
	}, func(ctx context.Context, input *AnalyzeImageInput) (*AnalyzeImageOutput, error) {
		if !svc.Ready() {
			return nil, huma.Error503ServiceUnavailable("Vision analysis not configured. Add Jina API key in Settings.")
		}

		description, err := svc.Analyze(ctx, input.Body.ImageBase64, input.Body.Prompt)
		if err != nil {
			if errors.Is(err, domain.ErrInvalid) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			log.Error().Err(err).Msg("api: vision analysis failed")
			return nil, huma.Error500InternalServerError("analysis failed", err)
		}

		out := &AnalyzeImageOutput{}
		out.Body.Description = description
		out.Body.Success = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-preview",
		Method:      http.MethodPost,
		Path:        "/vision/preview",
		Summary:     "Generate a product-in-scene preview image",
		Tags:        []string{"Vision"},
	}, func(ctx context.Context, input *GeneratePreviewInput) (*GeneratePreviewOutput, error) {
		if !creds.IsImagenReady() {
			return nil, huma.Error503ServiceUnavailable("Image generation not configured. Add Vertex AI credentials in Settings.")
		}

		image, prompt, err := svc.GeneratePreview(ctx, vision.PreviewRequest{
			ProductName:        input.Body.ProductName,
			ProductDescription: input.Body.ProductDescription,
			ProductImageURL:    input.Body.ProductImageURL,
			SceneDescription:   input.Body.SceneDescription,
		})
		if err != nil {
			log.Error().Err(err).Msg("api: preview generation failed")
			return nil, huma.Error500InternalServerError("generation failed", err)
		}

		out := &GeneratePreviewOutput{}
		out.Body.ImageBase64 = image
		out.Body.Prompt = prompt
		out.Body.Success = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ground-conditions",
		Method:      http.MethodPost,
		Path:        "/vision/ground",
		Summary:     "Live conditions for a destination via search grounding",
		Tags:        []string{"Vision"},
	}, func(ctx context.Context, input *GroundConditionsInput) (*GroundConditionsOutput, error) {
		if !creds.IsGroundingReady() {
			return nil, huma.Error503ServiceUnavailable("Grounding not configured. Add Vertex AI credentials in Settings.")
		}

		conditions, err := svc.GroundConditions(ctx, input.Body.Location, input.Body.Activity)
		if err != nil {
			log.Error().Err(err).Msg("api: grounding failed")
			return nil, huma.Error500InternalServerError("grounding failed", err)
		}

		out := &GroundConditionsOutput{}
		out.Body.Success = true
		out.Body.Conditions = conditions
		return out, nil
	})
}
