// Package vision wraps the three image services behind the storefront:
// Jina VLM for terrain analysis, Vertex AI Gemini with Google Search
// grounding for live conditions, and Imagen for product previews.
// Each call path is isolated so the services can be swapped independently.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/wayfinder-supply/wayfinder/internal/credentials"
	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

// DefaultTerrainPrompt is used when an analyze call supplies no prompt.
const DefaultTerrainPrompt = "Describe the terrain, weather conditions, elevation, and ground conditions " +
	"in this image for outdoor activity planning. Be specific about what gear " +
	"would be needed. Mention the likely location type (mountain, desert, forest, " +
	"coastal, arctic, etc.), season, and any hazards visible. Be concise."

const (
	jinaModel        = "jina-vlm"
	geminiModel      = "gemini-2.0-flash"
	imagenModel      = "imagen-3.0-generate-002"
	imagenEditModel  = "imagen-3.0-capability-001"
	analyzeMaxTokens = 500
)

// wearableKeywords switch preview prompts from ground placement to a
// person wearing the product.
var wearableKeywords = []string{
	"jacket", "coat", "vest", "shirt", "pants", "shorts",
	"boot", "shoe", "glove", "hat", "beanie", "gaiter",
	"sock", "layer", "fleece", "hoodie", "parka", "shell",
}

// Conditions is the grounded conditions report for a destination. When
// the model returns free text instead of the requested JSON, only
// ConditionsText is populated.
type Conditions struct {
	TemperatureF   any    `json:"temperature_f,omitempty"`
	Conditions     string `json:"conditions,omitempty"`
	WindMPH        any    `json:"wind_mph,omitempty"`
	TrailStatus    string `json:"trail_status,omitempty"`
	SafetyNotes    string `json:"safety_notes,omitempty"`
	ConditionsText string `json:"conditions_text,omitempty"`
	Location       string `json:"location,omitempty"`
	Activity       string `json:"activity,omitempty"`
}

// CredentialSource resolves API credentials per call, so UI overrides
// take effect without a restart. *credentials.Resolver satisfies it.
type CredentialSource interface {
	Get(key string) string
	IsVisionReady() bool
	VertexTokenSource(ctx context.Context) (oauth2.TokenSource, string, error)
}

// Service calls the external vision APIs.
type Service struct {
	jinaBaseURL    string
	vertexLocation string
	maxImageBytes  int
	creds          CredentialSource
	httpc          *http.Client

	// vertexEndpoint overrides the regional Vertex host in tests.
	vertexEndpoint string
}

// NewService wires a Service. maxImageBytes bounds the decoded image
// payload accepted by Analyze.
func NewService(jinaBaseURL, vertexLocation string, maxImageBytes int, creds CredentialSource) *Service {
	return &Service{
		jinaBaseURL:    strings.TrimRight(jinaBaseURL, "/"),
		vertexLocation: vertexLocation,
		maxImageBytes:  maxImageBytes,
		creds:          creds,
		httpc:          &http.Client{},
	}
}

// Ready reports whether terrain analysis can run at all.
func (s *Service) Ready() bool {
	return s.creds.IsVisionReady()
}

// Analyze describes the terrain in an image via Jina VLM. The image may
// carry a data URI prefix; it is stripped before upload. Transport
// failures are retried once; API errors are not.
func (s *Service) Analyze(ctx context.Context, imageBase64, prompt string) (string, error) {
	apiKey := s.creds.Get(credentials.KeyJinaAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("vision.Service.Analyze: jina: %w", domain.ErrNotConfigured)
	}

	clean, err := s.validateImage(imageBase64)
	if err != nil {
		return "", fmt.Errorf("vision.Service.Analyze: %w", err)
	}
	if prompt == "" {
		prompt = DefaultTerrainPrompt
	}

	payload, err := json.Marshal(map[string]any{
		"model": jinaModel,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": prompt},
				{"type": "image_url", "image_url": map[string]string{
					"url": "data:image/jpeg;base64," + clean,
				}},
			},
		}},
		"max_tokens": analyzeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("vision.Service.Analyze: marshal: %w", err)
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Info().Int("attempt", attempt).Int("max", maxAttempts).Msg("vision: jina vlm request")

		desc, retryable, err := s.analyzeOnce(ctx, apiKey, payload)
		if err == nil {
			log.Info().Int("chars", len(desc)).Msg("vision: jina vlm analysis complete")
			return desc, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("vision: jina vlm transport failure, retrying")
	}

	return "", fmt.Errorf("vision.Service.Analyze: %w", lastErr)
}

func (s *Service) analyzeOnce(ctx context.Context, apiKey string, payload []byte) (desc string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.jinaBaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", false, fmt.Errorf("%w: jina vlm status %d: %s",
			domain.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("jina vlm returned no choices")
	}
	return out.Choices[0].Message.Content, false, nil
}

// Warm pings the Jina VLM model list so the first real analysis does not
// pay the cold-start cost. Returns "warm" or "unavailable".
func (s *Service) Warm(ctx context.Context) (string, error) {
	apiKey := s.creds.Get(credentials.KeyJinaAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("vision.Service.Warm: jina: %w", domain.ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jinaBaseURL+"/v1/models", nil)
	if err != nil {
		return "", fmt.Errorf("vision.Service.Warm: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("vision: warm ping failed")
		return "unavailable", nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "unavailable", nil
	}
	return "warm", nil
}

// validateImage strips any data URI prefix and enforces the size cap.
func (s *Service) validateImage(imageBase64 string) (string, error) {
	if strings.HasPrefix(imageBase64, "data:") {
		_, rest, found := strings.Cut(imageBase64, ",")
		if !found {
			return "", fmt.Errorf("%w: malformed data uri", domain.ErrInvalid)
		}
		imageBase64 = rest
	}

	decodedSize := len(imageBase64) * 3 / 4
	if decodedSize > s.maxImageBytes {
		return "", fmt.Errorf("%w: image too large (%.1fMB, maximum %dMB)",
			domain.ErrInvalid, float64(decodedSize)/1024/1024, s.maxImageBytes/1024/1024)
	}
	return imageBase64, nil
}

// GroundConditions asks Gemini, with Google Search grounding, for the
// live weather and trail conditions at a destination. The model is asked
// for structured JSON; free-text answers come back under ConditionsText.
func (s *Service) GroundConditions(ctx context.Context, location, activity string) (*Conditions, error) {
	ts, projectID, err := s.creds.VertexTokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision.Service.GroundConditions: %w", err)
	}
	region := s.region()

	prompt := fmt.Sprintf(
		"What are the current weather and trail conditions for %s at %s? "+
			"Include: temperature, precipitation, wind, trail status, and any "+
			"safety advisories. Return as JSON with keys: temperature_f, "+
			"conditions, wind_mph, trail_status, safety_notes.",
		activity, location)

	body := map[string]any{
		"contents": []map[string]any{{
			"role":  "user",
			"parts": []map[string]string{{"text": prompt}},
		}},
		"tools": []map[string]any{{"googleSearch": map[string]any{}}},
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		s.vertexHost(region), projectID, region, geminiModel)

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := s.vertexPost(ctx, ts, endpoint, body, &out); err != nil {
		return nil, fmt.Errorf("vision.Service.GroundConditions: %w", err)
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("vision.Service.GroundConditions: gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	cond := &Conditions{}
	raw := strings.TrimSpace(text.String())
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), cond); err != nil {
		return &Conditions{
			ConditionsText: raw,
			Location:       location,
			Activity:       activity,
		}, nil
	}
	return cond, nil
}

// PreviewRequest describes one product preview generation.
type PreviewRequest struct {
	ProductName        string
	ProductDescription string
	ProductImageURL    string
	SceneDescription   string
}

// GeneratePreview renders the product into an outdoor scene with a
// two-pass Imagen pipeline: a scene background first, then a composite
// that places (or dresses a hiker in) the product. When a catalog image
// URL is available it is used as a style reference; style failures fall
// back to plain text-to-image. Returns the generated image as base64
// plus the combined prompt used.
func (s *Service) GeneratePreview(ctx context.Context, req PreviewRequest) (string, string, error) {
	ts, projectID, err := s.creds.VertexTokenSource(ctx)
	if err != nil {
		return "", "", fmt.Errorf("vision.Service.GeneratePreview: %w", err)
	}
	region := s.region()

	scenePrompt := fmt.Sprintf(
		"A photorealistic outdoor scene: %s. Show a natural campsite or trail "+
			"setting at ground level with realistic human-scale perspective. Leave "+
			"clear space in the foreground for gear placement. Professional outdoor "+
			"photography, 16:9 aspect ratio.",
		req.SceneDescription)

	log.Info().Msg("vision: imagen pass 1, scene background")
	if _, err := s.imagenGenerate(ctx, ts, projectID, region, scenePrompt); err != nil {
		return "", "", fmt.Errorf("vision.Service.GeneratePreview: scene: %w", err)
	}

	compositePrompt := s.compositePrompt(req)
	combinedPrompt := fmt.Sprintf("[Scene context] %s\n[Product + Scene] %s", scenePrompt, compositePrompt)

	// Style-referenced edit first, when a catalog image is reachable.
	if styleImage := s.fetchStyleImage(ctx, req.ProductImageURL); styleImage != nil {
		img, err := s.imagenEdit(ctx, ts, projectID, region, compositePrompt, req.ProductName, styleImage)
		if err == nil {
			log.Info().Msg("vision: imagen composite with style reference succeeded")
			return img, combinedPrompt + "\n[Style Reference] Product catalog image used", nil
		}
		log.Warn().Err(err).Msg("vision: imagen style reference failed, trying without")
	}

	log.Info().Msg("vision: imagen composite, text-to-image")
	img, err := s.imagenGenerate(ctx, ts, projectID, region, compositePrompt)
	if err != nil {
		return "", "", fmt.Errorf("vision.Service.GeneratePreview: %w", err)
	}
	return img, combinedPrompt, nil
}

// compositePrompt builds the product placement prompt. Wearables read
// better worn by a person; gear sits in the foreground.
func (s *Service) compositePrompt(req PreviewRequest) string {
	nameLower := strings.ToLower(req.ProductName)
	descLower := strings.ToLower(req.ProductDescription)
	wearable := false
	for _, kw := range wearableKeywords {
		if strings.Contains(nameLower, kw) || strings.Contains(descLower, kw) {
			wearable = true
			break
		}
	}

	switch {
	case wearable:
		detail := req.ProductDescription
		if detail == "" {
			detail = req.ProductName
		}
		return fmt.Sprintf(
			"A photorealistic outdoor photograph: %s. A hiker wearing %s. "+
				"The person is shown from mid-thigh up, facing the camera on a trail, "+
				"with the landscape visible behind them. Natural lighting, professional "+
				"outdoor photography, 16:9 aspect ratio.",
			req.SceneDescription, detail)
	case req.ProductDescription != "":
		return fmt.Sprintf(
			"A photorealistic outdoor photograph: %s. In the foreground at ground "+
				"level, prominently feature: %s. The product is set up and ready to use "+
				"at a natural campsite. Realistic scale, natural lighting, professional "+
				"outdoor photography, 16:9 aspect ratio.",
			req.SceneDescription, req.ProductDescription)
	default:
		return fmt.Sprintf(
			"A photorealistic outdoor photograph: %s. In the foreground at ground "+
				"level, prominently feature a %s set up and ready to use at a natural "+
				"campsite. Realistic scale, natural lighting, professional outdoor "+
				"photography, 16:9 aspect ratio.",
			req.SceneDescription, req.ProductName)
	}
}

// fetchStyleImage downloads the product catalog image, or nil when it
// cannot be fetched. Preview generation proceeds either way.
func (s *Service) fetchStyleImage(ctx context.Context, imageURL string) []byte {
	if imageURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		log.Warn().Err(err).Msg("vision: bad product image url")
		return nil
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("vision: could not fetch product image")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("vision: product image fetch failed")
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		log.Warn().Err(err).Msg("vision: product image read failed")
		return nil
	}
	log.Info().Int("bytes", len(data)).Msg("vision: fetched product style image")
	return data
}

// imagenGenerate runs one text-to-image predict call and returns the
// first generated image as base64.
func (s *Service) imagenGenerate(ctx context.Context, ts oauth2.TokenSource, projectID, region, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		s.vertexHost(region), projectID, region, imagenModel)

	body := map[string]any{
		"instances": []map[string]any{{"prompt": prompt}},
		"parameters": map[string]any{
			"sampleCount":      1,
			"aspectRatio":      "16:9",
			"safetySetting":    "block_medium_and_above",
			"personGeneration": "allow_adult",
		},
	}

	var out imagenResponse
	if err := s.vertexPost(ctx, ts, endpoint, body, &out); err != nil {
		return "", err
	}
	return out.firstImage()
}

// imagenEdit runs the style-referenced capability model.
func (s *Service) imagenEdit(ctx context.Context, ts oauth2.TokenSource, projectID, region, prompt, productName string, styleImage []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		s.vertexHost(region), projectID, region, imagenEditModel)

	body := map[string]any{
		"instances": []map[string]any{{
			"prompt": prompt,
			"referenceImages": []map[string]any{{
				"referenceType": "REFERENCE_TYPE_STYLE",
				"referenceId":   0,
				"referenceImage": map[string]string{
					"bytesBase64Encoded": base64.StdEncoding.EncodeToString(styleImage),
				},
				"styleImageConfig": map[string]string{
					"styleDescription": "The visual appearance, color, and design of " + productName,
				},
			}},
		}},
		"parameters": map[string]any{
			"editMode":         "EDIT_MODE_DEFAULT",
			"sampleCount":      1,
			"safetySetting":    "block_medium_and_above",
			"personGeneration": "allow_adult",
		},
	}

	var out imagenResponse
	if err := s.vertexPost(ctx, ts, endpoint, body, &out); err != nil {
		return "", err
	}
	return out.firstImage()
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

func (r *imagenResponse) firstImage() (string, error) {
	if len(r.Predictions) == 0 || r.Predictions[0].BytesBase64Encoded == "" {
		return "", fmt.Errorf("imagen returned no images")
	}
	return r.Predictions[0].BytesBase64Encoded, nil
}

// vertexPost does one authenticated JSON round trip against Vertex AI.
func (s *Service) vertexPost(ctx context.Context, ts oauth2.TokenSource, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	token, err := ts.Token()
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: vertex status %d: %s",
			domain.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Service) region() string {
	if loc := s.creds.Get(credentials.KeyVertexLocation); loc != "" {
		return loc
	}
	return s.vertexLocation
}

func (s *Service) vertexHost(region string) string {
	if s.vertexEndpoint != "" {
		return s.vertexEndpoint
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com", region)
}

// stripCodeFence removes a surrounding markdown code fence, which Gemini
// adds around JSON answers more often than not.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
