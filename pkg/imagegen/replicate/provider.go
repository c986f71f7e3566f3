package replicate

import (
	"ai-imagestudio-be/pkg/imagegen"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ReplicateProvider struct {
	BaseURL   string
	APIToken  string
	ModelName string
	Client    *http.Client
}

// Ensure ReplicateProvider implements Provider
var _ imagegen.Provider = &ReplicateProvider{}

func NewReplicateProvider(apiToken, modelName string) *ReplicateProvider {
	return &ReplicateProvider{
		BaseURL:   "https://api.replicate.com",
		APIToken:  apiToken,
		ModelName: modelName,
		Client: &http.Client{
			// Predictions run synchronously via Prefer: wait; image models
			// can take a while.
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt       string   `json:"prompt"`
	ImageInput   []string `json:"image_input,omitempty"`
	AspectRatio  string   `json:"aspect_ratio,omitempty"`
	OutputFormat string   `json:"output_format,omitempty"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  *string         `json:"error"`
}

// --- Interface Implementation ---

func (p *ReplicateProvider) Generate(ctx context.Context, req imagegen.Request, opts ...imagegen.Option) (string, error) {
	options := &imagegen.Options{
		OutputFormat: "jpg",
		AspectRatio:  "match_input_image",
	}
	for _, opt := range opts {
		opt(options)
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := predictionRequest{
		Input: predictionInput{
			Prompt:       req.Prompt,
			ImageInput:   req.InputImageURLs,
			AspectRatio:  options.AspectRatio,
			OutputFormat: options.OutputFormat,
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s/predictions", p.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIToken)
	httpReq.Header.Set("Content-Type", "application/json")
	// Hold the connection open until the prediction finishes instead of
	// polling the prediction endpoint.
	httpReq.Header.Set("Prefer", "wait")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("replicate request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("replicate error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var prediction predictionResponse
	if err := json.Unmarshal(bodyBytes, &prediction); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if prediction.Error != nil && *prediction.Error != "" {
		return "", fmt.Errorf("replicate prediction failed: %s", *prediction.Error)
	}

	outputURL, err := NormalizeOutput(prediction.Output)
	if err != nil {
		return "", err
	}
	return outputURL, nil
}

// NormalizeOutput extracts the image URL from a prediction output, which
// depending on the model is a bare string, an array of URLs, or an object
// with a url field.
func NormalizeOutput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("no output generated")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString, nil
	}

	var asArray []string
	if err := json.Unmarshal(raw, &asArray); err == nil && len(asArray) > 0 {
		return asArray[0], nil
	}

	var asObject struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject.URL != "" {
		return asObject.URL, nil
	}

	return "", fmt.Errorf("unexpected output format: %s", string(raw))
}
