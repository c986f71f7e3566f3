package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Request is the provider-agnostic generation input. InputImageURLs must be
// publicly reachable by the provider.
type Request struct {
	Prompt         string
	InputImageURLs []string
}

// Option allows for optional parameters like model override or output format.
type Option func(*Options)

type Options struct {
	Model        string // Override default model
	OutputFormat string
	AspectRatio  string
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithOutputFormat(format string) Option {
	return func(o *Options) {
		o.OutputFormat = format
	}
}

// Provider defines the contract for any image generation backend.
type Provider interface {
	// Generate runs one prediction and returns the URL of the generated
	// image, hosted by the provider. The URL is short lived; callers are
	// expected to download and re-host the result.
	Generate(ctx context.Context, req Request, options ...Option) (string, error)
}

// Fetch downloads a generated image from the provider's delivery URL.
// Returns the raw bytes and the reported content type.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
