package replicate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-imagestudio-be/pkg/imagegen"
)

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare string", raw: `"https://replicate.delivery/out.jpg"`, want: "https://replicate.delivery/out.jpg"},
		{name: "array of urls", raw: `["https://replicate.delivery/a.jpg","https://replicate.delivery/b.jpg"]`, want: "https://replicate.delivery/a.jpg"},
		{name: "object with url", raw: `{"url":"https://replicate.delivery/obj.jpg"}`, want: "https://replicate.delivery/obj.jpg"},
		{name: "null output", raw: `null`, wantErr: true},
		{name: "empty output", raw: ``, wantErr: true},
		{name: "empty array", raw: `[]`, wantErr: true},
		{name: "unrelated object", raw: `{"seed":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOutput(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeOutput(%s) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeOutput(%s) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeOutput(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	var gotPath, gotAuth, gotPrefer string
	var gotBody predictionRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pred-1",
			"status": "succeeded",
			"output": "https://replicate.delivery/out.jpg",
		})
	}))
	defer ts.Close()

	p := NewReplicateProvider("token-123", "google/nano-banana")
	p.BaseURL = ts.URL

	url, err := p.Generate(context.Background(), imagegen.Request{
		Prompt:         "add a hat",
		InputImageURLs: []string{"https://cdn.local/in.jpg"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if url != "https://replicate.delivery/out.jpg" {
		t.Errorf("Generate url = %q", url)
	}
	if gotPath != "/v1/models/google/nano-banana/predictions" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotPrefer != "wait" {
		t.Errorf("prefer header = %q", gotPrefer)
	}
	if gotBody.Input.Prompt != "add a hat" {
		t.Errorf("prompt = %q", gotBody.Input.Prompt)
	}
	if gotBody.Input.AspectRatio != "match_input_image" {
		t.Errorf("aspect_ratio = %q", gotBody.Input.AspectRatio)
	}
	if gotBody.Input.OutputFormat != "jpg" {
		t.Errorf("output_format = %q", gotBody.Input.OutputFormat)
	}
	if len(gotBody.Input.ImageInput) != 1 || gotBody.Input.ImageInput[0] != "https://cdn.local/in.jpg" {
		t.Errorf("image_input = %v", gotBody.Input.ImageInput)
	}
}

func TestGenerateModelOverride(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": "https://replicate.delivery/out.jpg",
		})
	}))
	defer ts.Close()

	p := NewReplicateProvider("token", "google/nano-banana")
	p.BaseURL = ts.URL

	_, err := p.Generate(context.Background(), imagegen.Request{Prompt: "x"},
		imagegen.WithModel("black-forest-labs/flux-kontext-pro"))
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if gotPath != "/v1/models/black-forest-labs/flux-kontext-pro/predictions" {
		t.Errorf("request path = %q", gotPath)
	}
}

func TestGeneratePredictionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "failed",
			"error":  "NSFW content detected",
		})
	}))
	defer ts.Close()

	p := NewReplicateProvider("token", "google/nano-banana")
	p.BaseURL = ts.URL

	_, err := p.Generate(context.Background(), imagegen.Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected prediction error")
	}
}

func TestGenerateHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	p := NewReplicateProvider("bad-token", "google/nano-banana")
	p.BaseURL = ts.URL

	_, err := p.Generate(context.Background(), imagegen.Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected http status error")
	}
}
