package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T, cfg Config) *ObjectStore {
	t.Helper()
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:9000"
	}
	if cfg.AccessKey == "" {
		cfg.AccessKey = "minio"
		cfg.SecretKey = "minio123"
	}
	if cfg.BucketInputs == "" {
		cfg.BucketInputs = "inputs"
		cfg.BucketOutput = "outputs"
	}
	store, err := NewObjectStore(cfg)
	if err != nil {
		t.Fatalf("NewObjectStore: %v", err)
	}
	return store
}

func TestNewObjectStoreRejectsBadEndpoint(t *testing.T) {
	_, err := NewObjectStore(Config{Endpoint: "http://%zz"})
	assert.Error(t, err)
}

func TestBuildObjectKeyDatePrefix(t *testing.T) {
	store := newTestStore(t, Config{})

	key := store.BuildObjectKey("abc-0.jpg")

	wantPrefix := time.Now().UTC().Format("2006/01/02") + "/"
	assert.True(t, strings.HasPrefix(key, wantPrefix), "key %q should start with %q", key, wantPrefix)
	assert.True(t, strings.HasSuffix(key, "abc-0.jpg"))
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "uses configured public base",
			cfg:  Config{PublicURL: "https://cdn.imagestudio.app/"},
			want: "https://cdn.imagestudio.app/outputs/2026/01/01/x.jpg",
		},
		{
			name: "falls back to endpoint",
			cfg:  Config{Endpoint: "http://localhost:9000"},
			want: "http://localhost:9000/outputs/2026/01/01/x.jpg",
		},
		{
			name: "adds scheme to bare host",
			cfg:  Config{Endpoint: "http://localhost:9000", PublicURL: "cdn.imagestudio.app"},
			want: "https://cdn.imagestudio.app/outputs/2026/01/01/x.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.cfg)
			got := store.PublicURL("outputs", "2026/01/01/x.jpg")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteByURLIgnoresForeignURLs(t *testing.T) {
	store := newTestStore(t, Config{})

	// No bucket/key path segments: not one of ours, silently ignored
	// without any network roundtrip.
	err := store.DeleteByURL(context.Background(), "https://example.com/justonesegment")
	assert.NoError(t, err)
}

func TestBuckets(t *testing.T) {
	store := newTestStore(t, Config{BucketInputs: "in", BucketOutput: "out"})

	assert.Equal(t, "in", store.InputBucket())
	assert.Equal(t, "out", store.OutputBucket())
}
