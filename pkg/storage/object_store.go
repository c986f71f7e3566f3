package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint     string
	PublicURL    string
	AccessKey    string
	SecretKey    string
	Region       string
	UseSSL       bool
	BucketInputs string
	BucketOutput string
}

// ObjectStore wraps the S3-compatible client used for both the user-uploaded
// source images and the generated results. Each bucket keeps a flat
// date-prefixed key layout so objects stay browsable.
type ObjectStore struct {
	client *minio.Client
	cfg    Config
}

func NewObjectStore(cfg Config) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketInputs, s.cfg.BucketOutput} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

func (s *ObjectStore) InputBucket() string  { return s.cfg.BucketInputs }
func (s *ObjectStore) OutputBucket() string { return s.cfg.BucketOutput }

// Upload writes data under a date-prefixed key and returns the public URL.
func (s *ObjectStore) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	key := s.BuildObjectKey(name)
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(ctx, bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.PublicURL(bucket, key), nil
}

func (s *ObjectStore) Delete(ctx context.Context, bucket, key string) error {
	return s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// DeleteByURL removes an object given its public URL, tolerating URLs that
// do not belong to this store.
func (s *ObjectStore) DeleteByURL(ctx context.Context, publicURL string) error {
	bucket, key, ok := s.parsePublicURL(publicURL)
	if !ok {
		return nil
	}
	return s.Delete(ctx, bucket, key)
}

func (s *ObjectStore) BuildObjectKey(name string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, name)
}

func (s *ObjectStore) PublicURL(bucket, key string) string {
	base := strings.TrimSuffix(s.cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimSuffix(s.cfg.Endpoint, "/")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}

func (s *ObjectStore) parsePublicURL(publicURL string) (bucket, key string, ok bool) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (s *ObjectStore) Client() *minio.Client {
	return s.client
}
