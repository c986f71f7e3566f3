package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/pkg/imagegen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	url string
	err error

	gotPrompt string
	gotModel  string
}

func (p *fakeProvider) Generate(ctx context.Context, req imagegen.Request, opts ...imagegen.Option) (string, error) {
	options := imagegen.Options{}
	for _, opt := range opts {
		opt(&options)
	}
	p.gotPrompt = req.Prompt
	p.gotModel = options.Model
	return p.url, p.err
}

type fakeUploader struct {
	uploads map[string][]byte
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	u.uploads[name] = data
	return fmt.Sprintf("http://storage.local/%s/%s", bucket, name), nil
}

func (u *fakeUploader) OutputBucket() string { return "outputs" }

func seedPaidProject(factory *fakeFactory, userId uuid.UUID) uuid.UUID {
	projectId := uuid.New()
	factory.uow.projects.projects[projectId] = &entity.Project{
		Id:             projectId,
		UserId:         userId,
		Prompt:         "make it sunny",
		ModelName:      "google/nano-banana",
		InputImageURLs: []string{"http://storage.local/inputs/a.jpg"},
		Status:         entity.GenerationStatusPending,
		PaymentStatus:  entity.ProjectPaymentPaid,
	}
	return projectId
}

func TestGenerateUnknownProject(t *testing.T) {
	factory := newFakeFactory()
	svc := NewGenerationService(factory, &fakeProvider{}, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestGenerateRequiresPayment(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)
	factory.uow.projects.projects[projectId].PaymentStatus = entity.ProjectPaymentPending

	svc := NewGenerationService(factory, &fakeProvider{}, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), userId, projectId)

	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, entity.GenerationStatusPending, factory.uow.projects.projects[projectId].Status)
}

func TestGenerateRejectsCompletedProject(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)
	factory.uow.projects.projects[projectId].Status = entity.GenerationStatusCompleted

	svc := NewGenerationService(factory, &fakeProvider{}, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), userId, projectId)

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestGenerateRejectsProcessingProject(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)
	factory.uow.projects.projects[projectId].Status = entity.GenerationStatusProcessing

	svc := NewGenerationService(factory, &fakeProvider{}, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), userId, projectId)

	assert.ErrorIs(t, err, ErrGenerationInProgress)
}

func TestGenerateHappyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer ts.Close()

	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)

	provider := &fakeProvider{url: ts.URL}
	uploader := newFakeUploader()
	svc := NewGenerationService(factory, provider, uploader, nil, nil, nopLogger{})

	res, err := svc.Generate(context.Background(), userId, projectId)

	assert.NoError(t, err)
	assert.Equal(t, string(entity.GenerationStatusCompleted), res.Status)
	assert.Equal(t, "make it sunny", provider.gotPrompt)
	assert.Equal(t, "google/nano-banana", provider.gotModel)

	outputName := fmt.Sprintf("%s-output.jpg", projectId)
	assert.Equal(t, []byte("jpeg-bytes"), uploader.uploads[outputName])

	stored := factory.uow.projects.projects[projectId]
	assert.Equal(t, entity.GenerationStatusCompleted, stored.Status)
	assert.NotNil(t, stored.OutputImageURL)
	assert.Equal(t, res.OutputImageURL, *stored.OutputImageURL)
}

func TestGenerateStoreFailureMarksFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer ts.Close()

	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)
	factory.uow.projects.setOutputErr = errors.New("db down")

	provider := &fakeProvider{url: ts.URL}
	svc := NewGenerationService(factory, provider, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), userId, projectId)

	assert.Error(t, err)
	assert.Equal(t, entity.GenerationStatusFailed, factory.uow.projects.projects[projectId].Status)
}

func TestGenerateProviderFailureMarksFailed(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	projectId := seedPaidProject(factory, userId)

	provider := &fakeProvider{err: errors.New("model unavailable")}
	svc := NewGenerationService(factory, provider, newFakeUploader(), nil, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), userId, projectId)

	assert.Error(t, err)
	assert.Equal(t, entity.GenerationStatusFailed, factory.uow.projects.projects[projectId].Status)
}
