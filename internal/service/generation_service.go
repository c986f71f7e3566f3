// FILE: internal/service/generation_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/events"
	"ai-imagestudio-be/pkg/imagegen"
	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrPaymentRequired      = errors.New("payment required")
	ErrAlreadyCompleted     = errors.New("project already completed")
	ErrGenerationInProgress = errors.New("generation already in progress")
)

type IGenerationService interface {
	Generate(ctx context.Context, userId, projectId uuid.UUID) (*dto.GenerateResponse, error)
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	provider         imagegen.Provider
	store            objectUploader
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
	httpClient       *http.Client
}

// objectUploader is the slice of the object store the generation flow
// needs; the narrow interface keeps the service testable without minio.
type objectUploader interface {
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)
	OutputBucket() string
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	provider imagegen.Provider,
	store objectUploader,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		provider:         provider,
		store:            store,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
		httpClient:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate runs one prediction for a paid project. The project is moved to
// processing up front with a guarded update; any failure after that point
// flips it to failed. There is no automatic retry.
func (s *generationService) Generate(ctx context.Context, userId, projectId uuid.UUID) (*dto.GenerateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if project.PaymentStatus != entity.ProjectPaymentPaid {
		return nil, ErrPaymentRequired
	}
	if project.Status == entity.GenerationStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if !project.Status.CanTransitionTo(entity.GenerationStatusProcessing) {
		return nil, ErrGenerationInProgress
	}

	moved, err := uow.ProjectRepository().UpdateStatus(ctx, projectId, project.Status, entity.GenerationStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrGenerationInProgress
	}

	outputURL, err := s.runGeneration(ctx, project)
	if err == nil {
		if serr := uow.ProjectRepository().SetOutput(ctx, projectId, outputURL); serr != nil {
			err = fmt.Errorf("store output: %w", serr)
		}
	}
	if err != nil {
		s.log.Error("generation", "generation failed", map[string]interface{}{
			"project_id": projectId,
			"error":      err.Error(),
		})
		if _, ferr := uow.ProjectRepository().UpdateStatus(ctx, projectId, entity.GenerationStatusProcessing, entity.GenerationStatusFailed); ferr != nil {
			s.log.Error("generation", "failed to mark project failed", map[string]interface{}{
				"project_id": projectId,
				"error":      ferr.Error(),
			})
		}
		return nil, err
	}

	s.log.Info("generation", "generation completed", map[string]interface{}{
		"project_id": projectId,
		"output_url": outputURL,
	})

	s.notifyCompleted(ctx, project, outputURL)

	return &dto.GenerateResponse{
		Id:             projectId,
		Status:         string(entity.GenerationStatusCompleted),
		OutputImageURL: outputURL,
	}, nil
}

func (s *generationService) runGeneration(ctx context.Context, project *entity.Project) (string, error) {
	providerURL, err := s.provider.Generate(ctx, imagegen.Request{
		Prompt:         project.Prompt,
		InputImageURLs: project.InputImageURLs,
	}, imagegen.WithModel(project.ModelName))
	if err != nil {
		return "", err
	}

	data, contentType, err := imagegen.Fetch(ctx, s.httpClient, providerURL)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-output.jpg", project.Id)
	outputURL, err := s.store.Upload(ctx, s.store.OutputBucket(), name, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload output: %w", err)
	}
	return outputURL, nil
}

func (s *generationService) notifyCompleted(ctx context.Context, project *entity.Project, outputURL string) {
	if s.publisherService != nil {
		payload, err := json.Marshal(dto.GenerationCompletedMessage{
			ProjectId: project.Id,
			UserId:    project.UserId,
			OutputURL: outputURL,
		})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.log.Warn("generation", "failed to queue completion notification", map[string]interface{}{
					"project_id": project.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewBaseEvent("GENERATION_COMPLETED", map[string]interface{}{
			"project_id": project.Id,
			"user_id":    project.UserId,
			"output_url": outputURL,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish GENERATION_COMPLETED event: %v\n", err)
		}
	}
}
