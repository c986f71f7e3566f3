// FILE: internal/service/project_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type IProjectService interface {
	CreateWithCredits(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest, files []*multipart.FileHeader) (*dto.ProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error)
	Get(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userId, projectId uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
	store      objectStorer
	log        logger.ILogger
}

// objectStorer is the slice of the object store the project flow needs.
type objectStorer interface {
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)
	InputBucket() string
	DeleteByURL(ctx context.Context, publicURL string) error
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, store objectStorer, log logger.ILogger) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
		store:      store,
		log:        log,
	}
}

// CreateWithCredits funds the project from the caller's balance. The debit
// is the first thing that happens and it is a conditional UPDATE, so a user
// with zero credits gets a clean rejection and nothing is created.
func (s *projectService) CreateWithCredits(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest, files []*multipart.FileHeader) (*dto.ProjectResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoInputImages
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	debited, err := uow.CreditRepository().DebitOne(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, ErrInsufficientCredits
	}

	projectId := uuid.New()
	inputURLs, err := s.uploadInputs(ctx, projectId, files)
	if err != nil {
		return nil, err
	}

	modelName := req.ModelName
	if modelName == "" {
		modelName = constant.DefaultModelName
	}

	project := &entity.Project{
		Id:             projectId,
		UserId:         userId,
		InputImageURLs: inputURLs,
		Prompt:         req.Prompt,
		ModelName:      modelName,
		Status:         entity.GenerationStatusPending,
		PaymentStatus:  entity.ProjectPaymentPaid, // credit-funded, no checkout
		PaymentAmount:  0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}

	ledger := &entity.CreditTransaction{
		Id:          uuid.New(),
		UserId:      userId,
		Amount:      -1,
		Type:        entity.CreditTransactionGeneration,
		Description: "Image generation",
		ReferenceId: &projectId,
		CreatedAt:   time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("project", "credit-funded project created", map[string]interface{}{
		"project_id": projectId,
		"user_id":    userId,
	})

	return projectToDTO(project), nil
}

func (s *projectService) uploadInputs(ctx context.Context, projectId uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
		ext := filepath.Ext(fh.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		name := fmt.Sprintf("%s-%d%s", projectId, i, ext)
		url, err := s.store.Upload(ctx, s.store.InputBucket(), name, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload input %d: %w", i, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		res = append(res, projectToDTO(p))
	}
	return res, nil
}

func (s *projectService) Get(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error) {
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
	return projectToDTO(project), nil
}

func (s *projectService) Delete(ctx context.Context, userId, projectId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}

	// Remove stored objects first; a failed object delete leaves the row
	// so the user can retry.
	for _, url := range project.InputImageURLs {
		if err := s.store.DeleteByURL(ctx, url); err != nil {
			s.log.Warn("project", "failed to delete input object", map[string]interface{}{
				"project_id": projectId,
				"url":        url,
				"error":      err.Error(),
			})
		}
	}
	if project.OutputImageURL != nil {
		if err := s.store.DeleteByURL(ctx, *project.OutputImageURL); err != nil {
			s.log.Warn("project", "failed to delete output object", map[string]interface{}{
				"project_id": projectId,
				"error":      err.Error(),
			})
		}
	}

	return uow.ProjectRepository().Delete(ctx, projectId)
}

func projectToDTO(p *entity.Project) *dto.ProjectResponse {
	res := &dto.ProjectResponse{
		Id:             p.Id,
		InputImageURLs: p.InputImageURLs,
		Prompt:         p.Prompt,
		ModelName:      p.ModelName,
		OutputImageURL: p.OutputImageURL,
		Status:         string(p.Status),
		PaymentStatus:  string(p.PaymentStatus),
		PaymentAmount:  p.PaymentAmount,
		CreatedAt:      p.CreatedAt,
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		res.UpdatedAt = &updated
	}
	return res
}
