package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateStatus performs a guarded transition: the row is only updated
	// when its current status still matches from. Returns false when the
	// row was concurrently moved elsewhere.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.GenerationStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.ProjectPaymentStatus) error
	SetOutput(ctx context.Context, id uuid.UUID, outputURL string) error
}
