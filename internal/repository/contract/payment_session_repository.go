package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *entity.PaymentSession) error
	Update(ctx context.Context, session *entity.PaymentSession) error

	// UpdateStatus moves a session from one status to another only when it
	// is still in the expected status, so webhook and verify callers cannot
	// apply the same transition twice. Returns false when nothing matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentSessionStatus) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentSession, error)
}
