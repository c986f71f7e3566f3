package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreditRepository interface {
	Create(ctx context.Context, balance *entity.CreditBalance) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error)

	// AddCredits increments both remaining and lifetime totals.
	AddCredits(ctx context.Context, userId uuid.UUID, amount int) error

	// DebitOne is a single conditional decrement: it only succeeds when
	// credits_remaining >= 1, so two concurrent generations cannot
	// double-spend the same credit. Returns false when the balance is
	// insufficient.
	DebitOne(ctx context.Context, userId uuid.UUID) (bool, error)

	// RemoveCredits subtracts up to amount from remaining and lifetime
	// totals, clamping at zero. Used when a paid session later expires.
	RemoveCredits(ctx context.Context, userId uuid.UUID, amount int) error
}

type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CreditTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
}

type PromoCodeUsageRepository interface {
	Create(ctx context.Context, usage *entity.PromoCodeUsage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PromoCodeUsage, error)
}
