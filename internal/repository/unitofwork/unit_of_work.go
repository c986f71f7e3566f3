package unitofwork

import (
	"context"

	"ai-imagestudio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProjectRepository() contract.ProjectRepository
	CreditRepository() contract.CreditRepository
	CreditTransactionRepository() contract.CreditTransactionRepository
	PromoCodeUsageRepository() contract.PromoCodeUsageRepository
	PaymentSessionRepository() contract.PaymentSessionRepository
}
