// FILE: internal/service/credit_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrPromoNotFound    = errors.New("promo code not found")
	ErrPromoAlreadyUsed = errors.New("promo code already used")
)

type ICreditService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error)
	RedeemPromo(ctx context.Context, userId uuid.UUID, req *dto.RedeemPromoRequest) (*dto.RedeemPromoResponse, error)
}

type creditService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCreditService(uowFactory unitofwork.RepositoryFactory) ICreditService {
	return &creditService{
		uowFactory: uowFactory,
	}
}

// GetBalance returns the caller's balance, creating the zero row on first
// read so the frontend never has to special-case a missing balance.
func (s *creditService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.CreditRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	if balance == nil {
		balance = &entity.CreditBalance{
			Id:        uuid.New(),
			UserId:    userId,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.CreditRepository().Create(ctx, balance); err != nil {
			return nil, err
		}
	}

	return &dto.CreditBalanceResponse{
		CreditsRemaining: balance.CreditsRemaining,
		CreditsTotal:     balance.CreditsTotal,
	}, nil
}

func (s *creditService) GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	transactions, err := uow.CreditTransactionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CreditTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		item := &dto.CreditTransactionResponse{
			Id:          tx.Id,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
		if tx.ReferenceId != nil {
			ref := tx.ReferenceId.String()
			item.ReferenceId = &ref
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *creditService) RedeemPromo(ctx context.Context, userId uuid.UUID, req *dto.RedeemPromoRequest) (*dto.RedeemPromoResponse, error) {
	// Codes are case-insensitive; the canonical upper-cased form is what
	// gets stored in the usage row.
	code := strings.ToUpper(req.Code)

	promo, ok := constant.PromoCodes[code]
	if !ok {
		return nil, ErrPromoNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.PromoCodeUsageRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.Filter("promo_code", code),
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPromoAlreadyUsed
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The balance row may not exist yet for users who redeem before
	// ever opening the credits page.
	balance, err := uow.CreditRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if balance == nil {
		balance = &entity.CreditBalance{
			Id:        uuid.New(),
			UserId:    userId,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.CreditRepository().Create(ctx, balance); err != nil {
			return nil, err
		}
	}

	if err := uow.CreditRepository().AddCredits(ctx, userId, promo.Credits); err != nil {
		return nil, err
	}

	usage := &entity.PromoCodeUsage{
		Id:             uuid.New(),
		UserId:         userId,
		PromoCode:      code,
		CreditsAwarded: promo.Credits,
		CreatedAt:      time.Now(),
	}
	// The unique (user_id, promo_code) index backstops the pre-check
	// against concurrent redeems.
	if err := uow.PromoCodeUsageRepository().Create(ctx, usage); err != nil {
		return nil, ErrPromoAlreadyUsed
	}

	ledger := &entity.CreditTransaction{
		Id:          uuid.New(),
		UserId:      userId,
		Amount:      promo.Credits,
		Type:        entity.CreditTransactionPromo,
		Description: promo.Description,
		ReferenceId: &usage.Id,
		CreatedAt:   time.Now(),
	}
	if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.RedeemPromoResponse{
		Code:           code,
		CreditsAwarded: promo.Credits,
		Description:    promo.Description,
	}, nil
}
