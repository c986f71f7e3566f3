package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type CreditMapper struct{}

func NewCreditMapper() *CreditMapper {
	return &CreditMapper{}
}

func (m *CreditMapper) BalanceToEntity(b *model.CreditBalance) *entity.CreditBalance {
	if b == nil {
		return nil
	}
	return &entity.CreditBalance{
		Id:               b.Id,
		UserId:           b.UserId,
		CreditsRemaining: b.CreditsRemaining,
		CreditsTotal:     b.CreditsTotal,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (m *CreditMapper) BalanceToModel(b *entity.CreditBalance) *model.CreditBalance {
	if b == nil {
		return nil
	}
	return &model.CreditBalance{
		Id:               b.Id,
		UserId:           b.UserId,
		CreditsRemaining: b.CreditsRemaining,
		CreditsTotal:     b.CreditsTotal,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (m *CreditMapper) TransactionToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}
	return &entity.CreditTransaction{
		Id:          t.Id,
		UserId:      t.UserId,
		Amount:      t.Amount,
		Type:        entity.CreditTransactionType(t.Type),
		Description: t.Description,
		ReferenceId: t.ReferenceId,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}
	return &model.CreditTransaction{
		Id:          t.Id,
		UserId:      t.UserId,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Description: t.Description,
		ReferenceId: t.ReferenceId,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *CreditMapper) UsageToEntity(u *model.PromoCodeUsage) *entity.PromoCodeUsage {
	if u == nil {
		return nil
	}
	return &entity.PromoCodeUsage{
		Id:             u.Id,
		UserId:         u.UserId,
		PromoCode:      u.PromoCode,
		CreditsAwarded: u.CreditsAwarded,
		CreatedAt:      u.CreatedAt,
	}
}

func (m *CreditMapper) UsageToModel(u *entity.PromoCodeUsage) *model.PromoCodeUsage {
	if u == nil {
		return nil
	}
	return &model.PromoCodeUsage{
		Id:             u.Id,
		UserId:         u.UserId,
		PromoCode:      u.PromoCode,
		CreditsAwarded: u.CreditsAwarded,
		CreatedAt:      u.CreatedAt,
	}
}
