package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type PaymentSessionMapper struct{}

func NewPaymentSessionMapper() *PaymentSessionMapper {
	return &PaymentSessionMapper{}
}

func (m *PaymentSessionMapper) ToEntity(s *model.PaymentSession) *entity.PaymentSession {
	if s == nil {
		return nil
	}
	return &entity.PaymentSession{
		Id:            s.Id,
		UserId:        s.UserId,
		Kind:          entity.PaymentSessionKind(s.Kind),
		ProjectId:     s.ProjectId,
		PackId:        s.PackId,
		Credits:       s.Credits,
		Amount:        s.Amount,
		Currency:      s.Currency,
		Status:        entity.PaymentSessionStatus(s.Status),
		SnapToken:     s.SnapToken,
		RedirectURL:   s.RedirectURL,
		TransactionId: s.TransactionId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *PaymentSessionMapper) ToModel(s *entity.PaymentSession) *model.PaymentSession {
	if s == nil {
		return nil
	}
	return &model.PaymentSession{
		Id:            s.Id,
		UserId:        s.UserId,
		Kind:          string(s.Kind),
		ProjectId:     s.ProjectId,
		PackId:        s.PackId,
		Credits:       s.Credits,
		Amount:        s.Amount,
		Currency:      s.Currency,
		Status:        string(s.Status),
		SnapToken:     s.SnapToken,
		RedirectURL:   s.RedirectURL,
		TransactionId: s.TransactionId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
