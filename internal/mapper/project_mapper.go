package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"

	"gorm.io/datatypes"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}
	return &entity.Project{
		Id:               p.Id,
		UserId:           p.UserId,
		InputImageURLs:   []string(p.InputImageURLs),
		Prompt:           p.Prompt,
		ModelName:        p.ModelName,
		OutputImageURL:   p.OutputImageURL,
		Status:           entity.GenerationStatus(p.Status),
		PaymentStatus:    entity.ProjectPaymentStatus(p.PaymentStatus),
		PaymentAmount:    p.PaymentAmount,
		PaymentSessionId: p.PaymentSessionId,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}
	return &model.Project{
		Id:               p.Id,
		UserId:           p.UserId,
		InputImageURLs:   datatypes.JSONSlice[string](p.InputImageURLs),
		Prompt:           p.Prompt,
		ModelName:        p.ModelName,
		OutputImageURL:   p.OutputImageURL,
		Status:           string(p.Status),
		PaymentStatus:    string(p.PaymentStatus),
		PaymentAmount:    p.PaymentAmount,
		PaymentSessionId: p.PaymentSessionId,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
