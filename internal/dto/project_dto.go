package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest is parsed out of a multipart form: the images arrive
// as files, the rest as plain fields.
type CreateProjectRequest struct {
	Prompt    string `form:"prompt" validate:"required,min=3"`
	ModelName string `form:"model" validate:"omitempty"`
}

type ProjectResponse struct {
	Id             uuid.UUID  `json:"id"`
	InputImageURLs []string   `json:"input_image_urls"`
	Prompt         string     `json:"prompt"`
	ModelName      string     `json:"model_name"`
	OutputImageURL *string    `json:"output_image_url,omitempty"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	PaymentAmount  int64      `json:"payment_amount"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// GenerationCompletedMessage is the in-process queue payload consumed by
// the notification worker.
type GenerationCompletedMessage struct {
	ProjectId uuid.UUID `json:"project_id"`
	UserId    uuid.UUID `json:"user_id"`
	OutputURL string    `json:"output_url"`
}

type GenerateResponse struct {
	Id             uuid.UUID `json:"id"`
	Status         string    `json:"status"`
	OutputImageURL string    `json:"output_image_url"`
}
