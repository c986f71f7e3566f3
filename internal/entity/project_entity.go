package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationStatus string
type ProjectPaymentStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
	GenerationStatusCancelled  GenerationStatus = "cancelled"

	ProjectPaymentPending ProjectPaymentStatus = "pending"
	ProjectPaymentPaid    ProjectPaymentStatus = "paid"
	ProjectPaymentFailed  ProjectPaymentStatus = "failed"
	ProjectPaymentExpired ProjectPaymentStatus = "expired"
)

// generationTransitions is the allowed-transition table for the generation
// lifecycle. Anything not listed is rejected by CanTransition.
var generationTransitions = map[GenerationStatus][]GenerationStatus{
	GenerationStatusPending:    {GenerationStatusProcessing, GenerationStatusCancelled},
	GenerationStatusProcessing: {GenerationStatusCompleted, GenerationStatusFailed},
	GenerationStatusFailed:     {GenerationStatusProcessing},
	GenerationStatusCompleted:  {},
	GenerationStatusCancelled:  {},
}

var projectPaymentTransitions = map[ProjectPaymentStatus][]ProjectPaymentStatus{
	ProjectPaymentPending: {ProjectPaymentPaid, ProjectPaymentFailed, ProjectPaymentExpired},
	ProjectPaymentFailed:  {ProjectPaymentPaid},
	ProjectPaymentPaid:    {},
	ProjectPaymentExpired: {},
}

func (s GenerationStatus) CanTransitionTo(next GenerationStatus) bool {
	for _, allowed := range generationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ProjectPaymentStatus) CanTransitionTo(next ProjectPaymentStatus) bool {
	for _, allowed := range projectPaymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Project struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	InputImageURLs   []string
	Prompt           string
	ModelName        string
	OutputImageURL   *string
	Status           GenerationStatus
	PaymentStatus    ProjectPaymentStatus
	PaymentAmount    int64 // cents; 0 for credit-funded projects
	PaymentSessionId *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
