package entity

import (
	"testing"
)

func TestGenerationStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from GenerationStatus
		to   GenerationStatus
		want bool
	}{
		{name: "pending to processing", from: GenerationStatusPending, to: GenerationStatusProcessing, want: true},
		{name: "pending to cancelled", from: GenerationStatusPending, to: GenerationStatusCancelled, want: true},
		{name: "pending to completed skips processing", from: GenerationStatusPending, to: GenerationStatusCompleted, want: false},
		{name: "processing to completed", from: GenerationStatusProcessing, to: GenerationStatusCompleted, want: true},
		{name: "processing to failed", from: GenerationStatusProcessing, to: GenerationStatusFailed, want: true},
		{name: "processing to cancelled", from: GenerationStatusProcessing, to: GenerationStatusCancelled, want: false},
		{name: "failed can retry", from: GenerationStatusFailed, to: GenerationStatusProcessing, want: true},
		{name: "completed is terminal", from: GenerationStatusCompleted, to: GenerationStatusProcessing, want: false},
		{name: "cancelled is terminal", from: GenerationStatusCancelled, to: GenerationStatusProcessing, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestProjectPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ProjectPaymentStatus
		to   ProjectPaymentStatus
		want bool
	}{
		{name: "pending to paid", from: ProjectPaymentPending, to: ProjectPaymentPaid, want: true},
		{name: "pending to failed", from: ProjectPaymentPending, to: ProjectPaymentFailed, want: true},
		{name: "pending to expired", from: ProjectPaymentPending, to: ProjectPaymentExpired, want: true},
		{name: "failed can recover to paid", from: ProjectPaymentFailed, to: ProjectPaymentPaid, want: true},
		{name: "paid is terminal", from: ProjectPaymentPaid, to: ProjectPaymentExpired, want: false},
		{name: "expired is terminal", from: ProjectPaymentExpired, to: ProjectPaymentPaid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
