package entity

import (
	"testing"
)

func TestPaymentSessionStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from PaymentSessionStatus
		to   PaymentSessionStatus
		want bool
	}{
		{name: "pending to paid", from: PaymentSessionPending, to: PaymentSessionPaid, want: true},
		{name: "pending to failed", from: PaymentSessionPending, to: PaymentSessionFailed, want: true},
		{name: "pending to expired", from: PaymentSessionPending, to: PaymentSessionExpired, want: true},
		{name: "paid can still expire", from: PaymentSessionPaid, to: PaymentSessionExpired, want: true},
		{name: "paid cannot fail", from: PaymentSessionPaid, to: PaymentSessionFailed, want: false},
		{name: "failed can recover to paid", from: PaymentSessionFailed, to: PaymentSessionPaid, want: true},
		{name: "expired is terminal", from: PaymentSessionExpired, to: PaymentSessionPaid, want: false},
		{name: "no self transition", from: PaymentSessionPending, to: PaymentSessionPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
