package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentSessionKind string
type PaymentSessionStatus string

const (
	PaymentSessionGeneration PaymentSessionKind = "generation"
	PaymentSessionCreditPack PaymentSessionKind = "credit_pack"

	PaymentSessionPending PaymentSessionStatus = "pending"
	PaymentSessionPaid    PaymentSessionStatus = "paid"
	PaymentSessionFailed  PaymentSessionStatus = "failed"
	PaymentSessionExpired PaymentSessionStatus = "expired"
)

var paymentSessionTransitions = map[PaymentSessionStatus][]PaymentSessionStatus{
	PaymentSessionPending: {PaymentSessionPaid, PaymentSessionFailed, PaymentSessionExpired},
	// A paid credit-pack session can still expire later per processor
	// notification ordering; the reconciler reverses the credits then.
	PaymentSessionPaid:    {PaymentSessionExpired},
	PaymentSessionFailed:  {PaymentSessionPaid},
	PaymentSessionExpired: {},
}

func (s PaymentSessionStatus) CanTransitionTo(next PaymentSessionStatus) bool {
	for _, allowed := range paymentSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentSession correlates a processor checkout (its id is used as the
// processor order id) with either a single project or a credit pack.
// Both the webhook and the client-triggered verify path reconcile
// against this record.
type PaymentSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Kind          PaymentSessionKind
	ProjectId     *uuid.UUID
	PackId        *string
	Credits       int
	Amount        int64 // cents
	Currency      string
	Status        PaymentSessionStatus
	SnapToken     string
	RedirectURL   string
	TransactionId *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
