package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionType string

const (
	CreditTransactionPurchase   CreditTransactionType = "purchase"
	CreditTransactionPromo      CreditTransactionType = "promo"
	CreditTransactionGeneration CreditTransactionType = "generation"
	CreditTransactionRefund     CreditTransactionType = "refund"
)

type CreditBalance struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	CreditsRemaining int
	CreditsTotal     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreditTransaction is an append-only ledger row. Amount is signed:
// positive for grants, negative for spends. It is never read back to
// reconstruct the balance, only for display.
type CreditTransaction struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Amount      int
	Type        CreditTransactionType
	Description string
	ReferenceId *uuid.UUID
	CreatedAt   time.Time
}

type PromoCodeUsage struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	PromoCode      string
	CreditsAwarded int
	CreatedAt      time.Time
}
