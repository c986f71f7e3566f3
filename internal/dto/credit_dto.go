package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditBalanceResponse struct {
	CreditsRemaining int `json:"credits_remaining"`
	CreditsTotal     int `json:"credits_total"`
}

type CreditTransactionResponse struct {
	Id          uuid.UUID `json:"id"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ReferenceId *string   `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RedeemPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

type RedeemPromoResponse struct {
	Code           string `json:"code"`
	CreditsAwarded int    `json:"credits_awarded"`
	Description    string `json:"description"`
}
