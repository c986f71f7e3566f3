package dto

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutRequest is the multipart form for a pay-per-generation checkout:
// the images arrive as files, prompt and model as plain fields.
type CheckoutRequest struct {
	Prompt    string `form:"prompt" validate:"required,min=3"`
	ModelName string `form:"model" validate:"omitempty"`
}

type CheckoutResponse struct {
	SessionId       uuid.UUID `json:"session_id"`
	ProjectId       uuid.UUID `json:"project_id"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

type CreditCheckoutRequest struct {
	PackId string `json:"pack_id" validate:"required"`
}

type CreditCheckoutResponse struct {
	SessionId       uuid.UUID `json:"session_id"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

type CreditPackResponse struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Price   int64  `json:"price"`
	Popular bool   `json:"popular"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	TransactionId     string `json:"transaction_id"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}

type VerifyPaymentRequest struct {
	OrderId string `json:"order_id" validate:"required,uuid"`
}

type PaymentSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	ProjectId *uuid.UUID `json:"project_id,omitempty"`
	PackId    *string    `json:"pack_id,omitempty"`
	Credits   int        `json:"credits,omitempty"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
