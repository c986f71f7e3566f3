package serverutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type redeemPayload struct {
	Code string `json:"code" validate:"required"`
}

type checkoutPayload struct {
	Prompt  string `form:"prompt" validate:"required,min=3"`
	OrderId string `json:"order_id" validate:"omitempty,uuid"`
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(&redeemPayload{Code: "ALEX10"})
	assert.NoError(t, err)
}

func TestValidateRequestMissingRequired(t *testing.T) {
	err := ValidateRequest(&redeemPayload{})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields[0], "Code")
	assert.Contains(t, verr.Fields[0], "required")
}

func TestValidateRequestCollectsAllFields(t *testing.T) {
	err := ValidateRequest(&checkoutPayload{Prompt: "ab", OrderId: "not-a-uuid"})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Error(), "validation failed")
}

func TestResponseEnvelopes(t *testing.T) {
	ok := SuccessResponse("created", map[string]string{"id": "1"})
	assert.True(t, ok.Success)
	assert.Equal(t, "created", ok.Message)

	fail := ErrorResponse(404, "not found")
	assert.False(t, fail.Success)
	assert.Equal(t, 404, fail.Code)
	assert.Equal(t, "not found", fail.Message)
}
