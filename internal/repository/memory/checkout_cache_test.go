package memory

import (
	"testing"

	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutCacheRoundTrip(t *testing.T) {
	c := NewCheckoutCache()

	session := &entity.PaymentSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Kind:      entity.PaymentSessionCreditPack,
		Status:    entity.PaymentSessionPending,
		SnapToken: "snap-token",
	}
	c.Save(session)

	got, found := c.Get(session.Id.String())
	assert.True(t, found)
	assert.Equal(t, session.SnapToken, got.SnapToken)

	c.Delete(session.Id.String())
	_, found = c.Get(session.Id.String())
	assert.False(t, found)
}

func TestCheckoutCacheMiss(t *testing.T) {
	c := NewCheckoutCache()

	_, found := c.Get(uuid.New().String())
	assert.False(t, found)
}
