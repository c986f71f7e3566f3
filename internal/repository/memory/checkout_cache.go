package memory

import (
	"time"

	"ai-imagestudio-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// CheckoutCache keeps recently created payment sessions in memory so the
// frontend can re-open a pending checkout without hitting the database or
// the payment gateway again. Entries expire on their own; the database row
// stays the source of truth.
type CheckoutCache struct {
	cache *cache.Cache
}

func NewCheckoutCache() *CheckoutCache {
	// Snap tokens are valid for 24 hours but a stale checkout page is
	// useless long before that; purge expired items every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CheckoutCache{
		cache: c,
	}
}

func (r *CheckoutCache) Save(session *entity.PaymentSession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *CheckoutCache) Get(sessionID string) (*entity.PaymentSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.PaymentSession), true
	}
	return nil, false
}

func (r *CheckoutCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
