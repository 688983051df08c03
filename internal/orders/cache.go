package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// StatusView is what GET /orders/{session_id} returns and what is cached in Redis.
type StatusView struct {
	SessionID   string `json:"stripe_session_id"`
	Status      Status `json:"status"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
}

func ViewOf(o Order) StatusView {
	return StatusView{SessionID: o.StripeSessionID, Status: o.Status(), AmountTotal: o.AmountTotal, Currency: o.Currency}
}

func CacheStatus(ctx context.Context, rdb *redis.Client, v StatusView) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, v.SessionID), b, redisx.TTLStatusCache).Err()
}

// CachedStatus returns ok=false on a miss or any cache error; callers fall back to the DB.
func CachedStatus(ctx context.Context, rdb *redis.Client, sessionID string) (StatusView, bool) {
	s, err := rdb.Get(ctx, fmt.Sprintf(redisx.KeyOrderStatus, sessionID)).Result()
	if err != nil || s == "" {
		return StatusView{}, false
	}
	var v StatusView
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return StatusView{}, false
	}
	return v, true
}
