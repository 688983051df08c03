package redisx

import "time"

const (
	// Cart per sesi: cart:{session_token} -> {"7":2,...}
	KeyCart = "cart:%s"

	// Cache status order: order_status:{stripe_session_id} -> {"status": "...", "amount_total": ...}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart        = 7 * 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
