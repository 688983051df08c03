package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPaid = "OrderPaid"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // stripe session id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type OrderPaidPayload struct {
	OrderID     int64         `json:"order_id"`
	SessionID   string        `json:"stripe_session_id"`
	AmountTotal int64         `json:"amount_total"`
	Currency    string        `json:"currency"`
	Items       []ItemQty     `json:"items"`
	Stock       []StockChange `json:"stock,omitempty"`
}
