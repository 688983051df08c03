package orders

import "time"

// Order is one ledger row per hosted checkout session.
type Order struct {
	ID              int64     `json:"id"`
	StripeSessionID string    `json:"stripe_session_id"`
	AmountTotal     int64     `json:"amount_total"`
	Currency        string    `json:"currency"`
	Paid            bool      `json:"paid"`
	Payload         string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (o Order) Status() Status { return statusOf(o.Paid) }

// Completion is what a completed checkout session tells the ledger.
// Nil AmountTotal/Currency keep the stored values.
type Completion struct {
	SessionID   string
	AmountTotal *int64
	Currency    *string
	Payload     string
	Items       []ItemQty
}

// StockChange records one applied decrement.
type StockChange struct {
	ProductID int64 `json:"product_id"`
	Requested int   `json:"requested"`
	Before    int   `json:"before"`
	After     int   `json:"after"`
}

// Result of Reconcile. Transitioned is true only for the call that flipped paid false -> true;
// Stock and Skipped are empty otherwise.
type Result struct {
	Order        Order
	Transitioned bool
	Stock        []StockChange
	Skipped      []int64 // product sudah tidak ada
}
