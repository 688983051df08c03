package webhook

import "encoding/json"

const EventCheckoutSessionCompleted = "checkout.session.completed"

// Event is the subset of the provider's event object we act on.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSession is data.object for checkout.session.* events.
type CheckoutSession struct {
	ID          string            `json:"id"`
	AmountTotal *int64            `json:"amount_total"`
	Currency    *string           `json:"currency"`
	Metadata    map[string]string `json:"metadata"`
}
