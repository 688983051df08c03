package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type SessionRequest struct {
	LineItems  []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is the provider-hosted payment page that was opened.
type Session struct {
	ID  string
	URL string
}

// Stripe opens hosted checkout sessions.
type Stripe struct {
	sessions *session.Client
}

func NewStripe(secretKey string) *Stripe {
	return &Stripe{sessions: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}}
}

func (s *Stripe) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	if sess.URL == "" {
		return Session{}, errors.New("stripe returned empty checkout url")
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

var ErrSignature = errors.New("webhook signature verification failed")

// VerifySignature checks the Stripe-Signature header (HMAC-SHA256, 5 minute tolerance).
func VerifySignature(payload []byte, header, secret string) error {
	if err := webhook.ValidatePayload(payload, header, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return nil
}
