package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payment"
)

// ErrCartTooLarge means the encoded cart does not fit one provider metadata value.
var (
	ErrEmptyCart    = errors.New("cart has no purchasable items")
	ErrCartTooLarge = errors.New("cart has too many distinct products to check out at once")
)

// MaxMetadataValue is the provider's per-value metadata limit in characters.
const MaxMetadataValue = 500

// Metadata keys carried on the hosted session and read back by the webhook.
const (
	MetaCartItems = "cart_items"
	MetaCartToken = "cart_token"
)

type Gateway interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error)
}

type Ledger interface {
	CreatePending(ctx context.Context, sessionID string, amount int64, currency string) (orders.Order, error)
}

type Initiator struct {
	Carts    cart.Store
	Catalog  cart.Catalog
	Gateway  Gateway
	Ledger   Ledger
	Currency string
	BaseURL  string
}

// Redirect is answered with 303 See Other.
type Redirect struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// Start opens a hosted checkout session for the cart owned by token.
// The local cart is not modified; it is cleared by the webhook once payment completes.
func (in *Initiator) Start(ctx context.Context, token string) (Redirect, error) {
	c, err := in.Carts.Get(ctx, token)
	if err != nil {
		return Redirect{}, err
	}
	snap, err := cart.Resolve(ctx, in.Catalog, c)
	if err != nil {
		return Redirect{}, err
	}
	if len(snap.Items) == 0 {
		return Redirect{}, ErrEmptyCart
	}

	// hanya item yang masih ada; webhook akan skip produk hilang juga
	purchasable := cart.Cart{}
	for _, l := range snap.Items {
		purchasable[cart.Key(l.Product.ID)] = l.Quantity
	}
	items := purchasable.Encode()
	if len(items) > MaxMetadataValue {
		return Redirect{}, ErrCartTooLarge
	}

	req := payment.SessionRequest{
		Currency:   in.Currency,
		SuccessURL: in.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  in.BaseURL + "/checkout/cancel",
		Metadata: map[string]string{
			MetaCartItems: items,
			MetaCartToken: token,
		},
	}
	for _, l := range snap.Items {
		req.LineItems = append(req.LineItems, payment.LineItem{
			Name:       l.Product.Name,
			UnitAmount: l.Product.PriceCents,
			Quantity:   int64(l.Quantity),
		})
	}

	sess, err := in.Gateway.CreateSession(ctx, req)
	if err != nil {
		return Redirect{}, err
	}

	// order pending dicatat sekarang; kalau gagal, webhook tetap bisa membuatnya belakangan
	if _, err := in.Ledger.CreatePending(ctx, sess.ID, snap.Total, in.Currency); err != nil {
		log.Printf("[checkout] pending order for session=%s not recorded: %v", sess.ID, err)
	}
	log.Printf("[checkout] session=%s opened lines=%d total=%d %s", sess.ID, len(req.LineItems), snap.Total, in.Currency)

	return Redirect{URL: sess.URL, SessionID: sess.ID}, nil
}
