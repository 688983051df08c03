package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payment"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPayload   = errors.New("invalid payload")
	// ErrNotRecorded means nothing was committed; the provider should redeliver.
	ErrNotRecorded = errors.New("payment not recorded")
)

type Ledger interface {
	Reconcile(ctx context.Context, c orders.Completion) (orders.Result, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Reconciler struct {
	Secret  string // kosong = signature tidak dicek
	Ledger  Ledger
	Carts   cart.Store
	Events  Publisher     // optional
	Redis   *redis.Client // optional: dedup hint + status cache
	Service string
}

type Outcome struct {
	EventID   string         `json:"event_id,omitempty"`
	Type      string         `json:"type"`
	Handled   bool           `json:"handled"`
	Duplicate bool           `json:"duplicate,omitempty"`
	Result    *orders.Result `json:"-"`
}

// Handle processes one delivery. Only signature/parse failures and an uncommitted ledger
// write return an error; everything after the ledger commit is logged and swallowed.
func (r *Reconciler) Handle(ctx context.Context, payload []byte, sigHeader string) (Outcome, error) {
	if r.Secret != "" {
		if err := payment.VerifySignature(payload, sigHeader, r.Secret); err != nil {
			log.Printf("[webhook] %v", err)
			return Outcome{}, ErrInvalidSignature
		}
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[webhook] unparseable payload: %v", err)
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if ev.Type == "" {
		return Outcome{}, fmt.Errorf("%w: missing event type", ErrInvalidPayload)
	}
	log.Printf("[webhook] received event=%s type=%s", ev.ID, ev.Type)

	out := Outcome{EventID: ev.ID, Type: ev.Type}
	if ev.Type != EventCheckoutSessionCompleted {
		return out, nil
	}

	completion, token, err := decodeCompletion(ev)
	if err != nil {
		log.Printf("[webhook] event=%s rejected: %v", ev.ID, err)
		return out, err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "webhook", ev.ID)
	if r.Redis != nil && ev.ID != "" {
		if seen, _ := redisx.Exists(ctx, r.Redis, dkey); seen {
			log.Printf("[webhook] event=%s already processed", ev.ID)
			out.Handled, out.Duplicate = true, true
			return out, nil
		}
	}

	res, err := r.Ledger.Reconcile(ctx, completion)
	if err != nil {
		log.Printf("[webhook] session=%s reconcile failed: %v", completion.SessionID, err)
		return out, fmt.Errorf("%w: %v", ErrNotRecorded, err)
	}
	out.Handled, out.Result = true, &res

	if res.Transitioned {
		r.afterPayment(ctx, ev.ID, token, completion, res)
	} else {
		out.Duplicate = true
		log.Printf("[webhook] session=%s already paid, stock untouched", completion.SessionID)
	}

	if r.Redis != nil {
		if ev.ID != "" {
			_ = r.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
		}
		_ = orders.CacheStatus(ctx, r.Redis, orders.ViewOf(res.Order))
	}
	return out, nil
}

func decodeCompletion(ev Event) (orders.Completion, string, error) {
	var sess CheckoutSession
	if len(ev.Data.Object) == 0 {
		return orders.Completion{}, "", fmt.Errorf("%w: missing data.object", ErrInvalidPayload)
	}
	if err := json.Unmarshal(ev.Data.Object, &sess); err != nil {
		return orders.Completion{}, "", fmt.Errorf("%w: session: %v", ErrInvalidPayload, err)
	}
	if sess.ID == "" {
		return orders.Completion{}, "", fmt.Errorf("%w: missing session id", ErrInvalidPayload)
	}
	if sess.AmountTotal != nil && *sess.AmountTotal < 0 {
		return orders.Completion{}, "", fmt.Errorf("%w: negative amount_total", ErrInvalidPayload)
	}

	c := orders.Completion{
		SessionID:   sess.ID,
		AmountTotal: sess.AmountTotal,
		Currency:    sess.Currency,
		Payload:     string(ev.Data.Object),
	}
	if raw, ok := sess.Metadata[checkout.MetaCartItems]; ok {
		items, err := cart.Decode(raw)
		if err != nil {
			return orders.Completion{}, "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		for _, it := range items.Items() {
			c.Items = append(c.Items, orders.ItemQty{ProductID: it.ProductID, Qty: it.Qty})
		}
	}
	return c, sess.Metadata[checkout.MetaCartToken], nil
}

func (r *Reconciler) afterPayment(ctx context.Context, eventID, token string, c orders.Completion, res orders.Result) {
	log.Printf("[webhook] order=%d session=%s marked paid amount=%d %s",
		res.Order.ID, res.Order.StripeSessionID, res.Order.AmountTotal, res.Order.Currency)
	for _, s := range res.Stock {
		log.Printf("[webhook] product=%d stock %d -> %d (requested %d)", s.ProductID, s.Before, s.After, s.Requested)
	}
	for _, pid := range res.Skipped {
		log.Printf("[webhook] product=%d no longer exists, skipped", pid)
	}

	if token != "" && r.Carts != nil {
		if err := r.Carts.Delete(ctx, token); err != nil {
			log.Printf("[webhook] clear cart for session=%s: %v", c.SessionID, err)
		}
	}

	if r.Events != nil {
		ev := orders.Envelope{
			EventID:       uuid.NewString(),
			EventType:     orders.EventOrderPaid,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      r.Service,
			TraceID:       eventID,
			CorrelationID: c.SessionID,
			Payload: kafkax.MustMarshal(orders.OrderPaidPayload{
				OrderID:     res.Order.ID,
				SessionID:   res.Order.StripeSessionID,
				AmountTotal: res.Order.AmountTotal,
				Currency:    res.Order.Currency,
				Items:       c.Items,
				Stock:       res.Stock,
			}),
		}
		r.Events.Publish(orders.PartitionKey(c.SessionID), kafkax.MustMarshal(ev),
			kafkax.EventHeaders(orders.EventOrderPaid, ev.EventVersion)...)
	}
}
