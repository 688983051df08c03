package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payment"
)

// --- fakes ---

type memStore map[string]cart.Cart

func (m memStore) Get(ctx context.Context, token string) (cart.Cart, error) {
	c := cart.Cart{}
	for k, v := range m[token] {
		c[k] = v
	}
	return c, nil
}
func (m memStore) Save(ctx context.Context, token string, c cart.Cart) error { m[token] = c; return nil }
func (m memStore) Delete(ctx context.Context, token string) error { delete(m, token); return nil }

type fakeCatalog map[int64]catalog.Product

func (f fakeCatalog) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type fakeGateway struct {
	calls []payment.SessionRequest
	err   error
}

func (g *fakeGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return payment.Session{}, g.err
	}
	return payment.Session{ID: "cs_test_1", URL: "https://checkout.stripe.test/pay/cs_test_1"}, nil
}

type fakeLedger struct {
	pending map[string]orders.Order
	err     error
}

func (l *fakeLedger) CreatePending(ctx context.Context, sessionID string, amount int64, currency string) (orders.Order, error) {
	if l.err != nil {
		return orders.Order{}, l.err
	}
	o := orders.Order{StripeSessionID: sessionID, AmountTotal: amount, Currency: currency}
	l.pending[sessionID] = o
	return o, nil
}

func newInitiator(store memStore) (*Initiator, *fakeGateway, *fakeLedger) {
	gw := &fakeGateway{}
	led := &fakeLedger{pending: map[string]orders.Order{}}
	return &Initiator{
		Carts: store,
		Catalog: fakeCatalog{
			7: {ID: 7, Name: "Mantecadas Vainilla", PriceCents: 1500, Stock: 10},
		},
		Gateway:  gw,
		Ledger:   led,
		Currency: "usd",
		BaseURL:  "http://shop.test",
	}, gw, led
}

// --- tests ---

func TestStart_OpensSessionWithCartMetadata(t *testing.T) {
	store := memStore{"sid-1": {"7": 2}}
	in, gw, led := newInitiator(store)

	r, err := in.Start(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.URL != "https://checkout.stripe.test/pay/cs_test_1" || r.SessionID != "cs_test_1" {
		t.Fatalf("unexpected redirect: %+v", r)
	}
	if len(gw.calls) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gw.calls))
	}
	req := gw.calls[0]
	if len(req.LineItems) != 1 || req.LineItems[0].UnitAmount != 1500 || req.LineItems[0].Quantity != 2 {
		t.Fatalf("unexpected line items: %+v", req.LineItems)
	}
	if req.Metadata[MetaCartItems] != `{"7":2}` || req.Metadata[MetaCartToken] != "sid-1" {
		t.Fatalf("unexpected metadata: %v", req.Metadata)
	}
	if !strings.HasPrefix(req.SuccessURL, "http://shop.test/checkout/success") || req.CancelURL != "http://shop.test/checkout/cancel" {
		t.Fatalf("unexpected redirects: %s %s", req.SuccessURL, req.CancelURL)
	}
	o, ok := led.pending["cs_test_1"]
	if !ok || o.AmountTotal != 3000 || o.Paid {
		t.Fatalf("expected pending order of 3000, got %+v", o)
	}
	if store["sid-1"]["7"] != 2 {
		t.Fatal("checkout must not modify the cart")
	}
}

func TestStart_EmptyCart(t *testing.T) {
	cases := map[string]memStore{
		"no cart":        {},
		"only stale ids": {"sid-1": {"99": 1}},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			in, gw, led := newInitiator(store)
			if _, err := in.Start(context.Background(), "sid-1"); !errors.Is(err, ErrEmptyCart) {
				t.Fatalf("expected ErrEmptyCart, got %v", err)
			}
			if len(gw.calls) != 0 || len(led.pending) != 0 {
				t.Fatal("no external session or order may be created")
			}
		})
	}
}

func TestStart_CartTooLargeForMetadata(t *testing.T) {
	cat := fakeCatalog{}
	big := cart.Cart{}
	for id := int64(1000); id < 1060; id++ {
		cat[id] = catalog.Product{ID: id, Name: "Galletas", PriceCents: 100, Stock: 5000}
		big[cart.Key(id)] = 1000
	}
	in, gw, led := newInitiator(memStore{"sid-1": big})
	in.Catalog = cat

	if _, err := in.Start(context.Background(), "sid-1"); !errors.Is(err, ErrCartTooLarge) {
		t.Fatalf("expected ErrCartTooLarge, got %v", err)
	}
	if len(gw.calls) != 0 || len(led.pending) != 0 {
		t.Fatal("no external session or order may be created")
	}
}

func TestStart_MetadataSkipsStaleProducts(t *testing.T) {
	in, gw, _ := newInitiator(memStore{"sid-1": {"7": 2, "99": 4}})
	if _, err := in.Start(context.Background(), "sid-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gw.calls[0].Metadata[MetaCartItems]; got != `{"7":2}` {
		t.Fatalf("stale product leaked into metadata: %s", got)
	}
}

func TestStart_GatewayFailure(t *testing.T) {
	in, gw, led := newInitiator(memStore{"sid-1": {"7": 1}})
	gw.err = errors.New("stripe down")
	if _, err := in.Start(context.Background(), "sid-1"); err == nil {
		t.Fatal("expected gateway error")
	}
	if len(led.pending) != 0 {
		t.Fatal("no pending order without a session")
	}
}

func TestStart_LedgerFailureStillRedirects(t *testing.T) {
	in, _, led := newInitiator(memStore{"sid-1": {"7": 1}})
	led.err = errors.New("db down")
	r, err := in.Start(context.Background(), "sid-1")
	if err != nil || r.URL == "" {
		t.Fatalf("expected redirect despite ledger failure, got %+v %v", r, err)
	}
}
