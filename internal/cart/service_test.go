package cart

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

type fakeCatalog map[int64]catalog.Product

func (f fakeCatalog) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func newService(t *testing.T, cat fakeCatalog) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	return &Service{Store: &RedisStore{Redis: rdb, TTL: time.Hour}, Catalog: cat}, mr
}

func demoCatalog() fakeCatalog {
	return fakeCatalog{
		7: {ID: 7, Name: "Mantecadas", PriceCents: 1500, Stock: 10},
		8: {ID: 8, Name: "Pan Blanco", PriceCents: 2800, Stock: 3},
	}
}

func TestAdd_IncrementsAndSnapshotTotal(t *testing.T) {
	svc, _ := newService(t, demoCatalog())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", 7, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := svc.Add(ctx, "s1", 7, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c["7"] != 2 {
		t.Fatalf("expected quantity 2, got %d", c["7"])
	}
	if _, err := svc.Add(ctx, "s1", 8, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap, err := svc.Snapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Total != 2*1500+3*2800 {
		t.Fatalf("unexpected total %d", snap.Total)
	}
	if len(snap.Items) != 2 || snap.Items[0].Subtotal != 3000 {
		t.Fatalf("unexpected lines: %+v", snap.Items)
	}
}

func TestAdd_Errors_LeaveCartUnchanged(t *testing.T) {
	svc, _ := newService(t, demoCatalog())
	ctx := context.Background()
	if _, err := svc.Add(ctx, "s1", 8, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	cases := []struct {
		name string
		pid  int64
		qty  int
		want error
	}{
		{"unknown product", 99, 1, catalog.ErrNotFound},
		{"zero quantity", 8, 0, ErrInvalidQuantity},
		{"negative quantity", 8, -3, ErrInvalidQuantity},
		{"over stock", 7, 11, ErrInsufficientStock},
		{"existing plus new over stock", 8, 2, ErrInsufficientStock},
		{"quantity that would overflow", 8, math.MaxInt, ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, "s1", tc.pid, tc.qty); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			c, _ := svc.Get(ctx, "s1")
			if len(c) != 1 || c["8"] != 2 {
				t.Fatalf("cart changed: %v", c)
			}
		})
	}
}

func TestAdd_HugeQuantityKeepsCartReadable(t *testing.T) {
	svc, _ := newService(t, demoCatalog())
	ctx := context.Background()
	if _, err := svc.Add(ctx, "tok", 7, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, "tok", 7, math.MaxInt); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	c, err := svc.Get(ctx, "tok")
	if err != nil || c["7"] != 1 {
		t.Fatalf("cart should still hold 1, got %v %v", c, err)
	}
	if _, err := svc.Snapshot(ctx, "tok"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	svc, _ := newService(t, demoCatalog())
	ctx := context.Background()
	_, _ = svc.Add(ctx, "s1", 7, 2)

	c, err := svc.SetQuantity(ctx, "s1", 7, 5)
	if err != nil || c["7"] != 5 {
		t.Fatalf("expected overwrite to 5, got %v %v", c, err)
	}
	if _, err := svc.SetQuantity(ctx, "s1", 7, 11); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := svc.SetQuantity(ctx, "s1", 99, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	c, _ = svc.Get(ctx, "s1")
	if c["7"] != 5 {
		t.Fatalf("failed update changed cart: %v", c)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	svcA, _ := newService(t, demoCatalog())
	svcB, _ := newService(t, demoCatalog())
	ctx := context.Background()
	for _, svc := range []*Service{svcA, svcB} {
		_, _ = svc.Add(ctx, "s1", 7, 2)
		_, _ = svc.Add(ctx, "s1", 8, 1)
	}

	a, err := svcA.SetQuantity(ctx, "s1", 7, 0)
	if err != nil {
		t.Fatalf("set 0: %v", err)
	}
	b, err := svcB.Remove(ctx, "s1", 7)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if a.Encode() != b.Encode() {
		t.Fatalf("set 0 (%s) != remove (%s)", a.Encode(), b.Encode())
	}
}

func TestRemoveAbsentAndClear(t *testing.T) {
	svc, mr := newService(t, demoCatalog())
	ctx := context.Background()
	if _, err := svc.Remove(ctx, "s1", 7); err != nil {
		t.Fatalf("remove absent should not fail: %v", err)
	}
	_, _ = svc.Add(ctx, "s1", 7, 1)
	if !mr.Exists("cart:s1") {
		t.Fatal("expected cart key in redis")
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("cart:s1") {
		t.Fatal("expected cart key removed")
	}
	c, _ := svc.Get(ctx, "s1")
	if len(c) != 0 {
		t.Fatalf("expected empty cart, got %v", c)
	}
}

func TestSnapshot_DropsStaleProducts(t *testing.T) {
	cat := demoCatalog()
	svc, _ := newService(t, cat)
	ctx := context.Background()
	_, _ = svc.Add(ctx, "s1", 7, 2)
	_, _ = svc.Add(ctx, "s1", 8, 1)
	delete(cat, 8)

	snap, err := svc.Snapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Items) != 1 || snap.Total != 3000 {
		t.Fatalf("expected only product 7, got %+v", snap)
	}
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	svc, _ := newService(t, demoCatalog())
	ctx := context.Background()
	_, _ = svc.Add(ctx, "alice", 7, 1)
	c, _ := svc.Get(ctx, "bob")
	if len(c) != 0 {
		t.Fatalf("bob should have an empty cart, got %v", c)
	}
	if _, err := svc.Get(ctx, ""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	svc, mr := newService(t, demoCatalog())
	ctx := context.Background()
	_, _ = svc.Add(ctx, "s1", 7, 1)
	if ttl := mr.TTL("cart:s1"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}
	mr.FastForward(2 * time.Hour)
	c, _ := svc.Get(ctx, "s1")
	if len(c) != 0 {
		t.Fatalf("expected expired cart, got %v", c)
	}
}
