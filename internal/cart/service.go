package cart

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Catalog is the product lookup the cart needs.
type Catalog interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

type Service struct {
	Store   Store
	Catalog Catalog
}

type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal int64           `json:"subtotal"`
}

type Snapshot struct {
	Items []Line `json:"items"`
	Total int64  `json:"total"`
}

// Add increments the quantity of productID. The resulting quantity must not exceed stock.
// On any error the stored cart is left untouched.
func (s *Service) Add(ctx context.Context, token string, productID int64, qty int) (Cart, error) {
	p, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	c, err := s.Store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	k := Key(productID)
	// dibandingkan tanpa menjumlah supaya qty besar tidak overflow
	if qty > p.Stock-c[k] {
		return nil, ErrInsufficientStock
	}
	c[k] += qty
	if err := s.Store.Save(ctx, token, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetQuantity overwrites the quantity; qty <= 0 removes the entry.
func (s *Service) SetQuantity(ctx context.Context, token string, productID int64, qty int) (Cart, error) {
	if qty <= 0 {
		return s.Remove(ctx, token, productID)
	}
	p, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, ErrInsufficientStock
	}
	c, err := s.Store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	c[Key(productID)] = qty
	if err := s.Store.Save(ctx, token, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, token string, productID int64) (Cart, error) {
	c, err := s.Store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	k := Key(productID)
	if _, ok := c[k]; !ok {
		return c, nil
	}
	delete(c, k)
	if err := s.Store.Save(ctx, token, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, token string) error {
	return s.Store.Delete(ctx, token)
}

func (s *Service) Get(ctx context.Context, token string) (Cart, error) {
	return s.Store.Get(ctx, token)
}

// Snapshot resolves the stored cart against the catalog.
func (s *Service) Snapshot(ctx context.Context, token string) (Snapshot, error) {
	c, err := s.Store.Get(ctx, token)
	if err != nil {
		return Snapshot{}, err
	}
	return Resolve(ctx, s.Catalog, c)
}

// Resolve drops entries whose product no longer exists (stale references are tolerated)
// and sums subtotals in minor units.
func Resolve(ctx context.Context, cat Catalog, c Cart) (Snapshot, error) {
	snap := Snapshot{Items: []Line{}}
	for _, it := range c.Items() {
		if it.Qty < 1 {
			continue
		}
		p, err := cat.Get(ctx, it.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return Snapshot{}, err
		}
		sub := p.PriceCents * int64(it.Qty)
		snap.Items = append(snap.Items, Line{Product: p, Quantity: it.Qty, Subtotal: sub})
		snap.Total += sub
	}
	return snap, nil
}
