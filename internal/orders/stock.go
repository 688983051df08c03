package orders

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
)

// decrementStock mengurangi stok per product dengan clamp di nol.
// Produk di-update berurutan berdasarkan id supaya dua transaksi dengan set produk
// yang beririsan tidak saling deadlock.
func decrementStock(ctx context.Context, tx pgx.Tx, items []ItemQty) (changes []StockChange, skipped []int64, err error) {
	merged := MergeItems(items)
	for _, it := range merged {
		var before int
		err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, it.ProductID).Scan(&before)
		if errors.Is(err, pgx.ErrNoRows) {
			skipped = append(skipped, it.ProductID)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		after := ClampedDecrement(before, it.Qty)
		if _, err := tx.Exec(ctx, `UPDATE products SET stock=$2, updated_at=now() WHERE id=$1`, it.ProductID, after); err != nil {
			return nil, nil, err
		}
		changes = append(changes, StockChange{ProductID: it.ProductID, Requested: it.Qty, Before: before, After: after})
	}
	return changes, skipped, nil
}

// ClampedDecrement never returns a negative stock.
func ClampedDecrement(stock, qty int) int {
	if qty <= 0 {
		return stock
	}
	if qty >= stock {
		return 0
	}
	return stock - qty
}

// MergeItems sums quantities per product and sorts by product id. Non-positive quantities are dropped.
func MergeItems(items []ItemQty) []ItemQty {
	sum := map[int64]int{}
	for _, it := range items {
		if it.Qty > 0 {
			sum[it.ProductID] += it.Qty
		}
	}
	out := make([]ItemQty, 0, len(sum))
	for id, q := range sum {
		out = append(out, ItemQty{ProductID: id, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
