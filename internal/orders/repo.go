package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, stripe_session_id, amount_total, currency, paid, COALESCE(payload, ''), created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.StripeSessionID, &o.AmountTotal, &o.Currency, &o.Paid, &o.Payload, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// CreatePending records a checkout session before payment. Idempotent via stripe_session_id:
// an existing row (pending or paid) is returned untouched.
func (r *Repo) CreatePending(ctx context.Context, sessionID string, amount int64, currency string) (Order, error) {
	if _, err := r.DB.Exec(ctx, `
		INSERT INTO orders(stripe_session_id, amount_total, currency, paid)
		VALUES ($1, $2, $3, false)
		ON CONFLICT (stripe_session_id) DO NOTHING`, sessionID, amount, currency); err != nil {
		return Order{}, err
	}
	return r.GetBySession(ctx, sessionID)
}

func (r *Repo) GetBySession(ctx context.Context, sessionID string) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE stripe_session_id=$1`, sessionID))
}

// Reconcile upserts the order as paid and, only on the pending -> paid transition,
// decrements stock for c.Items. Everything runs in one transaction; the order row is
// locked (FOR UPDATE) so concurrent duplicates serialize and the loser sees paid=true.
func (r *Repo) Reconcile(ctx context.Context, c Completion) (Result, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// insert-if-absent dulu supaya selalu ada baris yang bisa di-lock
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(stripe_session_id, amount_total, currency, paid)
		VALUES ($1, COALESCE($2::bigint, 0), COALESCE($3::text, 'usd'), false)
		ON CONFLICT (stripe_session_id) DO NOTHING`, c.SessionID, c.AmountTotal, c.Currency); err != nil {
		return Result{}, err
	}

	var (
		orderID int64
		wasPaid bool
	)
	if err := tx.QueryRow(ctx, `SELECT id, paid FROM orders WHERE stripe_session_id=$1 FOR UPDATE`, c.SessionID).
		Scan(&orderID, &wasPaid); err != nil {
		return Result{}, err
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET paid = true,
		    amount_total = COALESCE($2::bigint, amount_total),
		    currency = COALESCE($3::text, currency),
		    payload = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, orderID, c.AmountTotal, c.Currency, c.Payload))
	if err != nil {
		return Result{}, err
	}

	res := Result{Order: order, Transitioned: CanTransition(statusOf(wasPaid), StatusPaid)}
	if res.Transitioned {
		res.Stock, res.Skipped, err = decrementStock(ctx, tx, c.Items)
		if err != nil {
			return Result{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}
	return res, nil
}
