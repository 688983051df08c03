package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront/internal/orders"
)

type OrderReader interface {
	GetBySession(ctx context.Context, sessionID string) (orders.Order, error)
}

type OrdersHandler struct {
	Orders OrderReader
	Redis  *redis.Client // optional

	// websocket status stream; zero means 1s poll, 2m window
	LivePoll time.Duration
	LiveFor  time.Duration
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders/{session_id}", h.getOrder)
	r.Get("/orders/{session_id}/live", h.live)
	r.Get("/checkout/success", h.success)
	r.Get("/checkout/cancel", h.cancel)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.status(ctx, chi.URLParam(r, "session_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// success is the landing page after payment. The webhook may not have arrived yet,
// so an unknown session is reported as pending rather than 404.
func (h *OrdersHandler) success(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("session_id")
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing session_id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.status(ctx, sid)
	if errors.Is(err, orders.ErrNotFound) {
		v, err = orders.StatusView{SessionID: sid, Status: orders.StatusPending}, nil
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Thank you for your order!",
		"order":   v,
	})
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Checkout canceled. Your cart has been kept.",
	})
}

// status: cache dulu, fallback ke DB. Pending tidak di-cache karena webhook bisa datang kapan saja.
func (h *OrdersHandler) status(ctx context.Context, sessionID string) (orders.StatusView, error) {
	if h.Redis != nil {
		if v, ok := orders.CachedStatus(ctx, h.Redis, sessionID); ok {
			return v, nil
		}
	}
	o, err := h.Orders.GetBySession(ctx, sessionID)
	if err != nil {
		return orders.StatusView{}, err
	}
	v := orders.ViewOf(o)
	if h.Redis != nil && o.Paid {
		_ = orders.CacheStatus(ctx, h.Redis, v)
	}
	return v, nil
}
