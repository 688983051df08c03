package httpx

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/webhook"
)

type CheckoutStarter interface {
	Start(ctx context.Context, token string) (checkout.Redirect, error)
}

// CheckoutHandler serves POST /checkout. It must sit behind Session.
type CheckoutHandler struct {
	Checkout CheckoutStarter
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Post("/checkout", h.start)
}

func (h *CheckoutHandler) start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rd, err := h.Checkout.Start(ctx, SessionToken(r.Context()))
	if err != nil {
		log.Printf("[checkout] start: %v", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Location", rd.URL)
	writeJSON(w, http.StatusSeeOther, rd)
}

type WebhookHandler interface {
	Handle(ctx context.Context, payload []byte, sigHeader string) (webhook.Outcome, error)
}

// WebhookRoute receives provider deliveries. The body is read raw because the signature covers it byte for byte.
type WebhookRoute struct {
	Reconciler WebhookHandler
}

func (h *WebhookRoute) Register(r chi.Router) {
	r.Post("/webhook", h.receive)
}

func (h *WebhookRoute) receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	out, err := h.Reconciler.Handle(ctx, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
