package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type ProductReader interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// StoreHandler serves the catalog and the session cart. Routes must sit behind Session.
type StoreHandler struct {
	Products ProductReader
	Carts    *cart.Service
}

type AddItemReq struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1,max=10000"`
}

// Quantity <= 0 removes the line.
type SetItemReq struct {
	Quantity *int `json:"quantity" validate:"required,max=10000"`
}

func (h *StoreHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{id}", h.setItem)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.GroupBySupplier(ps))
}

func (h *StoreHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Products.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StoreHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	h.writeSnapshot(ctx, w, SessionToken(r.Context()))
}

func (h *StoreHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if !bindJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token := SessionToken(r.Context())
	if _, err := h.Carts.Add(ctx, token, req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(ctx, w, token)
}

func (h *StoreHandler) setItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req SetItemReq
	if !bindJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token := SessionToken(r.Context())
	if _, err := h.Carts.SetQuantity(ctx, token, id, *req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(ctx, w, token)
}

func (h *StoreHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token := SessionToken(r.Context())
	if _, err := h.Carts.Remove(ctx, token, id); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(ctx, w, token)
}

func (h *StoreHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Carts.Clear(ctx, SessionToken(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) writeSnapshot(ctx context.Context, w http.ResponseWriter, token string) {
	snap, err := h.Carts.Snapshot(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
