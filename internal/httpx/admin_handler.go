package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type ProductCreator interface {
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
}

// AdminHandler is mounted only when APIKey is set.
type AdminHandler struct {
	Products ProductCreator
	APIKey   string
}

// Price is a decimal string such as "25.00".
type CreateProductReq struct {
	Supplier        string `json:"supplier" validate:"required,max=120"`
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description"`
	Price           string `json:"price" validate:"required"`
	Image           string `json:"image" validate:"omitempty,max=255"`
	Brand           string `json:"brand"`
	Weight          string `json:"weight"`
	Ingredients     string `json:"ingredients"`
	Allergens       string `json:"allergens"`
	NutritionalInfo string `json:"nutritional_info"`
	Stock           int    `json:"stock" validate:"min=0"`
}

func (h *AdminHandler) Register(r chi.Router) {
	if h.APIKey == "" {
		return
	}
	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAPIKey(h.APIKey))
		r.Post("/products", h.createProduct)
	})
}

func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-API-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductReq
	if !bindJSON(w, r, &req) {
		return
	}
	price, err := catalog.ParsePrice(req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.Create(ctx, catalog.Product{
		Supplier:        req.Supplier,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      price,
		Image:           req.Image,
		Brand:           req.Brand,
		Weight:          req.Weight,
		Ingredients:     req.Ingredients,
		Allergens:       req.Allergens,
		NutritionalInfo: req.NutritionalInfo,
		Stock:           req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
