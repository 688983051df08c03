package httpx

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets a storefront frontend on another origin call the API. Credentials are allowed
// because the cart session rides on a cookie, so origins must be listed explicitly.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-API-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
