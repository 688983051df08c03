package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const sessionKey ctxKey = iota

// Session gives every visitor an opaque token in a cookie; the cart is keyed by it.
func Session(cookie string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, token)))
		})
	}
}

func SessionToken(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}
