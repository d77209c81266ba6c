package middleware

import (
	"net/http"
)

// Checker rejects a key that exceeded its budget.
type Checker interface {
	Check(key string) error
}

// RateLimit rejects requests from clients over budget. onErr renders the
// rejection so it matches the API's error format.
func RateLimit(c Checker, onErr func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := c.Check(GetClientIP(r.Context())); err != nil {
				onErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
