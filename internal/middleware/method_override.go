package middleware

import (
	"net/http"
	"strings"
)

const MethodOverrideHeader = "X-HTTP-Method-Override"

// MethodOverride lets clients that can only POST send PATCH requests. It
// wraps the whole router because gin picks the route before any gin
// middleware runs. Only POST -> PATCH is honoured.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.EqualFold(r.Header.Get(MethodOverrideHeader), http.MethodPatch) {
			r.Method = http.MethodPatch
			r.Header.Del(MethodOverrideHeader)
		}
		next.ServeHTTP(w, r)
	})
}
