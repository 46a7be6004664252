package middleware

import (
	"net/http"
	"strings"

	"github.com/Bahjat/crawl-insight/internal/platform/requestid"
)

// CORS returns middleware that allows browser clients from allowedOrigin
// to call the API. Preflight OPTIONS requests are answered directly with
// 204 No Content.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	allowHeaders := strings.Join([]string{"Content-Type", requestid.Header}, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Expose-Headers", requestid.Header)
			if allowedOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
