package middleware

import (
	"net/http"
	"strings"

	"finitefield.org/media-web/internal/requestctx"
)

// HTMX returns middleware that inspects HX-* headers and annotates the context.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := requestctx.HTMXInfo{
				Request: strings.EqualFold(r.Header.Get("HX-Request"), "true"),
				Boosted: strings.EqualFold(r.Header.Get("HX-Boosted"), "true"),
				Target:  r.Header.Get("HX-Target"),
				Trigger: r.Header.Get("HX-Trigger"),
				URL:     r.Header.Get("HX-Current-URL"),
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithHTMX(r.Context(), info)))
		})
	}
}

// RequireHTMX rejects direct navigation to fragment routes with 404.
func RequireHTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requestctx.IsHTMX(r.Context()) {
				http.NotFound(w, r)
				return
			}
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore disables caching of dynamic pages.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store, max-age=0")
			w.Header().Set("Pragma", "no-cache")
			next.ServeHTTP(w, r)
		})
	}
}
