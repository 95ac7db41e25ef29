// internal/requestinfo/middleware.go
//
// Enrich middleware: parse once per request, stash in context.

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Enrich parses the user agent and client IP and stores a *RequestInfo in
// the request context for downstream handlers.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		info := &RequestInfo{
			UA:        parseUA(r.UserAgent()),
			Geo:       lookupGeo(net.ParseIP(host)),
			URL:       r.URL,
			Timestamp: time.Now(),
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
