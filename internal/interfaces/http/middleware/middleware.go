// Package middleware carries the HTTP middleware shared by every service
// router.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"karmdeep-backend/pkg/api"
	"karmdeep-backend/pkg/auth"
)

// Authenticator decodes the bearer principal and stores it on the request
// context. Requests without a decodable credential get 401 before any
// handler runs.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := auth.FromBearer(r.Header.Get("Authorization"))
		if err != nil {
			api.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// Timeout bounds each request. The Lambda runtime has its own deadline;
// this keeps local serving honest too.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return chimiddleware.Timeout(d)
}
