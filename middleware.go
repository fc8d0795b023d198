package request

import (
	"context"
	"net/http"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying rc.
func WithContext(ctx context.Context, rc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the Context stored by WithContext or Middleware.
func FromContext(ctx context.Context) (*Context, bool) {
	rc, ok := ctx.Value(contextKey{}).(*Context)

	return rc, ok
}

// Middleware snapshots every request once and makes the snapshot
// available to next through FromContext. Uploaded files are removed once
// next returns.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rc := FromHTTP(req, opts...)

			defer func() {
				if err := rc.Close(); err != nil {
					rc.logger.Warn().Err(err).Msg("Failed to remove uploaded files")
				}
			}()

			next.ServeHTTP(rw, req.WithContext(WithContext(req.Context(), rc)))
		})
	}
}
