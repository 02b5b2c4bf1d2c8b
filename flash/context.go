package flash

import (
	"context"
	"net/http"

	"github.com/ggoodman/flash-go/sessions"
)

type flashKey struct{}

// NewContext returns a copy of ctx carrying f.
func NewContext(ctx context.Context, f *Flash) context.Context {
	return context.WithValue(ctx, flashKey{}, f)
}

// From returns the request's messenger. A non-empty message is set at the
// default level before returning, so
//
//	flash.From(ctx, "Saved.")
//
// is shorthand for flash.From(ctx).Default("Saved."). Calls within one
// request share the same messenger, including any customized keys and
// defaults.
//
// When ctx carries no messenger, From returns one backed by a detached
// session; its writes are never persisted.
func From(ctx context.Context, message ...string) *Flash {
	f, ok := ctx.Value(flashKey{}).(*Flash)
	if !ok || f == nil {
		f = New(sessions.New(""))
	}
	if len(message) > 0 && message[0] != "" {
		f.Default(message[0])
	}
	return f
}

// Middleware installs a messenger over the request's session. It must run
// inside sessions.Manager.Middleware; requests without a session pass through
// untouched. Unless opts contains WithLocale, default messages follow the
// request's Accept-Language header.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessions.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			reqOpts := append([]Option{WithLocale(negotiateLocale(r))}, opts...)
			f := New(sess, reqOpts...)
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), f)))
		})
	}
}
