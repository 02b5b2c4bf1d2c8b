package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ggoodman/flash-go/internal/logctx"
	"github.com/google/uuid"
)

const (
	DefaultCookieName = "flash_session"
	DefaultTTL        = 2 * time.Hour
)

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	cookieName string
	cookiePath string
	secure     bool
	ttl        time.Duration
	signer     Signer
	logger     *slog.Logger
}

// WithCookieName sets the name of the session cookie. Default: flash_session.
func WithCookieName(name string) Option {
	return func(c *managerConfig) { c.cookieName = name }
}

// WithCookiePath sets the Path attribute of the session cookie. Default: "/".
func WithCookiePath(path string) Option {
	return func(c *managerConfig) { c.cookiePath = path }
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(c *managerConfig) { c.secure = secure }
}

// WithTTL sets the sliding lifetime of a session. Each completed request
// extends it by ttl.
func WithTTL(ttl time.Duration) Option {
	return func(c *managerConfig) { c.ttl = ttl }
}

// WithSigner signs session ids before they are written to the cookie. Without
// a signer the raw id is used as the cookie value.
func WithSigner(s Signer) Option {
	return func(c *managerConfig) { c.signer = s }
}

// WithLogger sets the logger used by the manager. If not provided,
// slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *managerConfig) { c.logger = l }
}

// Manager loads a Session at the start of every request, exposes it through
// the request context, and persists it to the Host once the request completes.
type Manager struct {
	host       Host
	cookieName string
	cookiePath string
	secure     bool
	ttl        time.Duration
	signer     Signer
	log        *slog.Logger
}

func NewManager(host Host, opts ...Option) (*Manager, error) {
	if host == nil {
		return nil, ErrHostRequired
	}

	cfg := &managerConfig{
		cookieName: DefaultCookieName,
		cookiePath: "/",
		ttl:        DefaultTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cookieName == "" {
		return nil, fmt.Errorf("cookie name must not be empty")
	}

	return &Manager{
		host:       host,
		cookieName: cfg.cookieName,
		cookiePath: cfg.cookiePath,
		secure:     cfg.secure,
		ttl:        cfg.ttl,
		signer:     cfg.signer,
		log:        slog.New(logctx.Handler{Handler: cfg.logger.Handler()}),
	}, nil
}

// Load returns the stored session for id, or a fresh session with a newly
// generated id when id is empty, unknown or expired.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return New(uuid.NewString()), nil
	}
	data, err := m.host.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return New(uuid.NewString()), nil
	}
	return unmarshal(id, data)
}

// Save ages flash data and writes the session back to the host. When the
// session was invalidated, the record under its previous id is destroyed
// first.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if retired := s.takeRetiredID(); retired != "" {
		if err := m.host.Destroy(ctx, retired); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}

	s.AgeFlashData()

	data, err := s.marshal()
	if err != nil {
		return err
	}
	if err := m.host.Save(ctx, s.ID(), data, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Middleware wraps next so that every request carries a Session retrievable
// with FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{
			RequestID:  uuid.NewString(),
			Method:     r.Method,
			UserAgent:  r.UserAgent(),
			RemoteAddr: r.RemoteAddr,
			Path:       r.URL.Path,
		})

		sess, err := m.Load(ctx, m.sessionIDFromRequest(ctx, r))
		if errors.Is(err, ErrCorruptRecord) {
			m.log.WarnContext(ctx, "session.record.corrupt", slog.String("err", err.Error()))
			sess, err = New(uuid.NewString()), nil
		}
		if err != nil {
			m.log.ErrorContext(ctx, "session.load.fail", slog.String("err", err.Error()))
			writeJSONError(w, http.StatusInternalServerError, "session unavailable")
			return
		}

		ctx = logctx.WithSessionData(ctx, &logctx.SessionData{SessionID: shortID(sess.ID()), New: sess.IsNew()})

		cw := &cookieWriter{ResponseWriter: w, m: m, ctx: ctx, sess: sess}
		next.ServeHTTP(cw, r.WithContext(NewContext(ctx, sess)))
		// Handlers that write nothing still get the cookie before the
		// server sends the implicit 200.
		cw.setCookie()

		if err := m.Save(context.WithoutCancel(ctx), sess); err != nil {
			m.log.ErrorContext(ctx, "session.save.fail", slog.String("err", err.Error()))
			return
		}
		m.log.DebugContext(ctx, "session.save.ok")
	})
}

// cookieWriter sets the session cookie just before the response header is
// sent, so it carries the id the session holds at that point, including one
// rotated by Invalidate.
type cookieWriter struct {
	http.ResponseWriter
	m    *Manager
	ctx  context.Context
	sess *Session
	done bool
}

func (w *cookieWriter) setCookie() {
	if w.done {
		return
	}
	w.done = true
	if err := w.m.writeCookie(w.ResponseWriter, w.sess); err != nil {
		w.m.log.ErrorContext(w.ctx, "session.cookie.sign.fail", slog.String("err", err.Error()))
	}
}

func (w *cookieWriter) WriteHeader(code int) {
	w.setCookie()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.setCookie()
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *cookieWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (m *Manager) sessionIDFromRequest(ctx context.Context, r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if m.signer == nil {
		return c.Value
	}
	payload, kid, err := m.signer.Verify(c.Value)
	if err != nil {
		m.log.WarnContext(ctx, "session.cookie.invalid", slog.String("kid", kid), slog.String("err", err.Error()))
		return ""
	}
	return string(payload)
}

func (m *Manager) writeCookie(w http.ResponseWriter, s *Session) error {
	value := s.ID()
	if m.signer != nil {
		signed, err := m.signer.Sign([]byte(value))
		if err != nil {
			return err
		}
		value = signed
	}

	c := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     m.cookiePath,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		c.MaxAge = int(m.ttl.Seconds())
	}
	http.SetCookie(w, c)
	return nil
}

// writeJSONError emits a minimal JSON body for failures that happen before
// the wrapped handler runs. Shape: {"error":{"code":<status>,"message":"<reason>"}}
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
