// Package csrf issues and checks the tokens that guard state changing
// console requests. A token is bound to a principal and expires.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/serviceerr"
)

const (
	HeaderName    = "X-CSRF-Token"
	DefaultMaxAge = 12 * time.Hour

	keyLength = 32
)

type Option func(*Protector)

func WithMaxAge(d time.Duration) Option {
	return func(p *Protector) {
		p.maxAge = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Protector) {
		p.now = now
	}
}

type Protector struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// New returns a Protector signing with key. A random key is generated
// when key is empty, so tokens do not survive a restart.
func New(key []byte, opts ...Option) *Protector {
	if len(key) == 0 {
		key = make([]byte, keyLength)
		_, _ = rand.Read(key)
	}

	p := &Protector{
		key:    key,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func formMessage(binding, randValue string, issuedAt int64) []byte {
	return fmt.Appendf(nil, "%d!%s!%d!%s!%d", len(binding), binding, len(randValue), randValue, issuedAt)
}

func (p *Protector) sign(binding, randValue string, issuedAt int64) []byte {
	hash := hmac.New(sha256.New, p.key)
	hash.Write(formMessage(binding, randValue, issuedAt))

	return hash.Sum(nil)
}

// Token issues a token for binding, typically the user id of the session.
func (p *Protector) Token(binding string) string {
	buf := make([]byte, keyLength)
	_, _ = rand.Read(buf)
	randValue := hex.EncodeToString(buf)
	issuedAt := p.now().Unix()

	return hex.EncodeToString(p.sign(binding, randValue, issuedAt)) + "." + randValue + "." + strconv.FormatInt(issuedAt, 10)
}

func (p *Protector) Valid(token, binding string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}

	received, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}

	issuedAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return false
	}

	age := p.now().Sub(time.Unix(issuedAt, 0))
	if age < -time.Minute || (p.maxAge > 0 && age > p.maxAge) {
		return false
	}

	return hmac.Equal(received, p.sign(binding, parts[1], issuedAt))
}

// Middleware rejects unsafe requests that do not carry a valid token for
// the binding of the request.
func (p *Protector) Middleware(binding func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !p.Valid(r.Header.Get(HeaderName), binding(r)) {
				slogctx.Warn(r.Context(), "Rejected request without a valid CSRF token", "method", r.Method, "path", r.URL.Path)
				writeRejection(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeRejection answers with the console's JSON error model.
func writeRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(serviceerr.ErrAccessDenied.HTTPStatus())

	_ = json.NewEncoder(w).Encode(struct {
		Error            serviceerr.Code `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}{
		Error:            serviceerr.CodeAccessDenied,
		ErrorDescription: "invalid CSRF token",
	})
}
