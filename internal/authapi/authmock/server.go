// Package authmock runs an in-process fake of the console backend: the
// auth exchanges, the profile endpoint and the API key endpoints.
package authmock

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL = 15 * time.Minute

	refreshCookie = "refresh_token"
)

type User struct {
	Email     string
	Password  string
	Number    string
	Role      string
	FirstName string
	LastName  string
}

type APIKey struct {
	Number     string     `json:"number"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AccessClaims are the claims of the access tokens the backend issues.
type AccessClaims struct {
	UserNumber string `json:"user_number"`
	UserRole   string `json:"user_role"`
	Type       string `json:"type"`
	jwt.RegisteredClaims
}

type Option func(*Server)

func WithUser(u User) Option {
	return func(s *Server) {
		s.users[strings.ToLower(u.Email)] = u
	}
}

func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithRelativeExpiry makes expires_in a lifetime in seconds instead of the
// unix timestamp the backend sends.
func WithRelativeExpiry() Option {
	return func(s *Server) {
		s.relativeExpiry = true
	}
}

// WithIdentityOnRefresh adds user_number and role to refresh responses.
func WithIdentityOnRefresh() Option {
	return func(s *Server) {
		s.identityOnRefresh = true
	}
}

// Server is a fake backend. Tokens are RS256 signed with a key generated
// per server.
type Server struct {
	*httptest.Server

	key               *rsa.PrivateKey
	now               func() time.Time
	accessTTL         time.Duration
	relativeExpiry    bool
	identityOnRefresh bool

	mu       sync.Mutex
	users    map[string]User
	sessions map[string]string
	keys     map[string][]APIKey
	calls    map[string]int
	failures map[string]int
	gates    map[string]chan struct{}
}

// NewServer starts a fake backend which is closed with tb.
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("generating signing key: %v", err)
	}

	s := &Server{
		key:       key,
		now:       time.Now,
		accessTTL: DefaultAccessTTL,
		users:     make(map[string]User),
		sessions:  make(map[string]string),
		keys:      make(map[string][]APIKey),
		calls:     make(map[string]int),
		failures:  make(map[string]int),
		gates:     make(map[string]chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/refresh", s.refresh)
	mux.HandleFunc("POST /auth/logout", s.logout)
	mux.HandleFunc("GET /v1/auth/profile", s.authenticated(s.profile))
	mux.HandleFunc("GET /v1/api-keys", s.authenticated(s.listAPIKeys))
	mux.HandleFunc("POST /v1/api-keys", s.authenticated(s.createAPIKey))
	mux.HandleFunc("DELETE /v1/api-keys/{number}", s.authenticated(s.deleteAPIKey))

	s.Server = httptest.NewServer(s.intercept(mux))
	tb.Cleanup(s.Close)

	return s
}

// FailNext makes the next request to path answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[path] = status
}

// Hold blocks every request to path until the returned release is called.
func (s *Server) Hold(path string) (release func()) {
	gate := make(chan struct{})

	s.mu.Lock()
	s.gates[path] = gate
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, path)
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns the number of requests received for path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[path]
}

// Sessions returns the number of live refresh credentials.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// AddAPIKey seeds an API key for the user with the given number.
func (s *Server) AddAPIKey(userNumber string, key APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[userNumber] = append(s.keys[userNumber], key)
}

// AccessToken mints an access token for u, expiring after the access TTL.
func (s *Server) AccessToken(u User) (string, time.Time, error) {
	expiry := s.now().Add(s.accessTTL)
	claims := AccessClaims{
		UserNumber: u.Number,
		UserRole:   u.Role,
		Type:       "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			Subject:   u.Number,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}

	return token, expiry, nil
}

func (s *Server) parseAccessToken(raw string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(raw, &AccessClaims{}, func(*jwt.Token) (any, error) {
		return &s.key.PublicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.Type != "access" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		status, fail := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		gate := s.gates[r.URL.Path]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Failed to process input"})
		return
	}

	s.mu.Lock()
	user, ok := s.users[strings.ToLower(strings.TrimSpace(payload.Email))]
	s.mu.Unlock()

	if !ok || user.Password != payload.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		return
	}

	access, expiry, err := s.AccessToken(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid token details"})
		return
	}

	refresh := s.startSession(user.Number)
	s.setRefreshCookie(w, refresh)

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"user_number":   user.Number,
		"role":          user.Role,
		"expires_in":    s.expiresIn(expiry),
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing refresh token"})
		return
	}

	s.mu.Lock()
	number, ok := s.sessions[cookie.Value]
	if ok {
		delete(s.sessions, cookie.Value)
	}
	user, found := s.userByNumber(number)
	s.mu.Unlock()

	if !ok || !found {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
		return
	}

	access, expiry, err := s.AccessToken(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid token details"})
		return
	}

	s.setRefreshCookie(w, s.startSession(user.Number))

	body := map[string]any{
		"access_token": access,
		"expires_in":   s.expiresIn(expiry),
	}
	if s.identityOnRefresh {
		body["user_number"] = user.Number
		body["role"] = user.Role
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}

	for _, name := range []string{"access_token", refreshCookie, "logged_in"} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

type authenticatedHandler func(w http.ResponseWriter, r *http.Request, user User)

// authenticated requires a valid bearer token and a User-Number header
// naming its subject.
func (s *Server) authenticated(next authenticatedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		claims, err := s.parseAccessToken(raw)
		if err != nil || claims.UserNumber != r.Header.Get("User-Number") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		s.mu.Lock()
		user, found := s.userByNumber(claims.UserNumber)
		s.mu.Unlock()

		if !found {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		next(w, r, user)
	}
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, user User) {
	writeJSON(w, http.StatusOK, map[string]any{"data": Profile{
		Email:     user.Email,
		Name:      user.FirstName + " " + user.LastName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}})
}

func (s *Server) listAPIKeys(w http.ResponseWriter, _ *http.Request, user User) {
	s.mu.Lock()
	keys := append([]APIKey{}, s.keys[user.Number]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) createAPIKey(w http.ResponseWriter, r *http.Request, user User) {
	var req struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Key: 'CreateAPIKeyRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"})
		return
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate API key"})
		return
	}

	key := APIKey{
		Number:    uuid.NewString(),
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	for _, existing := range s.keys[user.Number] {
		if existing.Name == req.Name {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"error": "API key name already in use"})

			return
		}
	}
	s.keys[user.Number] = append(s.keys[user.Number], key)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "API key created successfully",
		"key":     "UG_" + base64.URLEncoding.EncodeToString(secret),
		"id":      key.Number,
	})
}

func (s *Server) deleteAPIKey(w http.ResponseWriter, r *http.Request, user User) {
	number, err := uuid.Parse(r.PathValue("number"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid API key number"})
		return
	}

	s.mu.Lock()
	keys := s.keys[user.Number]
	idx := -1
	for i, k := range keys {
		if k.Number == number.String() {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.keys[user.Number] = append(keys[:idx:idx], keys[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Failed to delete API key"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "API key deleted successfully"})
}

func (s *Server) startSession(userNumber string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = userNumber
	s.mu.Unlock()

	return token
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) expiresIn(expiry time.Time) int64 {
	if s.relativeExpiry {
		return int64(expiry.Sub(s.now()).Seconds())
	}

	return expiry.Unix()
}

// userByNumber must be called with s.mu held.
func (s *Server) userByNumber(number string) (User, bool) {
	if number == "" {
		return User{}, false
	}

	for _, u := range s.users {
		if u.Number == number {
			return u, true
		}
	}

	return User{}, false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
