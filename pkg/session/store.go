package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/serviceerr"
)

const (
	DefaultRefreshInterval = 4 * time.Minute

	refreshKey = "refresh"
)

// ErrSuperseded is returned by Login when a newer login or logout started
// before its exchange resolved. The result of the exchange is discarded.
var ErrSuperseded = errors.New("superseded by a newer session operation")

var (
	errIncompleteCredentials = errors.New("incomplete credentials")
	errExpiredCredentials    = errors.New("credentials already expired")
)

type Option func(*Store)

// WithClock replaces the time source used to evaluate credential expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRefreshInterval sets the period of the keep-alive loop started by Run.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Store) {
		s.meter = m
	}
}

// operation is a login or logout in flight. done is closed once its
// result has been applied or discarded.
type operation struct {
	done chan struct{}
}

// Store is the single owner of the client session. Only Login,
// CheckAuthStatus and Logout mutate it; everything else reads snapshots.
type Store struct {
	exchanger       Exchanger
	now             func() time.Time
	refreshInterval time.Duration
	meter           metric.Meter
	exchanges       metric.Int64Counter

	refreshes singleflight.Group
	wake      chan struct{}

	// refreshWaiters counts CheckAuthStatus callers still waiting. The
	// shared exchange is cancelled once it drops to zero.
	refreshWaiters int
	refreshCancel  context.CancelFunc

	mu         sync.Mutex
	creds      Credentials
	state      State
	generation uint64
	pending    int
	settled    bool
	visible    bool
	mutating   *operation

	// notifyMu serializes deliveries, subsMu guards the subscriber set.
	notifyMu    sync.Mutex
	subsMu      sync.Mutex
	subscribers map[uint64]func(Session)
	nextSubID   uint64
}

func NewStore(exchanger Exchanger, opts ...Option) (*Store, error) {
	if exchanger == nil {
		return nil, errors.New("exchanger is required")
	}

	s := &Store{
		exchanger:       exchanger,
		now:             time.Now,
		refreshInterval: DefaultRefreshInterval,
		meter:           otel.Meter("github.com/uganda-data/session-client/pkg/session"),
		wake:            make(chan struct{}, 1),
		state:           StateUnauthenticated,
		visible:         true,
		subscribers:     make(map[uint64]func(Session)),
	}

	for _, opt := range opts {
		opt(s)
	}

	var err error

	s.exchanges, err = s.meter.Int64Counter(
		"session.exchange",
		metric.WithDescription("Authentication exchanges by operation and outcome"),
		metric.WithUnit("exchange"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating exchange counter: %w", err)
	}

	return s, nil
}

// Snapshot returns the current session. Credentials past their expiry
// read as absent.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	sess := Session{
		IsLoading: s.pending > 0 || !s.settled,
		State:     s.state,
	}

	if s.validLocked() {
		sess.IsAuthenticated = true
		sess.AccessToken = s.creds.AccessToken
		sess.UserID = s.creds.UserID
		sess.Role = s.creds.Role
		sess.ExpiresAt = s.creds.ExpiresAt
	} else if sess.State == StateAuthenticated {
		sess.State = StateUnauthenticated
	}

	return sess
}

func (s *Store) validLocked() bool {
	if !s.creds.complete() {
		return false
	}

	return s.creds.ExpiresAt.IsZero() || s.now().Before(s.creds.ExpiresAt)
}

func (s *Store) restingStateLocked() State {
	if s.validLocked() {
		return StateAuthenticated
	}

	return StateUnauthenticated
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. Notifications are delivered one at a time. fn may
// subscribe or unsubscribe, but must not call Login, CheckAuthStatus or
// Logout synchronously.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		delete(s.subscribers, id)
	}
}

func (s *Store) publish() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.subsMu.Lock()
	fns := make([]func(Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	if len(fns) == 0 {
		return
	}

	snapshot := s.Snapshot()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// beginLocked starts a login or logout. It supersedes every exchange
// started before it.
func (s *Store) beginLocked(state State) (*operation, uint64) {
	s.generation++
	s.pending++
	s.state = state

	op := &operation{done: make(chan struct{})}
	s.mutating = op

	return op, s.generation
}

func (s *Store) endLocked(op *operation) {
	s.pending--
	s.settled = true

	if s.mutating == op {
		s.mutating = nil
	}
	close(op.done)
}

// Login exchanges email and password for credentials. On failure the
// session is left cleared and the error carries the backend message.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return serviceerr.New(serviceerr.CodeInvalidRequest, "email and password are required")
	}

	s.mu.Lock()
	op, gen := s.beginLocked(StateAuthenticating)
	s.mu.Unlock()
	s.publish()

	creds, err := s.exchanger.Login(ctx, email, password)
	if err == nil {
		creds, err = s.completeCredentials(creds)
		if err != nil {
			err = fmt.Errorf("%w: %w", serviceerr.ErrServerError, err)
		}
	}

	s.mu.Lock()
	superseded := gen != s.generation
	switch {
	case superseded:
	case ctx.Err() != nil:
		s.state = s.restingStateLocked()
	case err != nil:
		s.creds = Credentials{}
		s.state = StateUnauthenticated
	default:
		s.creds = creds
		s.state = StateAuthenticated
	}
	s.endLocked(op)
	s.mu.Unlock()
	s.publish()

	switch {
	case superseded:
		s.record(ctx, "login", "superseded")
		return ErrSuperseded
	case ctx.Err() != nil:
		s.record(ctx, "login", "cancelled")
		return ctx.Err()
	case err != nil:
		s.record(ctx, "login", "failure")
		slogctx.Info(ctx, "Login failed", "error", err)

		return fmt.Errorf("logging in: %w", err)
	}

	s.record(ctx, "login", "success")
	slogctx.Info(ctx, "Logged in", "user_id", creds.UserID, "role", creds.Role)

	return nil
}

// CheckAuthStatus silently refreshes the session using the ambient
// refresh credential. Failure clears the session. Concurrent callers
// share one exchange, and a login or logout in flight is joined instead.
// The shared exchange outlives the caller that started it and is only
// abandoned once every caller waiting on it has returned.
func (s *Store) CheckAuthStatus(ctx context.Context) {
	s.mu.Lock()
	s.refreshWaiters++
	s.mu.Unlock()
	defer s.leaveRefresh()

	ch := s.refreshes.DoChan(refreshKey, func() (any, error) {
		rctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()

		s.mu.Lock()
		s.refreshCancel = cancel
		if s.refreshWaiters == 0 {
			cancel()
		}
		s.mu.Unlock()

		s.refresh(rctx)

		s.mu.Lock()
		s.refreshCancel = nil
		s.mu.Unlock()

		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (s *Store) leaveRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshWaiters--
	if s.refreshWaiters == 0 && s.refreshCancel != nil {
		s.refreshCancel()
	}
}

func (s *Store) refresh(ctx context.Context) {
	s.mu.Lock()
	if op := s.mutating; op != nil {
		s.mu.Unlock()

		select {
		case <-op.done:
		case <-ctx.Done():
		}

		return
	}

	gen := s.generation
	s.pending++
	if s.state != StateAuthenticated || !s.validLocked() {
		s.state = StateAuthenticating
	}
	s.mu.Unlock()
	s.publish()

	creds, err := s.exchanger.Refresh(ctx)
	if err == nil {
		creds, err = s.completeCredentials(creds)
	}

	s.mu.Lock()
	s.pending--
	s.settled = true

	outcome := "success"
	switch {
	case gen != s.generation:
		outcome = "superseded"
	case ctx.Err() != nil:
		outcome = "cancelled"
		s.state = s.restingStateLocked()
	case err != nil:
		outcome = "failure"
		s.creds = Credentials{}
		s.state = StateUnauthenticated
	default:
		s.creds = creds
		s.state = StateAuthenticated
	}
	s.mu.Unlock()
	s.publish()

	s.record(ctx, "refresh", outcome)

	switch outcome {
	case "failure":
		slogctx.Debug(ctx, "Session refresh failed, session cleared", "error", err)
	case "success":
		slogctx.Debug(ctx, "Session refreshed", "user_id", creds.UserID, "role", creds.Role)
	}
}

// Logout invalidates the server side session and clears the local one
// whatever the outcome of the exchange. It is a no-op for the local state
// when a newer login started before it resolved.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.creds.AccessToken
	op, gen := s.beginLocked(StateLoggingOut)
	s.mu.Unlock()
	s.publish()

	err := s.exchanger.Logout(ctx, token)

	s.mu.Lock()
	if gen == s.generation {
		s.creds = Credentials{}
		s.state = StateUnauthenticated
	}
	s.endLocked(op)
	s.mu.Unlock()
	s.publish()

	if err != nil {
		s.record(ctx, "logout", "failure")
		slogctx.Warn(ctx, "Logout exchange failed, local session cleared", "error", err)

		return
	}

	s.record(ctx, "logout", "success")
	slogctx.Info(ctx, "Logged out")
}

func (s *Store) record(ctx context.Context, operation, outcome string) {
	s.exchanges.Add(context.WithoutCancel(ctx), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// completeCredentials fills identity from the token claims and rejects
// credentials that are partial or already past their expiry.
func (s *Store) completeCredentials(c Credentials) (Credentials, error) {
	c, err := withTokenClaims(c)
	if err != nil {
		return Credentials{}, err
	}

	if !c.complete() {
		return Credentials{}, errIncompleteCredentials
	}

	if !c.ExpiresAt.IsZero() && !s.now().Before(c.ExpiresAt) {
		return Credentials{}, fmt.Errorf("%w at %s", errExpiredCredentials, c.ExpiresAt.Format(time.RFC3339))
	}

	return c, nil
}
