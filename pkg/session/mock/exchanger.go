package sessionmock

import (
	"context"
	"sync"

	"github.com/uganda-data/session-client/internal/serviceerr"
	"github.com/uganda-data/session-client/pkg/session"
)

type Option func(*Exchanger)

// WithCredentials sets the credentials returned by Login and Refresh.
func WithCredentials(c session.Credentials) Option {
	return func(e *Exchanger) {
		e.loginCreds = c
		e.refreshCreds = c
	}
}

// WithRefreshCredentials sets the credentials returned by Refresh only.
func WithRefreshCredentials(c session.Credentials) Option {
	return func(e *Exchanger) {
		e.refreshCreds = c
	}
}

// WithPassword makes Login reject every other password with an
// invalid_credentials error.
func WithPassword(password string) Option {
	return func(e *Exchanger) {
		e.password = password
	}
}

func WithLoginErr(err error) Option {
	return func(e *Exchanger) {
		e.loginErr = err
	}
}

func WithRefreshErr(err error) Option {
	return func(e *Exchanger) {
		e.refreshErr = err
	}
}

func WithLogoutErr(err error) Option {
	return func(e *Exchanger) {
		e.logoutErr = err
	}
}

// WithGate blocks every exchange until gate is closed or the exchange
// context is done.
func WithGate(gate <-chan struct{}) Option {
	return func(e *Exchanger) {
		e.gate = gate
	}
}

// WithStarted reports the name of every exchange on started as soon as it
// begins, before waiting on the gate.
func WithStarted(started chan<- string) Option {
	return func(e *Exchanger) {
		e.started = started
	}
}

// Exchanger is a scripted session.Exchanger.
type Exchanger struct {
	loginCreds, refreshCreds        session.Credentials
	password                        string
	loginErr, refreshErr, logoutErr error
	gate                            <-chan struct{}
	started                         chan<- string

	mu                                    sync.Mutex
	loginCalls, refreshCalls, logoutCalls int
	lastLogoutToken                       string
}

var _ session.Exchanger = (*Exchanger)(nil)

func NewExchanger(opts ...Option) *Exchanger {
	e := &Exchanger{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Exchanger) Login(ctx context.Context, _, password string) (session.Credentials, error) {
	e.mu.Lock()
	e.loginCalls++
	e.mu.Unlock()

	if err := e.wait(ctx, "login"); err != nil {
		return session.Credentials{}, err
	}

	if e.loginErr != nil {
		return session.Credentials{}, e.loginErr
	}

	if e.password != "" && password != e.password {
		return session.Credentials{}, serviceerr.New(serviceerr.CodeInvalidCredentials, "Invalid email or password")
	}

	return e.loginCreds, nil
}

func (e *Exchanger) Refresh(ctx context.Context) (session.Credentials, error) {
	e.mu.Lock()
	e.refreshCalls++
	e.mu.Unlock()

	if err := e.wait(ctx, "refresh"); err != nil {
		return session.Credentials{}, err
	}

	if e.refreshErr != nil {
		return session.Credentials{}, e.refreshErr
	}

	return e.refreshCreds, nil
}

func (e *Exchanger) Logout(ctx context.Context, accessToken string) error {
	e.mu.Lock()
	e.logoutCalls++
	e.lastLogoutToken = accessToken
	e.mu.Unlock()

	if err := e.wait(ctx, "logout"); err != nil {
		return err
	}

	return e.logoutErr
}

func (e *Exchanger) wait(ctx context.Context, name string) error {
	if e.started != nil {
		e.started <- name
	}

	if e.gate == nil {
		return ctx.Err()
	}

	select {
	case <-e.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exchanger) LoginCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loginCalls
}

func (e *Exchanger) RefreshCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.refreshCalls
}

func (e *Exchanger) LogoutCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.logoutCalls
}

// LastLogoutToken returns the access token passed to the latest Logout.
func (e *Exchanger) LastLogoutToken() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastLogoutToken
}
