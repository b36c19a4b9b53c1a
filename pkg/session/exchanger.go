package session

import "context"

// Exchanger performs the network exchanges with the authentication backend.
type Exchanger interface {
	// Login exchanges an email and password for credentials.
	Login(ctx context.Context, email, password string) (Credentials, error)
	// Refresh exchanges the ambient refresh credential held by the transport
	// for fresh credentials. Identity fields may be left empty.
	Refresh(ctx context.Context) (Credentials, error)
	// Logout invalidates the server side session.
	Logout(ctx context.Context, accessToken string) error
}

// Reader is implemented by anything exposing the current session snapshot.
type Reader interface {
	Snapshot() Session
}
