package server

import (
	"context"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/apiclient"
	"github.com/uganda-data/session-client/internal/openapi"
	"github.com/uganda-data/session-client/internal/serviceerr"
	"github.com/uganda-data/session-client/pkg/csrf"
	"github.com/uganda-data/session-client/pkg/guard"
	"github.com/uganda-data/session-client/pkg/session"
)

const (
	// DefaultLandingPath is where a login without a return location lands.
	DefaultLandingPath = "/dashboard/api-keys"

	loginEndpoint = "/api/login"
)

// openAPIServer is an implementation of the OpenAPI interface.
type openAPIServer struct {
	store *session.Store
	guard *guard.Guard
	api   *apiclient.Client
	csrf  *csrf.Protector
}

// Ensure openAPIServer implements [openapi.StrictServerInterface]
var _ openapi.StrictServerInterface = (*openAPIServer)(nil)

// newOpenAPIServer creates a new implementation of the openapi.StrictServerInterface.
func newOpenAPIServer(deps Deps) *openAPIServer {
	return &openAPIServer{
		store: deps.Store,
		guard: deps.Guard,
		api:   deps.API,
		csrf:  deps.CSRF,
	}
}

// csrfBinding binds console tokens to the principal of the session, so a
// token issued before a login or logout stops working after it.
func (s *openAPIServer) csrfBinding(_ *http.Request) string {
	return s.store.Snapshot().UserID
}

// Ping implements openapi.StrictServerInterface.
func (s *openAPIServer) Ping(_ context.Context, _ openapi.PingRequestObject) (openapi.PingResponseObject, error) {
	return openapi.Ping200JSONResponse{Result: "ping"}, nil
}

// GetSession implements openapi.StrictServerInterface.
func (s *openAPIServer) GetSession(_ context.Context, _ openapi.GetSessionRequestObject) (openapi.GetSessionResponseObject, error) {
	snapshot := s.store.Snapshot()

	return openapi.GetSession200JSONResponse{
		Body:    toSessionModel(snapshot),
		Headers: openapi.GetSession200ResponseHeaders{XCSRFToken: s.csrf.Token(snapshot.UserID)},
	}, nil
}

// LoginPage implements openapi.StrictServerInterface.
func (s *openAPIServer) LoginPage(ctx context.Context, _ openapi.LoginPageRequestObject) (openapi.LoginPageResponseObject, error) {
	r, err := requestFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if s.store.Snapshot().IsAuthenticated {
		return openapi.LoginPage302Response{
			Headers: openapi.LoginPage302ResponseHeaders{
				Location: s.guard.ReturnTo(r, DefaultLandingPath),
			},
		}, nil
	}

	return openapi.LoginPage200JSONResponse{
		Login: loginEndpoint,
		Next:  s.guard.ReturnTo(r, ""),
	}, nil
}

// Login implements openapi.StrictServerInterface.
func (s *openAPIServer) Login(ctx context.Context, request openapi.LoginRequestObject) (openapi.LoginResponseObject, error) {
	slogctx.Debug(ctx, "Login() called")
	defer slogctx.Debug(ctx, "Login() completed")

	r, err := requestFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.Login(ctx, request.Body.Email, request.Body.Password); err != nil {
		if cancelled(ctx, err) {
			return nil, err
		}

		body, status := toErrorModel(ctx, err)
		return openapi.LogindefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	snapshot := s.store.Snapshot()
	slogctx.Info(ctx, "Signed in", "user_id", snapshot.UserID, "role", string(snapshot.Role))

	return openapi.Login200JSONResponse{
		Body: openapi.LoginResponse{
			Session:  toSessionModel(snapshot),
			Redirect: s.guard.ReturnTo(r, DefaultLandingPath),
		},
		Headers: openapi.Login200ResponseHeaders{XCSRFToken: s.csrf.Token(snapshot.UserID)},
	}, nil
}

// Logout implements openapi.StrictServerInterface.
func (s *openAPIServer) Logout(ctx context.Context, _ openapi.LogoutRequestObject) (openapi.LogoutResponseObject, error) {
	slogctx.Debug(ctx, "Logout() called")
	defer slogctx.Debug(ctx, "Logout() completed")

	s.store.Logout(ctx)

	snapshot := s.store.Snapshot()

	return openapi.Logout200JSONResponse{
		Body:    toSessionModel(snapshot),
		Headers: openapi.Logout200ResponseHeaders{XCSRFToken: s.csrf.Token(snapshot.UserID)},
	}, nil
}

// SetVisibility implements openapi.StrictServerInterface.
func (s *openAPIServer) SetVisibility(_ context.Context, request openapi.SetVisibilityRequestObject) (openapi.SetVisibilityResponseObject, error) {
	if request.Body.Visible == nil {
		body, status := newBadRequest("visible is required")
		return openapi.SetVisibilitydefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	s.store.SetVisible(*request.Body.Visible)

	return openapi.SetVisibility204Response{}, nil
}

// ListAPIKeys implements openapi.StrictServerInterface.
func (s *openAPIServer) ListAPIKeys(ctx context.Context, _ openapi.ListAPIKeysRequestObject) (openapi.ListAPIKeysResponseObject, error) {
	keys, err := s.api.ListAPIKeys(ctx)
	if err != nil {
		if cancelled(ctx, err) {
			return nil, err
		}

		body, status := s.backendError(ctx, err)
		return openapi.ListAPIKeysdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	resp := make(openapi.ListAPIKeys200JSONResponse, 0, len(keys))
	for _, key := range keys {
		resp = append(resp, openapi.APIKey{
			Number:     key.Number,
			Name:       key.Name,
			LastUsedAt: key.LastUsedAt,
			ExpiresAt:  key.ExpiresAt,
			CreatedAt:  key.CreatedAt,
		})
	}

	return resp, nil
}

// CreateAPIKey implements openapi.StrictServerInterface.
func (s *openAPIServer) CreateAPIKey(ctx context.Context, request openapi.CreateAPIKeyRequestObject) (openapi.CreateAPIKeyResponseObject, error) {
	created, err := s.api.CreateAPIKey(ctx, request.Body.Name, request.Body.ExpiresAt)
	if err != nil {
		if cancelled(ctx, err) {
			return nil, err
		}

		body, status := s.backendError(ctx, err)
		return openapi.CreateAPIKeydefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	return openapi.CreateAPIKey201JSONResponse{
		Id:      created.ID,
		Key:     created.Key,
		Message: created.Message,
	}, nil
}

// DeleteAPIKey implements openapi.StrictServerInterface.
func (s *openAPIServer) DeleteAPIKey(ctx context.Context, request openapi.DeleteAPIKeyRequestObject) (openapi.DeleteAPIKeyResponseObject, error) {
	if err := s.api.DeleteAPIKey(ctx, request.Number); err != nil {
		if cancelled(ctx, err) {
			return nil, err
		}

		body, status := s.backendError(ctx, err)
		return openapi.DeleteAPIKeydefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	return openapi.DeleteAPIKey204Response{}, nil
}

// GetProfile implements openapi.StrictServerInterface.
func (s *openAPIServer) GetProfile(ctx context.Context, _ openapi.GetProfileRequestObject) (openapi.GetProfileResponseObject, error) {
	profile, err := s.api.Profile(ctx)
	if err != nil {
		if cancelled(ctx, err) {
			return nil, err
		}

		body, status := s.backendError(ctx, err)
		return openapi.GetProfiledefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	return openapi.GetProfile200JSONResponse{
		Email:     profile.Email,
		Name:      profile.Name,
		FirstName: optional(profile.FirstName),
		LastName:  optional(profile.LastName),
	}, nil
}

// backendError re-checks the session when the backend no longer accepts
// the access token, then maps err to the error model.
func (s *openAPIServer) backendError(ctx context.Context, err error) (openapi.ErrorModel, int) {
	if errors.Is(err, serviceerr.ErrUnauthorized) {
		snapshot, _ := guard.FromContext(ctx)
		slogctx.Info(ctx, "Backend rejected the access token, checking the session", "user_id", snapshot.UserID)
		s.store.CheckAuthStatus(ctx)
	}

	return toErrorModel(ctx, err)
}

func toSessionModel(s session.Session) openapi.Session {
	model := openapi.Session{
		IsAuthenticated: s.IsAuthenticated,
		IsLoading:       s.IsLoading,
		State:           openapi.SessionState(s.State),
		UserId:          optional(s.UserID),
		Role:            optional(string(s.Role)),
	}
	if !s.ExpiresAt.IsZero() {
		expiresAt := s.ExpiresAt
		model.ExpiresAt = &expiresAt
	}

	return model
}

func toErrorModel(ctx context.Context, err error) (model openapi.ErrorModel, httpStatus int) {
	if errors.Is(err, session.ErrSuperseded) {
		err = serviceerr.New(serviceerr.CodeConflict, "superseded by a newer session operation")
	}

	var serviceErr *serviceerr.Error
	if !errors.As(err, &serviceErr) {
		slogctx.Error(ctx, "Unexpected error", "error", err)
		serviceErr = serviceerr.ErrServerError
	}

	httpStatus = serviceErr.HTTPStatus()
	if httpStatus >= http.StatusInternalServerError {
		slogctx.Error(ctx, "Request failed", "error", err)
	} else {
		slogctx.Info(ctx, "Request rejected", "error", err)
	}

	return openapi.ErrorModel{
		Error:            string(serviceErr.Err),
		ErrorDescription: optional(serviceErr.Description),
	}, httpStatus
}

func newBadRequest(description string) (model openapi.ErrorModel, httpStatus int) {
	return openapi.ErrorModel{
		Error:            string(serviceerr.CodeInvalidRequest),
		ErrorDescription: &description,
	}, http.StatusBadRequest
}

// cancelled reports whether err is the cancellation of ctx, in which case
// nothing is written back.
func cancelled(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	return ctxErr != nil && errors.Is(err, ctxErr)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
