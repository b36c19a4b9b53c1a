package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime/strictmiddleware/nethttp"

	slogctx "github.com/veqryn/slog-context"

	"github.com/uganda-data/session-client/internal/middleware/responsewriter"
	"github.com/uganda-data/session-client/internal/openapi"
)

const maxRequestBody = 64 << 10

var errNoRequest = errors.New("no request in context")

type requestKey struct{}

// newRequestMiddleware makes the incoming request available to the strict
// handlers through requestFromContext.
func newRequestMiddleware() nethttp.StrictHTTPMiddlewareFunc {
	return func(f nethttp.StrictHTTPHandlerFunc, _ string) nethttp.StrictHTTPHandlerFunc {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
			return f(context.WithValue(ctx, requestKey{}, r), w, r, request)
		}
	}
}

func requestFromContext(ctx context.Context) (*http.Request, error) {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	if !ok || r == nil {
		return nil, errNoRequest
	}

	return r, nil
}

// consoleMiddleware bounds request bodies, disables caching of console
// responses and reports what was written once the request is done.
func consoleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := responsewriter.Wrap(w)
		rec.Header().Set("Cache-Control", "no-store")
		r.Body = http.MaxBytesReader(rec, r.Body, maxRequestBody)

		next.ServeHTTP(rec, r)

		slogctx.Debug(r.Context(), "Finished request",
			"method", r.Method, "path", r.URL.Path, "status", rec.Status(), "bytes", rec.Written())
	})
}

// rewritePath serves next as if path had been requested.
func rewritePath(next http.Handler, path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rewritten := r.Clone(r.Context())
		rewritten.URL.Path = path
		rewritten.URL.RawPath = ""

		next.ServeHTTP(w, rewritten)
	})
}

// requestErrorHandler answers requests the generated handlers could not
// decode or bind.
func requestErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slogctx.Info(r.Context(), "Malformed request", "error", err)

	description := "malformed request body"
	var paramErr *openapi.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		description = "invalid " + paramErr.ParamName
	}

	body, status := newBadRequest(description)
	writeErrorModel(w, body, status)
}

// responseErrorHandler answers handler errors. Nothing is written for a
// request the client already gave up on.
func responseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if cancelled(ctx, err) {
		slogctx.Debug(ctx, "Request cancelled", "error", err)
		return
	}

	body, status := toErrorModel(ctx, err)
	writeErrorModel(w, body, status)
}

func writeErrorModel(w http.ResponseWriter, body openapi.ErrorModel, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
