package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/jekabolt/salon-analytics/internal/form"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string   `json:"status"`               // user-level status message
	ErrorText  string   `json:"error,omitempty"`      // application-level error message, for debugging
	Violations []string `json:"violations,omitempty"` // failed query parameter rules
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}

// ErrFromError maps an error to a response using its gRPC status code.
func ErrFromError(err error) *ErrResponse {
	code := httpStatus(err)
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     http.StatusText(code),
		ErrorText:      errorText(err),
		Violations:     form.Violations(err),
	}
	return resp
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch status.Code(unwrapStatus(err)) {
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// unwrapStatus finds the first error in the chain carrying a gRPC status.
func unwrapStatus(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := status.FromError(e); ok {
			return e
		}
	}
	return err
}

func errorText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "superseded by a newer request"
	}
	if st, ok := status.FromError(unwrapStatus(err)); ok {
		return st.Message()
	}
	return err.Error()
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrFromError(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "analytics request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	}
	render.Render(w, r, resp)
}
