package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/registryviews/api/apiregistryv1"
	"github.com/fulldump/registryviews/catalog"
	"github.com/fulldump/registryviews/registry"
	"github.com/fulldump/registryviews/view"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrOpening      = errors.New("temporary unavailable: opening")
	ErrClosing      = errors.New("temporary unavailable: closing")
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

type StatusGetter interface {
	GetStatus() string
}

func InterceptorUnavailable(c StatusGetter) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := c.GetStatus()
			if status == catalog.StatusOpening {
				box.SetError(ctx, ErrOpening)
				return
			}
			if status == catalog.StatusClosing {
				box.SetError(ctx, ErrClosing)
				return
			}
			next(ctx)
		}
	}
}

// prettyStatus maps an error to its HTTP status and a human description.
func prettyStatus(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrOpening), errors.Is(err, ErrClosing):
		return http.StatusServiceUnavailable, "the server is not operating, retry later"
	case errors.Is(err, catalog.ErrClosing), errors.Is(err, view.ErrClosed):
		return http.StatusServiceUnavailable, "the server is not operating, retry later"
	case errors.Is(err, view.ErrUnavailable):
		return http.StatusServiceUnavailable, "the view is required and has no services"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, catalog.ErrViewNotFound), errors.Is(err, registry.ErrServiceNotFound):
		return http.StatusNotFound, "it does not exist or it is gone"
	case errors.Is(err, catalog.ErrViewAlreadyExists):
		return http.StatusConflict, "choose another name"
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.As(err, &syntaxError):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeError),
		errors.Is(err, registry.ErrInvalidFilter),
		errors.Is(err, registry.ErrInvalidProperties),
		errors.Is(err, view.ErrUnknownKind),
		errors.Is(err, catalog.ErrInvalidView),
		errors.Is(err, apiregistryv1.ErrBadRequest):
		return http.StatusBadRequest, "check the request"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := prettyStatus(ctx, err)

		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message":     err.Error(),
				"description": description,
			},
		})
	}
}

func Authenticate(apiKey, apiSecret string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			if r.Header.Get("X-Api-Key") != apiKey || r.Header.Get("X-Api-Secret") != apiSecret {
				box.SetError(ctx, ErrUnauthorized)
				return
			}
			next(ctx)
		}
	}
}
