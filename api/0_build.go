package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/registryviews/api/apiregistryv1"
	"github.com/fulldump/registryviews/service"
)

// Build mounts the v1 API. Credentials are checked only when apiKey is set.
func Build(s service.Servicer, version, apiKey, apiSecret string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		injectServicer(s),
	)
	if apiKey != "" {
		v1.WithInterceptors(
			Authenticate(apiKey, apiSecret),
		)
	}

	apiregistryv1.BuildV1(v1)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apiregistryv1.SetServicer(ctx, s))
		}
	}
}
