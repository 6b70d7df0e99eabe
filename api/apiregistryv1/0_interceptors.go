package apiregistryv1

import (
	"context"
	"errors"

	"github.com/fulldump/registryviews/service"
)

const ContextServicerKey = "3f1c9a2e-8b7d-11ef-a0f4-5f2d7c1e9b30"

var ErrBadRequest = errors.New("bad request")

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer) // TODO: can raise panic :D
}
