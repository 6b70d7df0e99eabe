package apiregistryv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func drop(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	viewName := box.GetUrlParameter(ctx, "viewName")

	return s.DropView(viewName)
}
