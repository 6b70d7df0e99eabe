package apiregistryv1

import (
	"context"

	"github.com/fulldump/box"
)

func getView(ctx context.Context) (*ViewResponse, error) {

	s := GetServicer(ctx)

	viewName := box.GetUrlParameter(ctx, "viewName")

	entry, err := s.GetView(viewName)
	if err != nil {
		return nil, err
	}

	return newViewResponse(entry), nil
}
