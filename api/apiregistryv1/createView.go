package apiregistryv1

import (
	"context"
	"net/http"

	"github.com/fulldump/registryviews/catalog"
)

func createView(ctx context.Context, w http.ResponseWriter, input *catalog.ViewConfig) (*ViewResponse, error) {

	s := GetServicer(ctx)

	entry, err := s.CreateView(input)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newViewResponse(entry), nil
}
