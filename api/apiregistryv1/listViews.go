package apiregistryv1

import (
	"context"
)

func listViews(ctx context.Context) ([]*ViewResponse, error) {

	s := GetServicer(ctx)

	result := []*ViewResponse{}
	for _, entry := range s.ListViews() {
		result = append(result, newViewResponse(entry))
	}

	return result, nil
}
