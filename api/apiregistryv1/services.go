package apiregistryv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/registryviews/registry"
)

type propertiesRequest struct {
	Properties map[string]interface{} `json:"properties"`
}

type findRequest struct {
	Filter map[string]interface{} `json:"filter"`
}

func listServices(ctx context.Context) ([]registry.Descriptor, error) {
	return GetServicer(ctx).ListServices(nil)
}

func registerService(ctx context.Context, w http.ResponseWriter, input *propertiesRequest) (*registry.Descriptor, error) {

	s := GetServicer(ctx)

	d, err := s.RegisterService(input.Properties)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return d, nil
}

// find lists the services matching a filter, highest ranking first.
func find(ctx context.Context, input *findRequest) ([]registry.Descriptor, error) {
	return GetServicer(ctx).ListServices(input.Filter)
}

func getService(ctx context.Context) (*registry.Descriptor, error) {

	s := GetServicer(ctx)

	serviceId := box.GetUrlParameter(ctx, "serviceId")

	return s.GetService(serviceId)
}

func modify(ctx context.Context, input *propertiesRequest) (*registry.Descriptor, error) {

	s := GetServicer(ctx)

	serviceId := box.GetUrlParameter(ctx, "serviceId")

	return s.ModifyService(serviceId, input.Properties)
}

func unregister(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	serviceId := box.GetUrlParameter(ctx, "serviceId")

	return s.UnregisterService(serviceId)
}
