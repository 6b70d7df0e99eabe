package service

import (
	"github.com/fulldump/registryviews/catalog"
	"github.com/fulldump/registryviews/registry"
)

type Service struct {
	catalog *catalog.Catalog
}

func NewService(c *catalog.Catalog) *Service {
	return &Service{
		catalog: c,
	}
}

func (s *Service) CreateView(config *catalog.ViewConfig) (*catalog.Entry, error) {
	return s.catalog.CreateView(*config)
}

func (s *Service) GetView(name string) (*catalog.Entry, error) {
	return s.catalog.GetView(name)
}

func (s *Service) ListViews() []*catalog.Entry {
	return s.catalog.ListViews()
}

func (s *Service) DropView(name string) error {
	return s.catalog.DropView(name)
}

func (s *Service) RegisterService(properties map[string]interface{}) (*registry.Descriptor, error) {
	d, err := s.catalog.Registry().Register(properties)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) GetService(id string) (*registry.Descriptor, error) {
	d, err := s.catalog.Registry().Get(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) ListServices(filter map[string]interface{}) ([]registry.Descriptor, error) {
	return s.catalog.Registry().Lookup(filter)
}

func (s *Service) ModifyService(id string, properties map[string]interface{}) (*registry.Descriptor, error) {
	d, err := s.catalog.Registry().Modify(id, properties)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) UnregisterService(id string) error {
	return s.catalog.Registry().Unregister(id)
}
