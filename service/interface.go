package service

import (
	"github.com/fulldump/registryviews/catalog"
	"github.com/fulldump/registryviews/registry"
)

var (
	ErrorViewNotFound      = catalog.ErrViewNotFound
	ErrorViewAlreadyExists = catalog.ErrViewAlreadyExists
	ErrorServiceNotFound   = registry.ErrServiceNotFound
)

type Servicer interface { // todo: split views and services?
	CreateView(config *catalog.ViewConfig) (*catalog.Entry, error)
	GetView(name string) (*catalog.Entry, error)
	ListViews() []*catalog.Entry
	DropView(name string) error

	RegisterService(properties map[string]interface{}) (*registry.Descriptor, error)
	GetService(id string) (*registry.Descriptor, error)
	ListServices(filter map[string]interface{}) ([]registry.Descriptor, error)
	ModifyService(id string, properties map[string]interface{}) (*registry.Descriptor, error)
	UnregisterService(id string) error
}
