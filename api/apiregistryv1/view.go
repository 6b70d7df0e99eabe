package apiregistryv1

import (
	"github.com/fulldump/registryviews/catalog"
)

type ViewResponse struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Filter      map[string]any `json:"filter"`
	Required    bool           `json:"required"`
	Satisfied   bool           `json:"satisfied"`
	Total       int            `json:"total"`
	Transitions int64          `json:"transitions"`
}

func newViewResponse(entry *catalog.Entry) *ViewResponse {
	return &ViewResponse{
		Name:        entry.Config.Name,
		Kind:        entry.Config.Kind,
		Filter:      entry.Config.Filter,
		Required:    entry.Config.Required,
		Satisfied:   entry.View.Satisfied(),
		Total:       len(entry.View.IDs()),
		Transitions: entry.Transitions(),
	}
}
