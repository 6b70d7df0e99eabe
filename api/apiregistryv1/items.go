package apiregistryv1

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"
	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type itemsRequest struct {
	Filter map[string]interface{} `json:"filter"`
	Skip   int64                  `json:"skip"`
	Limit  int64                  `json:"limit"` // 0 means no limit
}

type ItemResponse struct {
	ID         string         `json:"id"`
	Ranking    int            `json:"ranking"`
	Properties map[string]any `json:"properties"`
}

// items streams the services of a view, one JSON document per line, in view
// order. The traversal is live: services leaving the view while streaming
// are skipped.
func items(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := &itemsRequest{}
	if len(requestBody) > 0 {
		err = json2.Unmarshal(requestBody, input)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
		}
	}

	hasFilter := len(input.Filter) > 0
	if hasFilter {
		_, err := connor.Match(input.Filter, map[string]interface{}{})
		if err != nil {
			return fmt.Errorf("%w: filter: %s", ErrBadRequest, err.Error())
		}
	}

	s := GetServicer(ctx)
	viewName := box.GetUrlParameter(ctx, "viewName")
	entry, err := s.GetView(viewName)
	if err != nil {
		return err
	}

	it, err := entry.View.Collection().Iterator()
	if err != nil {
		return err
	}
	defer it.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")

	e := jsontext.NewEncoder(w)
	skip := input.Skip
	written := int64(0)
	for it.HasNext() {

		if input.Limit > 0 && written >= input.Limit {
			break
		}

		service, err := it.Next()
		if err != nil {
			break
		}

		properties, err := service.Properties()
		if err != nil {
			continue // gone while streaming
		}

		if hasFilter {
			match, err := connor.Match(input.Filter, properties)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		err = json2.MarshalEncode(e, &ItemResponse{
			ID:         service.ID(),
			Ranking:    service.Ranking(),
			Properties: properties,
		})
		if err != nil {
			return err
		}
		written++
	}

	return nil
}
