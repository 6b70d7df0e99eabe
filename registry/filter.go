package registry

import (
	"fmt"

	"github.com/SierraSoftworks/connor"
)

func match(filter Filter, properties map[string]interface{}) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	matched, err := connor.Match(filter, properties)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidFilter, err.Error())
	}

	return matched, nil
}

// validateFilter runs the filter once against an empty document so
// malformed operators are reported when subscribing, not on the first event.
func validateFilter(filter Filter) error {
	_, err := match(filter, map[string]interface{}{})
	return err
}
