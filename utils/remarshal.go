package utils

import (
	json2 "github.com/go-json-experiment/json"
)

// Remarshal copies input into output through its json representation, so
// output only holds json types (numbers end up as float64 in interfaces).
func Remarshal(input interface{}, output interface{}) error {
	b, err := json2.Marshal(input, json2.Deterministic(true))
	if err != nil {
		return err
	}
	return json2.Unmarshal(b, output)
}
