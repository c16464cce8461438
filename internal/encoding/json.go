// Package encoding provides utilities for encoding data and writing files.
package encoding

import (
	"encoding/json"
	"fmt"
)

// ParseJSON unmarshals JSON data into the provided type.
// Returns an error if parsing fails.
func ParseJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &result, nil
}

// ToJSON marshals a value to JSON bytes.
// Returns an error if marshaling fails.
func ToJSON[T any](value T) ([]byte, error) {
	return json.Marshal(value)
}

// ToJSONIndent marshals a value to indented JSON bytes.
// Returns an error if marshaling fails.
func ToJSONIndent[T any](value T) ([]byte, error) {
	return json.MarshalIndent(value, "", "  ")
}
