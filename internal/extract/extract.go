// Package extract pulls loosely structured JSON objects out of raw model
// text. Oracle responses are best-effort: the object may be wrapped in
// prose, markdown fences, or trailing commentary, so the only contract is
// "somewhere in there is one JSON object".
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var ErrNoObject = errors.New("no json object found")

// Object locates the first '{' and the last '}' in raw and parses the
// substring between them as a JSON object.
func Object(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoObject
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("parse extracted object: %w", err)
	}

	return data, nil
}

// Decode extracts the object from raw and decodes it into out using weak
// typing, so numeric fields delivered as strings ("75") still land.
func Decode(raw string, out any) error {
	data, err := Object(raw)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode extracted object: %w", err)
	}

	return nil
}
