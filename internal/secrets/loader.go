// Package secrets resolves credentials for external providers. A secret
// can live inline in the configuration or in a file referenced by it.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source points at one secret. File wins over Value when both are set, so
// a key file mounted by the deployment overrides anything baked into the
// config.
type Source struct {
	// Name appears in error messages.
	Name string
	// Value is the inline secret.
	Value string
	// File is a path to a file holding the secret.
	File string
}

// Load resolves the secret, trimmed of surrounding whitespace. Empty files
// and unset sources are errors.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
