package resolver

import (
	"fmt"
	"os"
	"strings"
)

const fileRefPrefix = "@file:"

// ResolveSecret - returns the value, or the trimmed contents of the referenced
// file when the value has the form @file:<path>
func ResolveSecret(value string) (string, error) {
	if !strings.HasPrefix(value, fileRefPrefix) {
		return value, nil
	}

	path := strings.TrimSpace(strings.TrimPrefix(value, fileRefPrefix))
	if path == "" {
		return "", fmt.Errorf("secret reference %q does not name a file", value)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read secret file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
