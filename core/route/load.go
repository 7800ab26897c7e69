package route

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a route table from a .json, .yaml or .yml file.
func LoadFile(path string) ([]*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("route: read %s: %w", path, err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes a route table document of the given format.
func Parse(format string, data []byte) ([]*Route, error) {
	var routes []*Route
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &routes); err != nil {
			return nil, fmt.Errorf("route: decode json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &routes); err != nil {
			return nil, fmt.Errorf("route: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return routes, nil
}
