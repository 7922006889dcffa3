package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatTOML}
}

// Marshal renders cfg in the given format. Callers pass a Redacted copy for
// display.
func Marshal(cfg *Config, format string) ([]byte, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		return yaml.Marshal(cfg)
	case FormatTOML:
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported format %q (expected one of %s)", format, strings.Join(Formats(), ", "))
	}
}
