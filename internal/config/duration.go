package config

import (
	"fmt"
	"time"

	"github.com/ortam/docbuilder/internal/yamlutil"
)

// Duration is a time.Duration written in YAML as a Go duration string
// ("30s", "168h").
type Duration time.Duration

// UnmarshalYAML implements the goccy/go-yaml BytesUnmarshaler interface.
func (d *Duration) UnmarshalYAML(data []byte) error {
	var s string
	if err := yamlutil.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration back as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
