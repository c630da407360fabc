package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/dialect"
	"github.com/leapstack-labs/duckframe/pkg/engine"
)

// OutputFormats lists the accepted values for the output key.
var OutputFormats = []string{"table", "json", "csv", "md", "markdown"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine == nil || c.Engine.Type == "" {
		return fmt.Errorf("engine.type is required")
	}
	if !engine.IsRegistered(c.Engine.Type) {
		return &engine.UnknownEngineError{Type: c.Engine.Type, Available: engine.ListEngines()}
	}
	if _, ok := dialect.Get(c.Engine.Type); !ok {
		return fmt.Errorf("%w: engine %q has none (registered: %s)",
			dialect.ErrDialectRequired, c.Engine.Type, strings.Join(dialect.List(), ", "))
	}
	if c.Engine.Port < 0 || c.Engine.Port > 65535 {
		return fmt.Errorf("engine.port out of range: %d", c.Engine.Port)
	}
	if !ValidOutput(c.Output) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// ValidOutput reports whether format is a supported output format.
func ValidOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
