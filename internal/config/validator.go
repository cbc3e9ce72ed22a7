// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup (or rejects a hot reload),
// ensuring the binary never runs with partial, malformed, or missing
// configuration.
//
// Cross-field rules that tags cannot express live in `crossCheck`.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
//   • Section dividers use the simple comment style requested.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the tag errors, or the first cross-field error, or
// nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config: %s fails %q: %w", verrs[0].Namespace(), verrs[0].Tag(), err)
		}
		return err
	}
	return crossCheck(c)
}

func crossCheck(c *Config) error {
	if c.Metrics.Enabled && c.Metrics.Path == "/" {
		return errors.New("config: metrics.path must not be the site root")
	}
	if c.HTTP.ShutdownTimeout > time.Minute {
		return fmt.Errorf("config: http.shutdown_timeout %s exceeds 1m", c.HTTP.ShutdownTimeout)
	}
	return nil
}
