package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/flowgrant/internal/domain/values"
)

var validate = validator.New()

// Validate checks the decoded config values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid host config:\n    - %s", strings.Join(messages, "\n    - "))
		}
		return fmt.Errorf("invalid host config: %w", err)
	}

	version, err := values.ParsePlatformVersion(c.Platform.Version)
	if err != nil {
		return fmt.Errorf("invalid host config: %w", err)
	}
	if _, err := version.Satisfies(c.Platform.RuntimeGrantsSince); err != nil {
		return fmt.Errorf("invalid host config: %w", err)
	}

	for _, key := range c.Policy.Granted {
		for _, revoked := range c.Policy.Revoked {
			if key == revoked {
				return fmt.Errorf("invalid host config: key %q is both granted and revoked", key)
			}
		}
	}
	return nil
}
