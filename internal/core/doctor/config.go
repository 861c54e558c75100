package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/codereview/internal/core/config"
)

// ConfigCheck reports on the config file and its deep validation.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); err != nil {
		result.Items = append(result.Items, warn("config file", "not found, using defaults ("+c.path+")"))
	} else {
		result.Items = append(result.Items, pass("config file", c.path))
	}

	err := c.cfg.ValidateDeep("")
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
		result.Items = append(result.Items, pass("validation", ""))
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.Items = append(result.Items, fail(fe.Field, fe.Err.Error()))
		}
	default:
		result.Items = append(result.Items, fail("validation", err.Error()))
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += "." + w.Item
		}
		result.Items = append(result.Items, warn(label, w.Message))
	}

	return result
}
