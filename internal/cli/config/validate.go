package config

import (
	"errors"
	"fmt"
	"path"
	"regexp"

	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	core "github.com/leapstack-labs/pyshrink/pkg/config"
	"github.com/leapstack-labs/pyshrink/pkg/pyversion"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.TokenTypes.TypeHints != "" {
		if _, err := core.ParseTypeHints(c.TokenTypes.TypeHints); err != nil {
			errs = append(errs, fmt.Errorf("token_types.type_hints: %w", err))
		}
	}
	if c.TargetVersion != "" {
		if _, err := pyversion.Parse(c.TargetVersion); err != nil {
			errs = append(errs, fmt.Errorf("target_version: %w", err))
		}
	}
	if !output.Valid(c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output_format: unknown format %q (expected auto, text, markdown or json)", c.OutputFormat))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}
	if c.InPlace && c.OutDir != "" {
		errs = append(errs, errors.New("out_dir and in_place are mutually exclusive"))
	}

	for i, r := range c.Replacements {
		if r.Pattern == "" {
			errs = append(errs, fmt.Errorf("replacements[%d]: pattern is required", i))
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("replacements[%d]: %w", i, err))
		}
		for _, glob := range r.Files {
			if _, err := path.Match(glob, ""); err != nil {
				errs = append(errs, fmt.Errorf("replacements[%d]: bad file pattern %q", i, glob))
			}
		}
	}

	return errors.Join(errs...)
}
