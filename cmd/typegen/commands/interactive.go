package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-typegen/pkg/codegen"
)

// promptGenerate asks for every setting not given on the command line and
// confirms before anything is written. It reports whether to proceed.
func promptGenerate(ctx context.Context, driver PromptDriver, flags *generateFlags, options *codegen.Options, languages []string) (bool, error) {
	if driver == nil {
		return false, errors.New("interactive mode needs a prompt driver")
	}

	if flags.from == "" {
		from, err := driver.Input(ctx, InputConfig{
			Message:   "OpenAPI document",
			Help:      "File path, http(s) URL, or - to read stdin.",
			Validator: required("document"),
		})
		if err != nil {
			return false, err
		}
		flags.from = strings.TrimSpace(from)
	}

	if flags.to == "" {
		to, err := driver.Input(ctx, InputConfig{
			Message:   "Output directory",
			Default:   options.OutputDirectory,
			Validator: required("output directory"),
		})
		if err != nil {
			return false, err
		}
		options.OutputDirectory = strings.TrimSpace(to)
	}

	if flags.namespace == "" {
		suggested := options.WithDefaults().Namespace
		namespace, err := driver.Input(ctx, InputConfig{
			Message: "Package name",
			Default: suggested,
		})
		if err != nil {
			return false, err
		}
		options.Namespace = strings.TrimSpace(namespace)
	}

	if flags.language == "" && len(languages) > 1 {
		index, err := driver.Select(ctx, SelectConfig{
			Message: "Target language",
			Options: languages,
		})
		if err != nil {
			return false, err
		}
		if index >= 0 {
			flags.language = languages[index]
		}
	}

	if flags.dryRun {
		return true, nil
	}
	return driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Write generated files to %s?", options.OutputDirectory),
		Default: true,
	})
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
