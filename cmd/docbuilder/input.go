package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ortam/docbuilder/internal/yamlutil"
)

// readYAMLInput decodes a CLI input file, classifying failures as I/O
// or invalid input for exitCodeFor.
func readYAMLInput(path string, v any) error {
	err := yamlutil.ReadFileStrict(path, v)
	if err == nil {
		return nil
	}

	var pathErr *fs.PathError
	switch {
	case errors.As(err, &pathErr):
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	case errors.Is(err, yamlutil.ErrInputTooLarge):
		return fmt.Errorf("%s: %w", path, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, path, err)
	}
}
