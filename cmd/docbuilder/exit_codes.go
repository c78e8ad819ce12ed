package main

import (
	"errors"
	"os"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/config"
	"github.com/ortam/docbuilder/internal/store"
	"github.com/ortam/docbuilder/internal/yamlutil"
)

// Exit codes for the docbuilder CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input document
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// CLI sentinel errors.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadInput    = errors.New("failed to read input")
	ErrInvalidInput = errors.New("invalid input document")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrDatabase     = errors.New("failed to open database")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docbuilder.ErrBrowserLaunch) ||
		errors.Is(err, docbuilder.ErrBrowserConnect) ||
		errors.Is(err, docbuilder.ErrPageCreate) ||
		errors.Is(err, docbuilder.ErrPageLoad) ||
		errors.Is(err, docbuilder.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrDatabase) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, yamlutil.ErrInputTooLarge) ||
		errors.Is(err, store.ErrUnsupportedDriver) ||
		errors.Is(err, docbuilder.ErrMissingDocType) ||
		errors.Is(err, docbuilder.ErrInvalidPrice) ||
		errors.Is(err, docbuilder.ErrStyleNotFound) ||
		errors.Is(err, docbuilder.ErrInvalidAssetPath) ||
		errors.Is(err, docbuilder.ErrTemplateLoad) {
		return ExitUsage
	}

	return ExitGeneral
}
