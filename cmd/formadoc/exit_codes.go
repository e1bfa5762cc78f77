package main

import (
	"errors"
	"os"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/config"
)

// errUsage signals invalid invocation.
var errUsage = errors.New("invalid usage")

// Exit codes for the formadoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful generation
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, asset fetch
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, formadoc.ErrBrowserConnect) ||
		errors.Is(err, formadoc.ErrPageCreate) ||
		errors.Is(err, formadoc.ErrPageLoad) ||
		errors.Is(err, formadoc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, formadoc.ErrTemplateFetch) ||
		errors.Is(err, formadoc.ErrSignatureFetch) ||
		errors.Is(err, formadoc.ErrLocalSave) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, errUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidAssets) ||
		errors.Is(err, formadoc.ErrMissingSignatureDate) ||
		errors.Is(err, formadoc.ErrNoRecipients) ||
		errors.Is(err, formadoc.ErrEmptySession) ||
		errors.Is(err, formadoc.ErrLayoutParse) ||
		errors.Is(err, formadoc.ErrLayoutMissingField) ||
		errors.Is(err, formadoc.ErrEmptyConvention) {
		return ExitUsage
	}

	return ExitGeneral
}
