package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/baretest/internal/descriptor"
	"github.com/roach88/baretest/internal/scan"
)

// LoadResult contains the scanned module and its manifest.
type LoadResult struct {
	Module   *descriptor.Module
	Manifest *descriptor.Manifest
}

// LoadError represents a command-level failure: the package could not be
// read at all, as opposed to a package that was read and found invalid.
// Commands map it to ExitCommandError.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadPackage scans a package directory, loads its manifest and validates
// the result. All validation errors are collected and returned together;
// a non-nil error means the command could not run at all (directory
// missing or unreadable) and no validation was attempted.
func LoadPackage(dir string, formatter *OutputFormatter) (*LoadResult, []descriptor.ValidationError, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil, &LoadError{Code: scan.ErrParseFailed, Message: fmt.Sprintf("package directory not found: %s", dir)}
	}
	if err != nil {
		return nil, nil, &LoadError{Code: scan.ErrParseFailed, Message: fmt.Sprintf("error accessing package directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, nil, &LoadError{Code: scan.ErrParseFailed, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	scanner := scan.New()
	if formatter != nil && formatter.Verbose {
		w := formatter.ErrWriter
		if w == nil {
			w = formatter.Writer
		}
		scanner.Log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	module, scanErrs := scanner.Package(dir)
	if module == nil {
		// The scanner found nothing to work with; treat as a command
		// error rather than a validation failure.
		msg := fmt.Sprintf("no scannable Go package in %s", dir)
		if len(scanErrs) > 0 {
			msg = scanErrs[0].Message
		}
		code := scan.ErrNoGoFiles
		if len(scanErrs) > 0 {
			code = scanErrs[0].Code
		}
		return nil, nil, &LoadError{Code: code, Message: msg}
	}

	if formatter != nil {
		formatter.VerboseLog("Scanned package %q: %d case(s)", module.Package, len(module.Cases))
	}

	errs := scanErrs

	manifest, manErr := descriptor.LoadManifestDir(dir)
	if manErr != nil {
		var verr descriptor.ValidationError
		if errors.As(manErr, &verr) {
			errs = append(errs, verr)
		} else {
			errs = append(errs, descriptor.ValidationError{
				Code:    descriptor.ErrManifestSchema,
				Field:   "manifest",
				Message: manErr.Error(),
			})
		}
		// The load error already covers the manifest; validating the nil
		// manifest as well would report the same problem twice.
		errs = append(errs, descriptor.ValidateModule(module)...)
		return &LoadResult{Module: module}, errs, nil
	}

	errs = append(errs, descriptor.Validate(module, manifest)...)

	return &LoadResult{Module: module, Manifest: manifest}, errs, nil
}

// silentFormatter discards all output. Used by helpers that load a
// package without reporting.
func silentFormatter() *OutputFormatter {
	return &OutputFormatter{Format: "text", Writer: io.Discard}
}
