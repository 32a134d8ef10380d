// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const (
	// LogLevelDebug logs every subprocess invocation and skipped package.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs progress per package.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidBinaryFilePath is the sentinel error wrapped by InvalidBinaryFilePathError.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level that is logged.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// BinaryFilePath is a program name or path to an executable.
	// The zero value means "use the default program name".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath is
	// whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// CargoBinary is the cargo executable.
		CargoBinary BinaryFilePath `json:"cargo_binary" mapstructure:"cargo_binary"`
		// WasmerBinary is the wasmer executable used to publish.
		WasmerBinary BinaryFilePath `json:"wasmer_binary" mapstructure:"wasmer_binary"`
		// OutDir replaces <target-dir>/wasmer as the bundle directory.
		OutDir types.FilesystemPath `json:"out_dir" mapstructure:"out_dir"`
		// LogLevel is the default log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Verbose enables debug logging and error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CargoBinary:  "cargo",
		WasmerBinary: "wasmer",
		LogLevel:     LogLevelInfo,
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the LogLevel is not recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (expected debug, info, warn or error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// Validate returns an error if the path is non-empty but whitespace-only.
func (p BinaryFilePath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidBinaryFilePathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// Validate checks every field and reports all problems together.
func (c *Config) Validate() error {
	var errs []error
	if err := c.CargoBinary.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cargo_binary: %w", err))
	}
	if err := c.WasmerBinary.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wasmer_binary: %w", err))
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
