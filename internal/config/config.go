// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/internal/issue"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cueutil"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "cargo-wasmer"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CARGO_WASMER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the cargo-wasmer configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return types.FilesystemPath(filepath.Join(configDir, AppName)), nil
}

// ConfigFilePath returns the path of the user config file inside dir.
//
//nolint:revive // mirrors ConfigDir
func ConfigFilePath(dir types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(dir), ConfigFileName+"."+ConfigFileExt))
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the config and the file it came from, which
// is empty when only defaults and the environment applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := newViper()

	var resolvedPath types.FilesystemPath

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(string(opts.ConfigFilePath)).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'cargo wasmer config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			dir, err := ConfigDir()
			if err != nil {
				return nil, "", err
			}
			cfgDir = dir
		}

		if candidate := ConfigFilePath(cfgDir); fileExists(candidate) {
			resolvedPath = candidate
		} else if local := ConfigFilePath(opts.BaseDir); fileExists(local) {
			resolvedPath = local
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(string(resolvedPath)).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check the " + EnvPrefix + "_* environment variables").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance with defaults and environment bindings.
// When cargo runs a subcommand it exports CARGO, which wins over the
// prefixed variable for the cargo binary.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("cargo_binary", string(defaults.CargoBinary))
	v.SetDefault("wasmer_binary", string(defaults.WasmerBinary))
	v.SetDefault("out_dir", string(defaults.OutDir))
	v.SetDefault("log_level", string(defaults.LogLevel))
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// BindEnv only fails when called without a key.
	_ = v.BindEnv("cargo_binary", "CARGO", EnvPrefix+"_CARGO_BINARY")
	_ = v.BindEnv("wasmer_binary", EnvPrefix+"_WASMER_BINARY")
	_ = v.BindEnv("out_dir", EnvPrefix+"_OUT_DIR")
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG", EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("verbose", EnvPrefix+"_VERBOSE")

	return v
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to a map rather than a struct so Viper keeps its defaults
// and environment precedence for keys the file leaves out.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, string(path)); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(string(path)))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), string(path))
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, string(path))
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, string(path))
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into dir unless one
// already exists. It returns the file path and whether it was created.
func CreateDefaultConfig(dir types.FilesystemPath) (types.FilesystemPath, bool, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", false, err
		}
		dir = d
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := ConfigFilePath(dir)
	if _, err := os.Stat(string(cfgPath)); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(string(cfgPath), []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// cargo-wasmer configuration file\n")
	sb.WriteString("// Every key can be overridden with a CARGO_WASMER_* environment variable.\n\n")

	fmt.Fprintf(&sb, "cargo_binary: %q\n", cfg.CargoBinary)
	fmt.Fprintf(&sb, "wasmer_binary: %q\n", cfg.WasmerBinary)
	if cfg.OutDir != "" {
		fmt.Fprintf(&sb, "out_dir: %q\n", cfg.OutDir)
	}
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)

	return sb.String()
}
