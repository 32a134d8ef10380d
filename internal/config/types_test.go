// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_Validate(t *testing.T) {
	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		assert.NoError(t, level.Validate(), level)
	}

	err := LogLevel("trace").Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
	assert.Contains(t, err.Error(), `"trace"`)

	assert.Error(t, LogLevel("").Validate())
}

func TestBinaryFilePath_Validate(t *testing.T) {
	assert.NoError(t, BinaryFilePath("").Validate())
	assert.NoError(t, BinaryFilePath("cargo").Validate())
	assert.NoError(t, BinaryFilePath("/usr/local/bin/wasmer").Validate())

	err := BinaryFilePath("   ").Validate()
	assert.ErrorIs(t, err, ErrInvalidBinaryFilePath)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.CargoBinary = " "
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
	assert.ErrorIs(t, err, ErrInvalidBinaryFilePath)

	var cfgErr *InvalidConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.FieldErrors, 2)
	assert.Contains(t, err.Error(), "cargo_binary")
	assert.Contains(t, err.Error(), "log_level")
}
