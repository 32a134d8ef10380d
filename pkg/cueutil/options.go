// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the amount of CUE/JSON accepted by ParseAndDecode.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// Option configures ParseAndDecode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename sets the name used as the prefix of every error message.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether every field must resolve to a concrete value.
// Optional-heavy inputs such as the config file disable it.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
