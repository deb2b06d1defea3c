// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the largest configuration file accepted (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	options struct {
		concrete bool
		filename string
	}

	// Option configures validation.
	Option func(*options)
)

func defaultOptions() options {
	return options{concrete: true, filename: "<input>"}
}

// WithConcrete sets whether every field must be concrete after unification.
// Default is true; configuration with optional fields passes false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}
