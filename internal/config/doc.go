// SPDX-License-Identifier: MPL-2.0

// Package config loads archsh settings using Viper with TOML as the file format.
//
// Configuration is read from the file given with --config, otherwise from
// config.toml in the archsh configuration directory ($XDG_CONFIG_HOME/archsh
// on Linux, ~/Library/Application Support/archsh on macOS, %APPDATA%\archsh on
// Windows), otherwise from ./config.toml. Every file is validated against an
// embedded CUE schema (config_schema.cue) before it is merged over the
// defaults. ARCHSH_* environment variables override file values.
package config
