// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/archsh/archsh/pkg/types"
)

const (
	// DefaultSSHHost is the interface the SSH adapter binds to by default.
	DefaultSSHHost = "127.0.0.1"
	// DefaultSSHPort is the port the SSH adapter binds to by default.
	DefaultSSHPort types.ListenPort = 2222
	// DefaultHostKeyFile is the host key file name inside the config directory.
	DefaultHostKeyFile = "ssh_host_ed25519"
)

var (
	// ErrConfig is the sentinel error wrapped by every configuration error.
	ErrConfig = errors.New("invalid configuration")
	// ErrMissingSettings is the sentinel error wrapped by MissingSettingsError.
	ErrMissingSettings = errors.New("missing required settings")
)

type (
	// Config is the complete archsh configuration.
	Config struct {
		// Username is shown in the prompt and recorded in the audit log.
		Username string `toml:"username" mapstructure:"username"`
		// Hostname is shown in the prompt.
		Hostname string `toml:"hostname" mapstructure:"hostname"`
		// FilesystemPath is the archive backing the virtual filesystem.
		FilesystemPath types.FilesystemPath `toml:"filesystem_path" mapstructure:"filesystem_path"`
		// LogPath is the JSON-lines audit log.
		LogPath types.FilesystemPath `toml:"log_path" mapstructure:"log_path"`
		// Archive tunes archive access.
		Archive ArchiveConfig `toml:"archive" mapstructure:"archive"`
		// Audit tunes audit records.
		Audit AuditConfig `toml:"audit" mapstructure:"audit"`
		// SSH configures `archsh serve`.
		SSH SSHConfig `toml:"ssh" mapstructure:"ssh"`
		// UI configures the terminal front ends.
		UI UIConfig `toml:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty when
		// only defaults and environment were used.
		Source string `toml:"-" mapstructure:"-"`
	}

	// ArchiveConfig tunes archive access.
	ArchiveConfig struct {
		// ReadTimeout bounds each archive scan; zero means unbounded.
		ReadTimeout time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
		// CacheMembers keeps tailed members in memory.
		CacheMembers bool `toml:"cache_members" mapstructure:"cache_members"`
	}

	// AuditConfig tunes audit records.
	AuditConfig struct {
		// RecordArguments stores the full input line instead of the action name.
		RecordArguments bool `toml:"record_arguments" mapstructure:"record_arguments"`
	}

	// SSHConfig configures the SSH adapter.
	SSHConfig struct {
		Host        string               `toml:"host" mapstructure:"host"`
		Port        types.ListenPort     `toml:"port" mapstructure:"port"`
		HostKeyPath types.FilesystemPath `toml:"host_key_path" mapstructure:"host_key_path"`
	}

	// UIConfig configures the terminal front ends.
	UIConfig struct {
		// Verbose enables debug diagnostics on stderr.
		Verbose bool `toml:"verbose" mapstructure:"verbose"`
	}

	// MissingSettingsError lists every required setting that is absent or blank.
	MissingSettingsError struct {
		Fields []string
	}

	// InvalidConfigError is returned when one or more settings are malformed.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		SSH: SSHConfig{
			Host: DefaultSSHHost,
			Port: DefaultSSHPort,
		},
	}
}

// Validate checks the required settings first, then the typed optional ones.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"username", c.Username},
		{"hostname", c.Hostname},
		{"filesystem_path", string(c.FilesystemPath)},
		{"log_path", string(c.LogPath)},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingSettingsError{Fields: missing}
	}

	var errs []error
	if err := c.SSH.Port.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ssh.port: %w", err))
	}
	if c.Archive.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("archive.read_timeout: must not be negative, got %s", c.Archive.ReadTimeout))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for MissingSettingsError.
func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSettings, strings.Join(e.Fields, ", "))
}

// Unwrap exposes ErrMissingSettings and ErrConfig.
func (e *MissingSettingsError) Unwrap() []error { return []error{ErrMissingSettings, ErrConfig} }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConfig, strings.Join(msgs, "; "))
}

// Unwrap exposes ErrConfig and each field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrConfig}, e.FieldErrors...)
}
