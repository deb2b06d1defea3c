// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/archsh/archsh/internal/issue"
	"github.com/archsh/archsh/pkg/cueutil"
	"github.com/archsh/archsh/pkg/fspath"
	"github.com/archsh/archsh/pkg/types"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "archsh"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix prefixes environment overrides, e.g. ARCHSH_SSH_PORT.
	EnvPrefix = "ARCHSH"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the archsh configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
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
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions resolves, validates and decodes the configuration.
// It returns the path of the file that was read, empty if none.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, cfgDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolvePath(opts, cfgDir)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadTOMLIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid TOML syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'archsh config init --print' to see a valid template").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	return &cfg, resolvedPath, nil
}

// resolvePath applies the lookup order: explicit file, config directory,
// then the working directory. An explicit file must exist.
func resolvePath(opts LoadOptions, cfgDir string) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'archsh config init' to create a configuration file").
				Wrap(fmt.Errorf("%w: config file not found: %s", ErrConfig, path)).
				BuildError()
		}
		return path, nil
	}

	fileName := ConfigFileName + "." + ConfigFileExt
	for _, candidate := range []string{filepath.Join(cfgDir, fileName), fileName} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// setDefaults registers every key so environment overrides apply even when
// the file omits them.
func setDefaults(v *viper.Viper, cfgDir string) {
	defaults := DefaultConfig()
	v.SetDefault("username", defaults.Username)
	v.SetDefault("hostname", defaults.Hostname)
	v.SetDefault("filesystem_path", string(defaults.FilesystemPath))
	v.SetDefault("log_path", string(defaults.LogPath))
	v.SetDefault("archive.read_timeout", defaults.Archive.ReadTimeout)
	v.SetDefault("archive.cache_members", defaults.Archive.CacheMembers)
	v.SetDefault("audit.record_arguments", defaults.Audit.RecordArguments)
	v.SetDefault("ssh.host", defaults.SSH.Host)
	v.SetDefault("ssh.port", int(defaults.SSH.Port))
	v.SetDefault("ssh.host_key_path", string(fspath.JoinStr(types.FilesystemPath(cfgDir), DefaultHostKeyFile)))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// loadTOMLIntoViper decodes a TOML file, validates it against the #Config
// schema, and merges its contents into Viper.
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%w: %s:%d:%d: %s", ErrConfig, path, row, col, derr.Error())
		}
		return fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}

	validated, err := cueutil.ValidateMap(configSchema, "#Config", raw, cueutil.WithFilename(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if err := v.MergeConfigMap(validated); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DefaultConfigPath returns where CreateDefaultConfig writes.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CreateDefaultConfig writes a template to path unless a file already exists
// there. It reports whether a file was written.
func CreateDefaultConfig(path string, cfg *Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := GenerateTOML(cfg)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateTOML renders cfg as a config.toml document.
func GenerateTOML(cfg *Config) ([]byte, error) {
	doc := tomlDocument{
		Username:       cfg.Username,
		Hostname:       cfg.Hostname,
		FilesystemPath: string(cfg.FilesystemPath),
		LogPath:        string(cfg.LogPath),
		Archive: tomlArchive{
			ReadTimeout:  cfg.Archive.ReadTimeout.String(),
			CacheMembers: cfg.Archive.CacheMembers,
		},
		Audit: tomlAudit{RecordArguments: cfg.Audit.RecordArguments},
		SSH: tomlSSH{
			Host:        cfg.SSH.Host,
			Port:        int(cfg.SSH.Port),
			HostKeyPath: string(cfg.SSH.HostKeyPath),
		},
		UI: tomlUI{Verbose: cfg.UI.Verbose},
	}

	var buf bytes.Buffer
	buf.WriteString("# archsh configuration file\n\n")
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

type (
	// tomlDocument mirrors Config with durations as strings, the form the
	// schema accepts.
	tomlDocument struct {
		Username       string      `toml:"username"`
		Hostname       string      `toml:"hostname"`
		FilesystemPath string      `toml:"filesystem_path"`
		LogPath        string      `toml:"log_path"`
		Archive        tomlArchive `toml:"archive"`
		Audit          tomlAudit   `toml:"audit"`
		SSH            tomlSSH     `toml:"ssh"`
		UI             tomlUI      `toml:"ui"`
	}

	tomlArchive struct {
		ReadTimeout  string `toml:"read_timeout"`
		CacheMembers bool   `toml:"cache_members"`
	}

	tomlAudit struct {
		RecordArguments bool `toml:"record_arguments"`
	}

	tomlSSH struct {
		Host        string `toml:"host"`
		Port        int    `toml:"port"`
		HostKeyPath string `toml:"host_key_path,omitempty"`
	}

	tomlUI struct {
		Verbose bool `toml:"verbose"`
	}
)
