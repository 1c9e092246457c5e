package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigDir is the config directory relative to the home directory.
	ConfigDir = ".config/sx-monitor"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.json"
	// LogFileName is the default alert log file name.
	LogFileName = "health.log"
	// EnvPrefix is the prefix for environment overrides (SXMON_CPU_THRESHOLD, ...).
	EnvPrefix = "SXMON"
)

// DefaultPath returns ~/.config/sx-monitor/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't determine home directory",
			"Set $HOME or pass --config explicitly.")
	}
	return filepath.Join(home, ConfigDir, ConfigFileName), nil
}

// Resolve returns the explicit path if set, otherwise the default path.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return ExpandTilde(explicit), nil
	}
	return DefaultPath()
}

// Load reads the config document at path with SXMON_* environment overrides
// applied. A missing file is not an error: every key falls back to its default.
func Load(path string) (Config, error) {
	return load(path, true)
}

// LoadFile reads the config document at path ignoring the environment. Use it
// for the base of a config that will be written back with Save.
func LoadFile(path string) (Config, error) {
	return load(path, false)
}

func load(path string, env bool) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType(configType(path))
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
					"Failed to read config file "+path,
					"Check the file is valid JSON, or delete it to start from defaults.")
			}
		} else if !os.IsNotExist(err) {
			return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file "+path,
				"Check file permissions.")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the value types in "+path)
	}

	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create config directory "+filepath.Dir(path),
			"Check your permissions.")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't encode config",
			"This is unexpected - check the config values.")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't write config file "+path,
			"Check your permissions.")
	}
	return nil
}

// setDefaults registers every key so that missing keys and SXMON_* env vars resolve.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("cpu_threshold", d.CPUThreshold)
	v.SetDefault("memory_threshold", d.MemoryThreshold)
	v.SetDefault("disk_threshold", d.DiskThreshold)
	v.SetDefault("temperature_threshold", d.TemperatureThreshold)
	v.SetDefault("check_interval", d.CheckInterval)
	v.SetDefault("alert_enabled", d.AlertEnabled)
	v.SetDefault("log_enabled", d.LogEnabled)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("report_dir", d.ReportDir)
}

// configType picks the viper decoder from the file extension, defaulting to JSON.
func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}
