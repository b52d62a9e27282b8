package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/reuse/internal/logging"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDBFile   = "db_file"
	cfgKeyLogLevel = "log_level"

	envLogLevel = "REUSE_LOG_LEVEL"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DBFile   string `yaml:"db_file"`
	LogLevel string `yaml:"log_level"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error. REUSE_LOG_LEVEL overrides log_level.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates configDir and a config.yaml pointing at dbFile
// unless the file already exists. It reports whether a file was written.
func writeConfigIfMissing(configDir, dbFile string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	path := configPathIn(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{DBFile: dbFile, LogLevel: logging.DefaultLevel})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func configPathIn(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
