package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/go-delve/leb128/pkg/logflags"
)

const (
	configDir       string = "leb128"
	configDirHidden string = ".leb128"
	configFile      string = "config.yml"
	historyFile     string = ".leb128_history"
)

const (
	DefaultType         = "u64"
	DefaultMaxSize      = 16
	DefaultHistoryLimit = 500
)

// Config defines all configuration options available to be set through the config file.
type Config struct {
	// Commands aliases.
	Aliases map[string][]string `yaml:"aliases"`

	// DefaultType is the integer type used by encode and decode when no
	// --type flag is given, e.g. "u32", "i128" or "uint" for arbitrary width.
	DefaultType string `yaml:"default-type"`

	// MaxSize is the maximum number of bytes an arbitrary width decode may
	// produce.
	MaxSize *int `yaml:"max-size,omitempty"`

	// Output selects how encoded values are printed: "hex", "raw" or
	// "auto" (hex on a terminal, raw bytes otherwise).
	Output string `yaml:"output"`

	// HistoryLimit is the number of lines of repl history kept on disk.
	HistoryLimit *int `yaml:"history-limit,omitempty"`

	// ShowSize makes encode print the encoded length next to each value.
	ShowSize bool `yaml:"show-size"`
}

// Type returns the configured default type.
func (c *Config) Type() string {
	if c == nil || c.DefaultType == "" {
		return DefaultType
	}
	return c.DefaultType
}

// Limit returns the configured maximum size for arbitrary width decoding.
func (c *Config) Limit() int {
	if c == nil || c.MaxSize == nil {
		return DefaultMaxSize
	}
	return *c.MaxSize
}

// History returns the number of history lines to keep.
func (c *Config) History() int {
	if c == nil || c.HistoryLimit == nil {
		return DefaultHistoryLimit
	}
	return *c.HistoryLimit
}

// LoadConfig attempts to populate a Config object from the config.yml file.
// Any problem is logged and the defaults are returned instead.
func LoadConfig() *Config {
	logger := logflags.ConfigLogger()
	err := createConfigPath()
	if err != nil {
		logger.Warnf("Could not create config directory: %v.", err)
		return &Config{}
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		logger.Warnf("Unable to get config file path: %v.", err)
		return &Config{}
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		logger.Debugf("creating default configuration at %s", fullConfigFile)
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			logger.Warnf("Error creating default config file: %v", err)
			return &Config{}
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			logger.Warnf("Closing config file failed: %v.", err)
		}
	}()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		logger.Warnf("Unable to read config data: %v.", err)
		return &Config{}
	}

	var c Config
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		logger.Warnf("Unable to decode config file: %v.", err)
		return &Config{}
	}
	logger.Debugf("loaded %s", fullConfigFile)
	return &c
}

// SaveConfig will marshal and save the config struct
// to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	if err == nil {
		logflags.ConfigLogger().Debugf("saved %s", fullConfigFile)
	}
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for the leb128 tool.

# This is the default configuration file. Available options are provided, but disabled.
# Delete the leading hash mark to enable an item.

# Integer type used when --type is not given. One of
# u16, u32, u64, u128, i16, i32, i64, i128, uint or int.
# default-type: u64

# Maximum number of bytes produced when decoding uint or int values.
# max-size: 16

# How encoded values are printed: hex, raw or auto.
# output: auto

# Number of repl history lines kept in the history file.
# history-limit: 500

# Print the encoded length next to each encoded value.
# show-size: true

# Provided aliases will be added to the default aliases for a given repl command.
aliases:
  # command: ["alias1", "alias2"]
`)
	return err
}

// createConfigPath creates the directory structure at which all config files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
// $XDG_CONFIG_HOME/leb128 is used when XDG_CONFIG_HOME is set, otherwise
// ~/.leb128.
func GetConfigFilePath(file string) (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return path.Join(xdg, configDir, file), nil
	}
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDirHidden, file), nil
}

// GetHistoryFilePath returns the path of the repl history file.
func GetHistoryFilePath() (string, error) {
	return GetConfigFilePath(historyFile)
}
