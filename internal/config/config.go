// Package config loads the WaveLink configuration from defaults, an optional
// YAML file, WAVELINK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/inovacc/wavelink/internal/application"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Configuration keys
const (
	KeyDataDir             = "data_dir"
	KeyStoreBackend        = "store.backend"
	KeyStoreSlot           = "store.slot"
	KeyStorePath           = "store.path"
	KeyStoreDSN            = "store.dsn"
	KeyAttachmentsDir      = "attachments.dir"
	KeyAttachmentExtension = "attachments.extension"
	KeyExportFileName      = "export.file_name"
	KeyExportStrict        = "export.strict"
	KeyPlayerCommand       = "player.command"
	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
)

// Default values
const (
	DefaultBackend             = BackendBolt
	DefaultSlot                = "students"
	DefaultAttachmentExtension = ".m4a"
	DefaultExportFileName      = "students.txt"
	DefaultPlayerCommand       = "ffplay -nodisp -autoexit -loglevel quiet"
	DefaultLogLevel            = "warn"
	DefaultLogFormat           = "text"
	configName                 = "config"
)

// Config holds the effective configuration.
type Config struct {
	// DataDir is the base directory for the database and attachments
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	Store       StoreConfig       `mapstructure:"store" json:"store"`
	Attachments AttachmentsConfig `mapstructure:"attachments" json:"attachments"`
	Export      ExportConfig      `mapstructure:"export" json:"export"`
	Player      PlayerConfig      `mapstructure:"player" json:"player"`
	Log         LogConfig         `mapstructure:"log" json:"log"`

	// File is the config file that was read, empty when none
	File string `mapstructure:"-" json:"file,omitempty"`
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" json:"backend"`
	Slot    string `mapstructure:"slot" json:"slot"`
	Path    string `mapstructure:"path" json:"path,omitempty"`
	DSN     string `mapstructure:"dsn" json:"-"`
}

// AttachmentsConfig locates recorded audio.
type AttachmentsConfig struct {
	Dir       string `mapstructure:"dir" json:"dir"`
	Extension string `mapstructure:"extension" json:"extension"`
}

// ExportConfig controls the export artifact.
type ExportConfig struct {
	FileName string `mapstructure:"file_name" json:"file_name"`
	Strict   bool   `mapstructure:"strict" json:"strict"`
}

// PlayerConfig is the external command used for playback.
type PlayerConfig struct {
	Command string `mapstructure:"command" json:"command"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()

	dataDir, err := application.DataDir()
	if err != nil {
		dataDir = "." + application.AppName
	}

	v.SetDefault(KeyDataDir, dataDir)
	v.SetDefault(KeyStoreBackend, DefaultBackend)
	v.SetDefault(KeyStoreSlot, DefaultSlot)
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyStoreDSN, "")
	v.SetDefault(KeyAttachmentsDir, "")
	v.SetDefault(KeyAttachmentExtension, DefaultAttachmentExtension)
	v.SetDefault(KeyExportFileName, DefaultExportFileName)
	v.SetDefault(KeyExportStrict, false)
	v.SetDefault(KeyPlayerCommand, DefaultPlayerCommand)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)

	v.SetEnvPrefix(application.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags maps command-line flags to configuration keys. Flags missing
// from fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	return nil
}

// Load reads the optional config file and returns the resolved configuration.
// When file is empty, config.yaml (or .json/.toml) is looked up in the data
// directory; a missing file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(v.GetString(KeyDataDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolve fills derived paths and validates enumerations.
func (c *Config) resolve() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))

	switch c.Store.Backend {
	case BackendBolt:
		if c.Store.Path == "" {
			c.Store.Path = filepath.Join(c.DataDir, application.AppName+".bolt")
		}
	case BackendSQLite:
		if c.Store.Path == "" {
			c.Store.Path = filepath.Join(c.DataDir, application.AppName+".db")
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Store.Slot == "" {
		c.Store.Slot = DefaultSlot
	}

	if c.Attachments.Dir == "" {
		c.Attachments.Dir = filepath.Join(c.DataDir, "attachments")
	}

	if c.Attachments.Extension != "" && !strings.HasPrefix(c.Attachments.Extension, ".") {
		c.Attachments.Extension = "." + c.Attachments.Extension
	}

	if c.Export.FileName == "" {
		c.Export.FileName = DefaultExportFileName
	}

	if strings.ContainsAny(c.Export.FileName, `/\`) {
		return fmt.Errorf("export.file_name must be a bare file name, got %q", c.Export.FileName)
	}

	return nil
}
