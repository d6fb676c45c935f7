package internal

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tuannm99/rowdb/internal/engine"
	"github.com/tuannm99/rowdb/internal/record"
	"github.com/tuannm99/rowdb/internal/storage"
)

type RowDBConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		PageSize int  `mapstructure:"page_size"`
		MaxPages int  `mapstructure:"max_pages"`
		Strict   bool `mapstructure:"strict"`
	} `mapstructure:"storage"`

	Layout struct {
		UsernameSize int `mapstructure:"username_size"`
		EmailSize    int `mapstructure:"email_size"`
	} `mapstructure:"layout"`

	REPL struct {
		Prompt      string `mapstructure:"prompt"`
		HistoryFile string `mapstructure:"history_file"`
		HistoryMax  int    `mapstructure:"history_max"`
	} `mapstructure:"repl"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// EngineOptions maps the storage and layout sections onto engine.Options.
func (c *RowDBConfig) EngineOptions() engine.Options {
	return engine.Options{
		PageSize: c.Storage.PageSize,
		MaxPages: c.Storage.MaxPages,
		Strict:   c.Storage.Strict,
		Layout: record.Layout{
			UsernameCap: c.Layout.UsernameSize,
			EmailCap:    c.Layout.EmailSize,
		},
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rowdb_history"
	}
	return filepath.Join(home, ".rowdb_history")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "rowdb")
	v.SetDefault("storage.page_size", storage.DefaultPageSize)
	v.SetDefault("storage.max_pages", storage.DefaultMaxPages)
	v.SetDefault("storage.strict", false)
	v.SetDefault("layout.username_size", record.DefaultUsernameCap)
	v.SetDefault("layout.email_size", record.DefaultEmailCap)
	v.SetDefault("repl.prompt", "db > ")
	v.SetDefault("repl.history_file", defaultHistoryPath())
	v.SetDefault("repl.history_max", 2000)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"page-size":  "storage.page_size",
	"max-pages":  "storage.max_pages",
	"strict":     "storage.strict",
	"history":    "repl.history_file",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// RegisterFlags adds the flags understood by LoadConfig to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.Int("page-size", storage.DefaultPageSize, "page size in bytes")
	fs.Int("max-pages", storage.DefaultMaxPages, "maximum number of pages")
	fs.Bool("strict", false, "reject files with a trailing partial row")
	fs.String("history", defaultHistoryPath(), "history file path (empty disables)")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")
}

// LoadConfig resolves the config from defaults, an optional YAML file,
// ROWDB_* environment variables and, when fs is not nil, flags that were set.
// Later sources win.
func LoadConfig(path string, fs *pflag.FlagSet) (*RowDBConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ROWDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg RowDBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var ErrInvalidConfig = errors.New("config: invalid value")

func (c *RowDBConfig) validate() error {
	if c.Storage.PageSize <= 0 {
		return fmt.Errorf("%w: storage.page_size=%d", ErrInvalidConfig, c.Storage.PageSize)
	}
	if c.Storage.MaxPages <= 0 {
		return fmt.Errorf("%w: storage.max_pages=%d", ErrInvalidConfig, c.Storage.MaxPages)
	}
	if c.Layout.UsernameSize <= 0 || c.Layout.EmailSize <= 0 {
		return fmt.Errorf("%w: layout sizes must be positive", ErrInvalidConfig)
	}
	rowSize := c.EngineOptions().Layout.RowSize()
	if c.Storage.PageSize < rowSize {
		return fmt.Errorf("%w: storage.page_size=%d below row size %d", ErrInvalidConfig, c.Storage.PageSize, rowSize)
	}
	if uint64(c.Storage.PageSize/rowSize)*uint64(c.Storage.MaxPages) > math.MaxUint32 {
		return fmt.Errorf("%w: storage.max_pages=%d gives more than %d rows",
			ErrInvalidConfig, c.Storage.MaxPages, uint32(math.MaxUint32))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format=%q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
