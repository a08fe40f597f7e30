package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskflow.db"
	DefaultLogName        = "taskflow.log"
	DefaultRedisURL       = "redis://localhost:6379/0"
	DefaultRedisPrefix    = "taskflow:"
	DefaultSearchDelay    = 300 * time.Millisecond
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Keymap struct {
	Quit           string `toml:"quit" yaml:"quit"`
	Add            string `toml:"add" yaml:"add"`
	Up             string `toml:"up" yaml:"up"`
	Down           string `toml:"down" yaml:"down"`
	Toggle         string `toml:"toggle" yaml:"toggle"`
	Delete         string `toml:"delete" yaml:"delete"`
	Detail         string `toml:"detail" yaml:"detail"`
	Confirm        string `toml:"confirm" yaml:"confirm"`
	Cancel         string `toml:"cancel" yaml:"cancel"`
	Edit           string `toml:"edit" yaml:"edit"`
	Search         string `toml:"search" yaml:"search"`
	FilterStatus   string `toml:"filter_status" yaml:"filter_status"`
	FilterPriority string `toml:"filter_priority" yaml:"filter_priority"`
	FilterCategory string `toml:"filter_category" yaml:"filter_category"`
	ClearFilters   string `toml:"clear_filters" yaml:"clear_filters"`
	Move           string `toml:"move" yaml:"move"`
	Theme          string `toml:"theme" yaml:"theme"`
}

type StorageConfig struct {
	Backend     string `toml:"backend" yaml:"backend"`
	DBPath      string `toml:"db_path" yaml:"db_path"`
	RedisURL    string `toml:"redis_url" yaml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix" yaml:"redis_prefix"`
}

type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSize    int    `toml:"max_size" yaml:"max_size"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAge     int    `toml:"max_age" yaml:"max_age"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

type TasksConfig struct {
	DefaultCategory string   `toml:"default_category" yaml:"default_category"`
	Categories      []string `toml:"categories" yaml:"categories"`
	SearchDelay     string   `toml:"search_delay" yaml:"search_delay"`
}

type UIConfig struct {
	DefaultFilter string `toml:"default_filter" yaml:"default_filter"`
	Keys          Keymap `toml:"keys" yaml:"keys"`
}

type Config struct {
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Tasks   TasksConfig   `toml:"tasks" yaml:"tasks"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
}

// ResolveConfigPath returns $TASKFLOW_CONFIG, else the per-user config
// directory, else config.toml in the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TASKFLOW_CONFIG"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taskflow", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing defaults first when the file
// does not exist. The format follows the extension: .yaml/.yml or TOML.
// Relative data paths are resolved against the config file's directory and
// TASKFLOW_* environment variables are applied last.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := unmarshal(path, data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// SearchDelayDuration parses Tasks.SearchDelay, falling back to
// DefaultSearchDelay when it is empty or invalid.
func (c Config) SearchDelayDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Tasks.SearchDelay))
	if err != nil || d <= 0 {
		return DefaultSearchDelay
	}
	return d
}

// LockPath is the lock file guarding the local store.
func (c Config) LockPath() string {
	return c.Storage.DBPath + ".lock"
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return toml.Unmarshal(data, cfg)
}

func write(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("TASKFLOW_STORAGE"); val != "" {
		c.Storage.Backend = strings.ToLower(val)
	}
	if val := os.Getenv("TASKFLOW_DB_PATH"); val != "" {
		c.Storage.DBPath = val
	}
	if val := os.Getenv("TASKFLOW_REDIS_URL"); val != "" {
		c.Storage.RedisURL = val
	}
	if val := os.Getenv("TASKFLOW_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("TASKFLOW_LOG_FILE"); val != "" {
		c.Logging.File = val
	}
	if val := os.Getenv("TASKFLOW_SEARCH_DELAY"); val != "" {
		c.Tasks.SearchDelay = val
	}
}

// fillDefaults restores required values a config file left empty.
func (c *Config) fillDefaults() {
	def := defaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = def.Storage.DBPath
	}
	if c.Storage.RedisURL == "" {
		c.Storage.RedisURL = def.Storage.RedisURL
	}
	if c.Storage.RedisPrefix == "" {
		c.Storage.RedisPrefix = def.Storage.RedisPrefix
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if len(c.Tasks.Categories) == 0 {
		c.Tasks.Categories = def.Tasks.Categories
	}
	if c.Tasks.DefaultCategory == "" {
		c.Tasks.DefaultCategory = c.Tasks.Categories[0]
	}
	if c.UI.DefaultFilter == "" {
		c.UI.DefaultFilter = def.UI.DefaultFilter
	}
	c.UI.Keys = mergeKeys(c.UI.Keys, def.UI.Keys)
}

func (c *Config) resolvePaths(base string) {
	if c.Storage.DBPath != "" && !filepath.IsAbs(c.Storage.DBPath) && !strings.HasPrefix(c.Storage.DBPath, "file:") {
		c.Storage.DBPath = filepath.Join(base, c.Storage.DBPath)
	}
	if c.Logging.File != "" && !filepath.IsAbs(c.Logging.File) {
		c.Logging.File = filepath.Join(base, c.Logging.File)
	}
}

func mergeKeys(k, def Keymap) Keymap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Keymap{
		Quit:           pick(k.Quit, def.Quit),
		Add:            pick(k.Add, def.Add),
		Up:             pick(k.Up, def.Up),
		Down:           pick(k.Down, def.Down),
		Toggle:         pick(k.Toggle, def.Toggle),
		Delete:         pick(k.Delete, def.Delete),
		Detail:         pick(k.Detail, def.Detail),
		Confirm:        pick(k.Confirm, def.Confirm),
		Cancel:         pick(k.Cancel, def.Cancel),
		Edit:           pick(k.Edit, def.Edit),
		Search:         pick(k.Search, def.Search),
		FilterStatus:   pick(k.FilterStatus, def.FilterStatus),
		FilterPriority: pick(k.FilterPriority, def.FilterPriority),
		FilterCategory: pick(k.FilterCategory, def.FilterCategory),
		ClearFilters:   pick(k.ClearFilters, def.ClearFilters),
		Move:           pick(k.Move, def.Move),
		Theme:          pick(k.Theme, def.Theme),
	}
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			DBPath:      DefaultDBName,
			RedisURL:    DefaultRedisURL,
			RedisPrefix: DefaultRedisPrefix,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       DefaultLogName,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		},
		Tasks: TasksConfig{
			DefaultCategory: "工作",
			Categories:      []string{"工作", "学习", "生活", "健康", "娱乐"},
			SearchDelay:     DefaultSearchDelay.String(),
		},
		UI: UIConfig{
			DefaultFilter: "all",
			Keys: Keymap{
				Quit:           "q",
				Add:            "a",
				Up:             "k",
				Down:           "j",
				Toggle:         " ",
				Delete:         "d",
				Detail:         "i",
				Confirm:        "enter",
				Cancel:         "esc",
				Edit:           "e",
				Search:         "/",
				FilterStatus:   "f",
				FilterPriority: "p",
				FilterCategory: "c",
				ClearFilters:   "x",
				Move:           "m",
				Theme:          "t",
			},
		},
	}
}
