package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Survey    SurveyConfig    `mapstructure:"survey"`
	Retention RetentionConfig `mapstructure:"retention"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port      string `mapstructure:"port"`
	RateLimit int    `mapstructure:"rate_limit"` // write requests per minute per client IP
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SurveyConfig points at the survey catalog files.
type SurveyConfig struct {
	Directory      string `mapstructure:"directory"`
	DefaultVariant string `mapstructure:"default_variant"`
}

// RetentionConfig controls cleanup of abandoned draft submissions.
type RetentionConfig struct {
	DraftTTL      time.Duration `mapstructure:"draft_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.rate_limit", 30)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "triage-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Survey defaults
	v.SetDefault("survey.directory", filepath.Join("config", "surveys"))
	v.SetDefault("survey.default_variant", "standard")

	// Retention defaults
	v.SetDefault("retention.draft_ttl", 7*24*time.Hour)
	v.SetDefault("retention.sweep_interval", time.Hour)
}

// Load reads the configuration without watching it. It is used before the
// logger exists, since the logger itself is configured from here.
func Load(projectRoot string) (*Config, *viper.Viper, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config")) // Search for config file in the config directory
	v.SetConfigName("config")                             // Name of config file (without extension)
	v.SetConfigType("yaml")                               // Type of config file

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("TRIAGE") // e.g., TRIAGE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	conf, err := decode(v, projectRoot)
	if err != nil {
		return nil, nil, err
	}
	return conf, v, nil
}

func decode(v *viper.Viper, projectRoot string) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Relative directories are resolved against the project root.
	if !filepath.IsAbs(conf.Survey.Directory) {
		conf.Survey.Directory = filepath.Join(projectRoot, conf.Survey.Directory)
	}
	if !filepath.IsAbs(conf.Logging.Directory) {
		conf.Logging.Directory = filepath.Join(projectRoot, conf.Logging.Directory)
	}
	return &conf, nil
}

// Init loads the configuration into Conf and watches the file for changes.
// Survey catalogs are not reloaded; they stay fixed for the process lifetime.
func Init(projectRoot string, log *zap.Logger) error {
	conf, v, err := Load(projectRoot)
	if err != nil {
		return err
	}
	Conf = conf

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		reloaded, err := decode(v, projectRoot)
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		Conf = reloaded
	})

	log.Info("Configuration loaded successfully", zap.String("survey_dir", Conf.Survey.Directory))
	return nil
}
