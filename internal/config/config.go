// Package config loads server configuration from a YAML file and ATELIER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	"github.com/jmylchreest/atelier/internal/cache"
	"github.com/jmylchreest/atelier/internal/colour"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ATELIER"

// Config holds all configuration for the server.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Image      ImageConfig      `mapstructure:"image"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	GenAI      GenAIConfig      `mapstructure:"genai"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ExtractionConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Colours   int    `mapstructure:"colours"`
}

type ImageConfig struct {
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	CacheDir          string        `mapstructure:"cache_dir"`
	AllowPrivateHosts bool          `mapstructure:"allow_private_hosts"`
}

// CatalogConfig selects where products come from.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "file" or "mongo"
	Path   string `mapstructure:"path"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Limit      int64  `mapstructure:"limit"`
}

type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "none", "memory" or "redis"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"` // memory only
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ClassifierConfig selects the trait classifier.
type ClassifierConfig struct {
	Type string `mapstructure:"type"` // "static" or "genai"
}

type GenAIConfig struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	CatalogSourceFile  = "file"
	CatalogSourceMongo = "mongo"

	ClassifierStatic = "static"
	ClassifierGenAI  = "genai"
)

// Load reads configuration from path, or from atelier.yaml in the working
// directory or /etc/atelier when path is empty. A missing default file is
// not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("atelier")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/atelier/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks enum values and required settings. Callers that modify a
// loaded Config should validate it again.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("extraction.algorithm", string(colour.AlgorithmKMeans))
	v.SetDefault("extraction.colours", colour.DefaultColourCount)

	v.SetDefault("image.fetch_timeout", "10s")
	v.SetDefault("image.cache_dir", "")
	v.SetDefault("image.allow_private_hosts", false)

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "catalog.yaml")

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "atelier")
	v.SetDefault("mongo.collection", "products")
	v.SetDefault("mongo.limit", 20)

	v.SetDefault("cache.type", string(cache.TypeNone))
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", cache.DefaultMaxEntries)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("classifier.type", ClassifierStatic)

	v.SetDefault("genai.backend", "gemini-api")
	v.SetDefault("genai.model", "")
	v.SetDefault("genai.api_key", "")

	v.SetDefault("log.level", "info")
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be 'debug', 'release' or 'test', got: %s", config.Server.Mode)
	}

	if !colour.IsValidAlgorithm(colour.Algorithm(config.Extraction.Algorithm)) {
		return fmt.Errorf("unknown extraction algorithm: %s", config.Extraction.Algorithm)
	}
	if config.Extraction.Colours < 1 || config.Extraction.Colours > 256 {
		return fmt.Errorf("extraction colours must be between 1 and 256, got: %d", config.Extraction.Colours)
	}

	switch config.Catalog.Source {
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case CatalogSourceMongo:
		if config.Mongo.URI == "" {
			return fmt.Errorf("mongo URI is required when catalog source is 'mongo' (set %s_MONGO_URI)", EnvPrefix)
		}
	default:
		return fmt.Errorf("catalog source must be 'file' or 'mongo', got: %s", config.Catalog.Source)
	}

	if config.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache max entries must be at least 1, got: %d", config.Cache.MaxEntries)
	}
	switch cache.Type(config.Cache.Type) {
	case cache.TypeNone, cache.TypeMemory:
	case cache.TypeRedis:
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	switch config.Classifier.Type {
	case ClassifierStatic, ClassifierGenAI:
	default:
		return fmt.Errorf("classifier type must be 'static' or 'genai', got: %s", config.Classifier.Type)
	}

	if hclog.LevelFromString(config.Log.Level) == hclog.NoLevel {
		return fmt.Errorf("unknown log level: %s", config.Log.Level)
	}

	return nil
}
