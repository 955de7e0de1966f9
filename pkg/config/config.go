package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for unparsable or out-of-range settings
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full configuration of the server and CLI
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	LogLevel string         `yaml:"log_level"`
}

type EngineConfig struct {
	MaxGreat      int  `yaml:"max_great"`
	CoParentInLaw bool `yaml:"co_parent_in_law"`
}

type PipelineConfig struct {
	Workers int `yaml:"workers"`
}

// StorageConfig selects where family data comes from. DataFile is used
// when set; otherwise Neo4j is used when its URI is set.
type StorageConfig struct {
	DataFile      string `yaml:"data_file"`
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUsername string `yaml:"neo4j_username"`
	Neo4jPassword string `yaml:"neo4j_password"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxGreat:      5,
			CoParentInLaw: true,
		},
		Pipeline: PipelineConfig{
			Workers: 8,
		},
		LogLevel: "info",
	}
}

// Load builds a config from defaults, then the YAML file at path (if path
// is non-empty and the file exists), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("KINSHIP_MAX_GREAT"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "KINSHIP_MAX_GREAT %q", v)
		}
		cfg.Engine.MaxGreat = i
	}
	if v := os.Getenv("KINSHIP_CO_PARENT_IN_LAW"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "KINSHIP_CO_PARENT_IN_LAW %q", v)
		}
		cfg.Engine.CoParentInLaw = b
	}
	if v := os.Getenv("KINSHIP_WORKERS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "KINSHIP_WORKERS %q", v)
		}
		cfg.Pipeline.Workers = i
	}
	if v := os.Getenv("KINSHIP_DATA_FILE"); v != "" {
		cfg.Storage.DataFile = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Storage.Neo4jURI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		cfg.Storage.Neo4jUsername = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Storage.Neo4jPassword = v
	}
	if v := os.Getenv("KINSHIP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Engine.MaxGreat < 0 || c.Engine.MaxGreat > 10 {
		return errors.Wrap(ErrInvalidConfig, "max_great must be between 0 and 10")
	}
	if c.Pipeline.Workers < 1 {
		return errors.Wrap(ErrInvalidConfig, "workers must be >= 1")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level %q", c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
