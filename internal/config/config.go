package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ngo-campaign-pipeline/internal/model"
)

type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PipelineConfig struct {
	InputDir        string   `yaml:"input_dir"`
	FinanceKeywords []string `yaml:"finance_keywords"`
	TopN            int      `yaml:"top_n"`
	LoadWorkers     int      `yaml:"load_workers"`
	ExportCSV       bool     `yaml:"export_csv"`
	WordcloudSeed   int64    `yaml:"wordcloud_seed"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the settings used when nothing overrides them
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			InputDir:        "data/raw",
			FinanceKeywords: append([]string(nil), model.DefaultFinanceKeywords...),
			TopN:            20,
			LoadWorkers:     4,
		},
		Storage: StorageConfig{
			DataDir: "data",
			DBPath:  "data/pipeline.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load layers defaults, the optional YAML file at path, .env and the
// environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Pipeline.InputDir = getEnv("PIPELINE_INPUT_DIR", c.Pipeline.InputDir)
	c.Pipeline.TopN = getEnvInt("PIPELINE_TOP_N", c.Pipeline.TopN)
	c.Pipeline.LoadWorkers = getEnvInt("PIPELINE_LOAD_WORKERS", c.Pipeline.LoadWorkers)
	c.Pipeline.ExportCSV = getEnvBool("PIPELINE_EXPORT_CSV", c.Pipeline.ExportCSV)
	if value := os.Getenv("PIPELINE_FINANCE_KEYWORDS"); value != "" {
		c.Pipeline.FinanceKeywords = parseCommaSeparated(value)
	}

	c.Storage.DataDir = getEnv("PIPELINE_DATA_DIR", c.Storage.DataDir)
	c.Storage.DBPath = getEnv("PIPELINE_DB_PATH", c.Storage.DBPath)
	c.Server.Addr = getEnv("PIPELINE_ADDR", c.Server.Addr)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
}

func (c *Config) Validate() error {
	if c.Pipeline.InputDir == "" {
		return fmt.Errorf("PIPELINE_INPUT_DIR is required")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("PIPELINE_DATA_DIR is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("PIPELINE_DB_PATH is required")
	}
	if c.Pipeline.TopN <= 0 {
		return fmt.Errorf("PIPELINE_TOP_N must be positive, got %d", c.Pipeline.TopN)
	}
	if c.Pipeline.LoadWorkers <= 0 {
		return fmt.Errorf("PIPELINE_LOAD_WORKERS must be positive, got %d", c.Pipeline.LoadWorkers)
	}
	if len(c.Pipeline.FinanceKeywords) == 0 {
		return fmt.Errorf("at least one finance keyword is required")
	}
	return nil
}

// RunSpec converts the pipeline settings into a run definition
func (c *Config) RunSpec() model.RunSpec {
	return model.RunSpec{
		InputDir:        c.Pipeline.InputDir,
		DataDir:         c.Storage.DataDir,
		FinanceKeywords: c.Pipeline.FinanceKeywords,
		TopN:            c.Pipeline.TopN,
		LoadWorkers:     c.Pipeline.LoadWorkers,
		ExportCSV:       c.Pipeline.ExportCSV,
		WordcloudSeed:   c.Pipeline.WordcloudSeed,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
