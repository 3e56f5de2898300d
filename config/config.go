package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// History backends accepted by HISTORY_BACKEND.
const (
	HistoryNone     = "none"
	HistoryPostgres = "postgres"
	HistoryRedis    = "redis"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8000"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	OutputDir      string `envconfig:"OUTPUT_DIR" default:"./output"`
	ExportFilename string `envconfig:"EXPORT_FILENAME" default:"filtered_data.csv"`
	ChartFilename  string `envconfig:"CHART_FILENAME" default:"trend_chart.png"`
	ReportFilename string `envconfig:"REPORT_FILENAME" default:"report.html"`
	ChartWidth     int    `envconfig:"CHART_WIDTH" default:"1024"`
	ChartHeight    int    `envconfig:"CHART_HEIGHT" default:"360"`

	HistoryBackend string `envconfig:"HISTORY_BACKEND" default:"none"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"insights"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"insights123"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"insights_db"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	RedisURL          string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisHistoryKey   string `envconfig:"REDIS_HISTORY_KEY" default:"insights:history"`
	RedisHistoryLimit int    `envconfig:"REDIS_HISTORY_LIMIT" default:"50"`

	SnapshotEnabled bool   `envconfig:"SNAPSHOT_ENABLED" default:"false"`
	ChromeBin       string `envconfig:"CHROME_BIN"`

	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the application cannot run with.
func (c *Config) Validate() error {
	switch c.HistoryBackend {
	case HistoryNone, HistoryPostgres, HistoryRedis:
	default:
		return fmt.Errorf("config: unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL must not be empty")
	}
	if c.ExportFilename == "" {
		return fmt.Errorf("config: EXPORT_FILENAME must not be empty")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// ExportPath is where the CSV download lands.
func (c *Config) ExportPath() string {
	return filepath.Join(c.OutputDir, c.ExportFilename)
}

func (c *Config) ChartPath() string {
	return filepath.Join(c.OutputDir, c.ChartFilename)
}

func (c *Config) ReportPath() string {
	return filepath.Join(c.OutputDir, c.ReportFilename)
}
