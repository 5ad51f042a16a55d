package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Report sink names accepted in REPORT_SINKS.
const (
	SinkSQLite = "sqlite"
	SinkAMQP   = "amqp"
	SinkSheets = "sheets"
	SinkS3     = "s3"
	SinkMemory = "memory"
)

type Config struct {
	// Export
	ExportPath string
	SeedDemo   bool
	LogLevel   string

	// Report sinks
	ReportSinks     []string
	SinkTimeout     time.Duration
	SinkConcurrency int

	// SQLite report archive
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// S3
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3Prefix          string
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Sheets worker
	SyncBatchSize int
	SyncInterval  time.Duration

	// Metrics
	MetricsTextfile string
}

func Load() *Config {
	cfg := &Config{
		ExportPath: getEnv("EXPORT_PATH", "reporte_proyectos.json"),
		SeedDemo:   getEnvBool("SEED_DEMO", true),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		ReportSinks:     getEnvList("REPORT_SINKS"),
		SinkTimeout:     getEnvDuration("SINK_TIMEOUT", 30*time.Second),
		SinkConcurrency: getEnvInt("SINK_CONCURRENCY", 4),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/sanartes.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "sanartes"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_exports"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Reportes"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Prefix:          getEnv("S3_PREFIX", "reports"),
		S3PathStyle:       getEnvBool("S3_PATH_STYLE", false),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 2*time.Minute),

		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}

	return cfg
}

// HasSink reports whether the named report sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.ReportSinks {
		if s == name {
			return true
		}
	}
	return false
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.ExportPath) == "" {
		errors = append(errors, "export path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate report sinks
	validSinks := []string{SinkSQLite, SinkAMQP, SinkSheets, SinkS3, SinkMemory}
	for _, sink := range c.ReportSinks {
		isValid := false
		for _, v := range validSinks {
			if sink == v {
				isValid = true
				break
			}
		}
		if !isValid {
			errors = append(errors, fmt.Sprintf("invalid report sink '%s': must be one of %v", sink, validSinks))
		}
	}

	if c.HasSink(SinkSQLite) {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the sqlite sink")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
	}
	if c.HasSink(SinkAMQP) {
		if c.AMQPURL == "" {
			errors = append(errors, "AMQP URL is required when using the amqp sink")
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when using the amqp sink")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when using the amqp sink")
		}
	}

	if c.HasSink(SinkSheets) {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using the sheets sink")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using the sheets sink")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets sink")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.HasSink(SinkS3) {
		if c.S3Bucket == "" {
			errors = append(errors, "S3 bucket is required when using the s3 sink")
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			errors = append(errors, "S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
		if c.S3Endpoint != "" {
			if _, err := url.ParseRequestURI(c.S3Endpoint); err != nil {
				errors = append(errors, fmt.Sprintf("invalid S3 endpoint '%s': %v", c.S3Endpoint, err))
			}
		}
	}

	if c.SinkTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sink timeout %v: must be at least 1 second", c.SinkTimeout))
	} else if c.SinkTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sink timeout %v: must be at most 10 minutes", c.SinkTimeout))
	}

	if c.SinkConcurrency < 1 {
		errors = append(errors, fmt.Sprintf("invalid sink concurrency %d: must be at least 1", c.SinkConcurrency))
	} else if c.SinkConcurrency > 16 {
		errors = append(errors, fmt.Sprintf("invalid sink concurrency %d: must be at most 16", c.SinkConcurrency))
	}

	if c.SyncBatchSize < 1 || c.SyncBatchSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be between 1 and 500", c.SyncBatchSize))
	}
	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks and repeats.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
