package backend

import (
	"errors"
	"fmt"

	"sanartes/internal/config"
)

// FromAppConfig converts the application config to sink config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	sinks := make([]SinkType, 0, len(appConfig.ReportSinks))
	for _, name := range appConfig.ReportSinks {
		t := SinkType(name)
		if !t.IsValid() {
			return Config{}, fmt.Errorf("invalid sink type in config: %s", name)
		}
		sinks = append(sinks, t)
	}

	return Config{
		Sinks: sinks,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		S3Bucket:          appConfig.S3Bucket,
		S3Region:          appConfig.S3Region,
		S3Endpoint:        appConfig.S3Endpoint,
		S3Prefix:          appConfig.S3Prefix,
		S3PathStyle:       appConfig.S3PathStyle,
		S3AccessKeyID:     appConfig.S3AccessKeyID,
		S3SecretAccessKey: appConfig.S3SecretAccessKey,
	}, nil
}

// Validate checks the settings each listed sink needs
func (c Config) Validate() error {
	for _, t := range c.Sinks {
		if err := c.validateSink(t); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateSink(t SinkType) error {
	switch t {
	case SQLiteSink:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite sink")
		}
	case AMQPSink:
		if c.AMQPURL == "" {
			return errors.New("AMQP URL is required for amqp sink")
		}
	case SheetsSink:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets sink")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			return errors.New("either GoogleServiceAccountJSON or GoogleServiceAccountFile must be provided for sheets sink")
		}
	case S3Sink:
		if c.S3Bucket == "" {
			return errors.New("S3 bucket is required for s3 sink")
		}
	case MemorySink:
		// Memory sink doesn't require additional validation
	default:
		return fmt.Errorf("invalid sink type: %s", t)
	}
	return nil
}

// GetSinkTypes returns all valid sink types
func GetSinkTypes() []SinkType {
	return []SinkType{SQLiteSink, AMQPSink, SheetsSink, S3Sink, MemorySink}
}

// GetSinkTypeStrings returns all valid sink type strings
func GetSinkTypeStrings() []string {
	types := GetSinkTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
