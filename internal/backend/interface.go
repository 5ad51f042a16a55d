package backend

import (
	"context"

	"sanartes/internal/config"
	"sanartes/internal/sink"
)

// Factory creates report sinks based on configuration
type Factory interface {
	// CreateSink creates one sink of the given type
	CreateSink(ctx context.Context, t SinkType) (sink.Sink, error)
	// CreateAll creates every sink listed in the configuration
	CreateAll(ctx context.Context) []sink.Sink
}

// Config holds configuration for sink creation
type Config struct {
	Sinks []SinkType

	// SQLite archive
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
}

// SinkType represents the type of report sink
type SinkType string

const (
	SQLiteSink SinkType = config.SinkSQLite
	AMQPSink   SinkType = config.SinkAMQP
	SheetsSink SinkType = config.SinkSheets
	S3Sink     SinkType = config.SinkS3
	MemorySink SinkType = config.SinkMemory
)

// String implements fmt.Stringer
func (st SinkType) String() string {
	return string(st)
}

// IsValid returns true if the sink type is valid
func (st SinkType) IsValid() bool {
	switch st {
	case SQLiteSink, AMQPSink, SheetsSink, S3Sink, MemorySink:
		return true
	default:
		return false
	}
}
