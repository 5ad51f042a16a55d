package backend

import (
	"context"
	"fmt"

	"sanartes/internal/adapters"
	"sanartes/internal/amqp"
	blobs3 "sanartes/internal/blob/s3"
	applog "sanartes/internal/log"
	"sanartes/internal/sheets"
	gsheet "sanartes/internal/sheets/google"
	"sanartes/internal/sink"
	"sanartes/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
	config Config
}

// NewFactory creates a new sink factory
func NewFactory(logger *applog.Logger, config Config) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentSink),
		config: config,
	}
}

// CreateSink implements Factory.CreateSink
func (f *DefaultFactory) CreateSink(ctx context.Context, t SinkType) (sink.Sink, error) {
	if err := f.config.validateSink(t); err != nil {
		return nil, err
	}

	switch t {
	case SQLiteSink:
		return f.createSQLiteSink()
	case AMQPSink:
		return f.createAMQPSink(ctx)
	case SheetsSink:
		return f.createSheetsSink(ctx)
	case S3Sink:
		return f.createS3Sink(ctx)
	case MemorySink:
		return sink.NewMemorySink(), nil
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", t)
	}
}

// CreateAll implements Factory.CreateAll. A sink that cannot be created is
// logged and left out so the local export keeps working.
func (f *DefaultFactory) CreateAll(ctx context.Context) []sink.Sink {
	sinks := make([]sink.Sink, 0, len(f.config.Sinks))
	for _, t := range f.config.Sinks {
		s, err := f.CreateSink(ctx, t)
		if err != nil {
			f.logger.Warn("Failed to initialize report sink, continuing without it",
				applog.FieldSink, t.String(), applog.FieldError, err)
			continue
		}
		f.logger.Info("Initialized report sink", applog.FieldSink, t.String())
		sinks = append(sinks, s)
	}
	return sinks
}

func (f *DefaultFactory) createSQLiteSink() (sink.Sink, error) {
	repo, err := storage.NewSQLiteRepository(f.config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	return adapters.NewArchiveSink(repo), nil
}

func (f *DefaultFactory) createAMQPSink(ctx context.Context) (sink.Sink, error) {
	client, err := amqp.NewClient(ctx, f.config.AMQPURL, f.config.AMQPExchange, f.config.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}
	return amqp.NewSink(client), nil
}

func (f *DefaultFactory) createSheetsSink(ctx context.Context) (sink.Sink, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   f.config.GoogleSpreadsheetID,
		SheetName:       f.config.GoogleSheetName,
		CredentialsJSON: f.config.GoogleServiceAccountJSON,
		CredentialsFile: f.config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return sheets.NewSink(cli), nil
}

func (f *DefaultFactory) createS3Sink(ctx context.Context) (sink.Sink, error) {
	store, err := blobs3.New(ctx, blobs3.Config{
		Region:          f.config.S3Region,
		Bucket:          f.config.S3Bucket,
		Endpoint:        f.config.S3Endpoint,
		AccessKeyID:     f.config.S3AccessKeyID,
		SecretAccessKey: f.config.S3SecretAccessKey,
		PathStyle:       f.config.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
	}
	return blobs3.NewSink(store, f.config.S3Prefix), nil
}
