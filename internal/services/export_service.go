package services

import (
	"context"
	"time"

	"sanartes/internal/core"
	applog "sanartes/internal/log"
	"sanartes/internal/metrics"
	"sanartes/internal/sink"
)

// ExportResult describes one export run.
type ExportResult struct {
	Path string
	// OK reports whether the JSON file was written. Sink outcomes never
	// change it.
	OK       bool
	ExportID string
	Sinks    []sink.Result
	Err      error
}

// FailedSinks returns the names of sinks that rejected the export.
func (r ExportResult) FailedSinks() []string {
	var out []string
	for _, s := range r.Sinks {
		if !s.OK() {
			out = append(out, s.Sink)
		}
	}
	return out
}

// ExportService writes the consolidated report to disk and hands the
// encoded document to every configured sink.
type ExportService struct {
	registry        *RegistryService
	publisher       *sink.Publisher
	metrics         *metrics.Metrics
	metricsTextfile string
	logger          *applog.Logger
}

func NewExportService(registry *RegistryService, publisher *sink.Publisher, m *metrics.Metrics, metricsTextfile string, logger *applog.Logger) *ExportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExportService{
		registry:        registry,
		publisher:       publisher,
		metrics:         m,
		metricsTextfile: metricsTextfile,
		logger:          logger.WithComponent(applog.ComponentExport),
	}
}

// Export builds the report once, writes it to path (the default file name
// when empty) and then publishes it. Errors are logged and reflected in the
// result; they are never returned.
func (s *ExportService) Export(ctx context.Context, path string) ExportResult {
	if path == "" {
		path = core.DefaultExportPath
	}
	result := ExportResult{Path: path}

	report := s.registry.ConsolidatedReport()
	start := time.Now()
	payload, err := core.EncodeReport(report)
	if err == nil {
		err = core.WriteFile(path, payload, 0o644)
	}
	s.metrics.ObserveExport(metrics.SinkFile, err == nil, time.Since(start))

	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to export report",
			applog.FieldOperation, applog.OpExport,
			applog.FieldPath, path,
			applog.FieldError, err)
		result.Err = err
		s.flushMetrics(ctx)
		return result
	}
	result.OK = true

	env := sink.NewEnvelope(report, payload, path)
	result.ExportID = env.ID
	s.logger.InfoContext(ctx, "Report exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldPath, path,
		applog.FieldExportID, env.ID,
		applog.FieldProjects, report.TotalProjects,
		applog.FieldBeneficiaries, report.TotalBeneficiaries)

	result.Sinks = s.publisher.PublishAll(ctx, env)
	if failed := result.FailedSinks(); len(failed) > 0 {
		s.logger.WarnContext(ctx, "Some report sinks failed",
			applog.FieldExportID, env.ID,
			"failed_sinks", failed)
	}

	s.flushMetrics(ctx)
	return result
}

func (s *ExportService) flushMetrics(ctx context.Context) {
	if err := s.metrics.WriteTextfile(s.metricsTextfile); err != nil {
		s.logger.WarnContext(ctx, "Failed to write metrics textfile",
			applog.FieldPath, s.metricsTextfile,
			applog.FieldError, err)
	}
}
