package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"sanartes/internal/config"
	"sanartes/internal/sink"
)

// Sink appends one row per project to a spreadsheet on every export.
type Sink struct {
	writer SummaryWriter
}

func NewSink(writer SummaryWriter) *Sink {
	return &Sink{writer: writer}
}

func (s *Sink) Name() string { return config.SinkSheets }

func (s *Sink) Publish(ctx context.Context, env sink.Envelope) error {
	if len(env.Projects) == 0 {
		slog.DebugContext(ctx, "No projects to append", "export_id", env.ID)
		return nil
	}
	ref, err := s.writer.AppendSummary(ctx, RowsFromSummaries(env.ID, env.GeneratedAt, env.Projects))
	if err != nil {
		return fmt.Errorf("append summary: %w", err)
	}
	slog.InfoContext(ctx, "Report summary appended", "export_id", env.ID, "range", ref)
	return nil
}
