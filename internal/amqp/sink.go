package amqp

import (
	"context"
	"io"

	"sanartes/internal/config"
	"sanartes/internal/sink"
)

// ReportPublisher is satisfied by Client.
type ReportPublisher interface {
	PublishReportExported(ctx context.Context, msg *ReportExportedMessage) error
}

// Sink announces every export on the broker.
type Sink struct {
	publisher ReportPublisher
}

func NewSink(publisher ReportPublisher) *Sink {
	return &Sink{publisher: publisher}
}

func (s *Sink) Name() string { return config.SinkAMQP }

func (s *Sink) Publish(ctx context.Context, env sink.Envelope) error {
	return s.publisher.PublishReportExported(ctx, &ReportExportedMessage{
		ExportID:           env.ID,
		GeneratedAt:        env.GeneratedAt,
		TotalProjects:      env.TotalProjects,
		TotalBeneficiaries: env.TotalBeneficiaries,
		Path:               env.Path,
	})
}

func (s *Sink) Close() error {
	if c, ok := s.publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
