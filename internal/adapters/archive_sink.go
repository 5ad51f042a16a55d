package adapters

import (
	"context"
	"fmt"

	"sanartes/internal/config"
	"sanartes/internal/sink"
	"sanartes/internal/storage"
)

// ExportArchive is the part of the SQLite repository the archive sink needs.
type ExportArchive interface {
	SaveExport(ctx context.Context, rec storage.ExportRecord) error
	Close() error
}

// ArchiveSink adapts the SQLite repository to sink.Sink so every export
// is kept as a history row next to the JSON file.
type ArchiveSink struct {
	archive ExportArchive
}

func NewArchiveSink(archive ExportArchive) *ArchiveSink {
	return &ArchiveSink{archive: archive}
}

func (a *ArchiveSink) Name() string { return config.SinkSQLite }

// Stage puts the archive ahead of notifying sinks, so a consumer told
// about an export can always read it back.
func (a *ArchiveSink) Stage() int { return sink.StageArchive }

// Publish implements sink.Sink
func (a *ArchiveSink) Publish(ctx context.Context, env sink.Envelope) error {
	if err := a.archive.SaveExport(ctx, ToExportRecord(env)); err != nil {
		return fmt.Errorf("archive export %s: %w", env.ID, err)
	}
	return nil
}

func (a *ArchiveSink) Close() error {
	return a.archive.Close()
}

// ToExportRecord maps an envelope onto the archive's row layout.
func ToExportRecord(env sink.Envelope) storage.ExportRecord {
	projects := make([]storage.ExportProject, len(env.Projects))
	for i, p := range env.Projects {
		projects[i] = storage.ExportProject{
			Position:      i,
			Name:          p.Name,
			Type:          p.Type,
			Institutions:  p.Institutions,
			Beneficiaries: p.Beneficiaries,
		}
	}
	return storage.ExportRecord{
		ID:                 env.ID,
		GeneratedAt:        env.GeneratedAt,
		TotalProjects:      env.TotalProjects,
		TotalBeneficiaries: env.TotalBeneficiaries,
		Payload:            env.Payload,
		Projects:           projects,
	}
}
