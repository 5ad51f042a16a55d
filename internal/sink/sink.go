// Package sink fans a finished report export out to secondary destinations.
// Sinks only ever receive an immutable Envelope; none of them reads from or
// writes back into the registry.
package sink

import (
	"context"
	"time"

	"github.com/google/uuid"
	"sanartes/internal/core"
)

// Sink is a write-only destination for exported reports.
type Sink interface {
	Name() string
	Publish(ctx context.Context, env Envelope) error
}

// Envelope is one exported report as handed to sinks.
type Envelope struct {
	ID                 string
	GeneratedAt        time.Time
	TotalProjects      int
	TotalBeneficiaries int
	Projects           []core.ProjectSummary
	// Payload is the exact JSON document written to Path.
	Payload []byte
	Path    string
}

// NewEnvelope wraps an encoded report under a fresh export ID.
func NewEnvelope(report core.ConsolidatedReport, payload []byte, path string) Envelope {
	return Envelope{
		ID:                 uuid.NewString(),
		GeneratedAt:        report.GeneratedAt,
		TotalProjects:      report.TotalProjects,
		TotalBeneficiaries: report.TotalBeneficiaries,
		Projects:           report.Summaries(),
		Payload:            append([]byte(nil), payload...),
		Path:               path,
	}
}

// clone returns a copy that shares no slices with env.
func (env Envelope) clone() Envelope {
	out := env
	out.Projects = append([]core.ProjectSummary(nil), env.Projects...)
	out.Payload = append([]byte(nil), env.Payload...)
	return out
}

// Key returns the object name used by blob sinks: <generated-at>-<id>.json.
func (env Envelope) Key() string {
	return env.GeneratedAt.UTC().Format("20060102T150405Z") + "-" + env.ID + ".json"
}

// Publish stages. Every sink of an earlier stage has finished before any
// sink of a later stage starts.
const (
	// StageArchive holds sinks that other sinks' consumers read back from.
	StageArchive = iota
	StageDefault
)

// Staged is implemented by sinks that do not run in StageDefault.
type Staged interface {
	Stage() int
}

func stageOf(s Sink) int {
	if st, ok := s.(Staged); ok {
		return st.Stage()
	}
	return StageDefault
}
