package s3

import (
	"context"
	"log/slog"
	"strconv"

	"sanartes/internal/config"
	"sanartes/internal/sink"
)

// Sink uploads the exported JSON document as
// <prefix>/<generated-at>-<export-id>.json.
type Sink struct {
	store  *Store
	prefix string
}

func NewSink(store *Store, prefix string) *Sink {
	return &Sink{store: store, prefix: prefix}
}

func (s *Sink) Name() string { return config.SinkS3 }

func (s *Sink) Publish(ctx context.Context, env sink.Envelope) error {
	key := ObjectKey(s.prefix, env.Key())
	err := s.store.Put(ctx, key, env.Payload, "application/json", map[string]string{
		"export-id":           env.ID,
		"total-projects":      strconv.Itoa(env.TotalProjects),
		"total-beneficiaries": strconv.Itoa(env.TotalBeneficiaries),
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Report uploaded", "export_id", env.ID, "bucket", s.store.Bucket(), "key", key)
	return nil
}
