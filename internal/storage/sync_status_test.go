package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStatus_NewExportsArePending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveExport(ctx, sampleRecord("exp-1", time.Now())))

	status, err := repo.SyncStatus(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, SyncPending, status)
}

func TestPendingSyncExports(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.SaveExport(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Hour))))
	}

	require.NoError(t, repo.MarkSynced(ctx, "a"))
	require.NoError(t, repo.MarkSyncError(ctx, "b"))

	pending, err := repo.PendingSyncExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "c", pending[0].ID, "oldest first")
	assert.Equal(t, "b", pending[1].ID, "errors are retried")
	assert.Len(t, pending[0].Projects, 2)

	limited, err := repo.PendingSyncExports(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	status, err := repo.SyncStatus(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, SyncDone, status)
}

func TestMarkSyncedMissingExport(t *testing.T) {
	repo := newTestRepo(t)
	assert.ErrorIs(t, repo.MarkSynced(context.Background(), "nope"), ErrExportNotFound)
}
