package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "sanartes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleRecord(id string, at time.Time) ExportRecord {
	return ExportRecord{
		ID:                 id,
		GeneratedAt:        at,
		TotalProjects:      2,
		TotalBeneficiaries: 3,
		Payload:            []byte(`{"total_proyectos": 2}`),
		Projects: []ExportProject{
			{Position: 0, Name: "Melodía Vital", Type: "Musicoterapia", Institutions: 3, Beneficiaries: 3},
			{Position: 1, Name: "Cuadro Clínico", Type: "Arteterapia", Institutions: 3, Beneficiaries: 0},
		},
	}
}

func TestSQLiteRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 9, 0, 0, 123000000, time.UTC)

	require.NoError(t, repo.SaveExport(ctx, sampleRecord("exp-1", at)))

	got, err := repo.GetExport(ctx, "exp-1")
	require.NoError(t, err)
	assert.True(t, got.GeneratedAt.Equal(at))
	assert.Equal(t, 2, got.TotalProjects)
	assert.Equal(t, 3, got.TotalBeneficiaries)
	assert.JSONEq(t, `{"total_proyectos": 2}`, string(got.Payload))
	assert.False(t, got.CreatedAt.IsZero())
	require.Len(t, got.Projects, 2)
	assert.Equal(t, "Melodía Vital", got.Projects[0].Name)
	assert.Equal(t, "Arteterapia", got.Projects[1].Type)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetExport(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrExportNotFound)
}

func TestSQLiteRepository_DuplicateIDRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveExport(ctx, sampleRecord("dup", at)))
	err := repo.SaveExport(ctx, sampleRecord("dup", at.Add(time.Hour)))
	require.Error(t, err)

	projects, err := repo.ExportProjects(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestSQLiteRepository_RequiresID(t *testing.T) {
	repo := newTestRepo(t)
	assert.Error(t, repo.SaveExport(context.Background(), ExportRecord{}))
}

func TestSQLiteRepository_ListExportsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.SaveExport(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Minute))))
	}

	all, err := repo.ListExports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)
	assert.Nil(t, all[0].Payload)

	limited, err := repo.ListExports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanartes.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}

func TestSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanartes.db")
	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, RunMigrations(path))
	version, dirty, err = SchemaVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}
