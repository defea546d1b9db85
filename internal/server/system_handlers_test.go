package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatelab/wardnavi/internal/database"
	"github.com/estatelab/wardnavi/internal/modules/listings"
)

func setupSystemHandlers(t *testing.T, estimatorLoaded bool) *SystemHandlers {
	t.Helper()

	dataDir := t.TempDir()
	db, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, "listings.db"),
		Profile: database.ProfileReference,
		Name:    "listings",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := zerolog.Nop()
	repo := listings.NewRepository(db.Conn(), log)

	return NewSystemHandlers(log, dataDir, db, repo, estimatorLoaded)
}

func TestHandleSystemStatusDegradedWithoutEstimator(t *testing.T) {
	h := setupSystemHandlers(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "degraded", response.Status)
	assert.False(t, response.EstimatorLoaded)
	assert.True(t, response.DatabaseHealthy)
	assert.Equal(t, 0, response.RecordCount)
}

func TestHandleSystemStatusHealthyWithEstimator(t *testing.T) {
	h := setupSystemHandlers(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "healthy", response.Status)
	assert.True(t, response.EstimatorLoaded)
}

func TestHandleDatabaseStats(t *testing.T) {
	h := setupSystemHandlers(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/system/database/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleDatabaseStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	require.Len(t, response.Databases, 1)
	assert.Equal(t, "listings.db", response.Databases[0].Name)
	assert.Greater(t, response.Databases[0].SizeMB, 0.0)
}

func TestHandleDiskUsage(t *testing.T) {
	h := setupSystemHandlers(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/system/disk", nil)
	rec := httptest.NewRecorder()
	h.HandleDiskUsage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response DiskUsageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Greater(t, response.DataDirMB, 0.0)
}
