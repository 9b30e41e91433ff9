package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/storage"
	"github.com/xavierca1/leadboard/internal/usecase"
)

func newAnalyticsFixture(t *testing.T) (*usecase.LeadManager, *AnalyticsHandler) {
	t.Helper()
	manager := newTestManager(t)
	h := NewAnalyticsHandler(manager, usecase.NewAnalytics(entity.DefaultStatusSet()))

	syncCSV(t, NewLeadHandler(manager), importCSV)
	_, err := manager.UpdateStatus([]string{"https://reddit.com/r/saas/a"}, "Converted")
	require.NoError(t, err)
	return manager, h
}

func TestHandleSummary(t *testing.T) {
	_, h := newAnalyticsFixture(t)

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary usecase.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, 3, summary.TotalLeads)
	assert.InDelta(t, 1.0/3.0, summary.ConversionRate, 1e-9)
	assert.Equal(t, 1, summary.StatusDistribution["Converted"])
	assert.Equal(t, 2, summary.StatusDistribution["New"])
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestHandleStatusReport(t *testing.T) {
	_, h := newAnalyticsFixture(t)

	rec := httptest.NewRecorder()
	h.HandleStatusReport(rec, httptest.NewRequest(http.MethodGet, "/exports/status-report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "lead_status_report.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)

	// Header plus one row per configured status, counts summing to the table size.
	require.Len(t, rows, 1+len(entity.DefaultStatusSet().Statuses))
	assert.Equal(t, []string{"status", "count", "percentage"}, rows[0])

	total := 0
	for _, row := range rows[1:] {
		n, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestHandleLeadsExport(t *testing.T) {
	_, h := newAnalyticsFixture(t)

	rec := httptest.NewRecorder()
	h.HandleLeadsExport(rec, httptest.NewRequest(http.MethodGet, "/exports/leads", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "detailed_leads.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 leads
	assert.Equal(t,
		[]string{"summary", "lowHangingFruit", "originalPost", "solution", "date", "url", "subreddit", "status", "notes"},
		rows[0])
}

func TestHandleSummaryExport(t *testing.T) {
	_, h := newAnalyticsFixture(t)

	rec := httptest.NewRecorder()
	h.HandleSummaryExport(rec, httptest.NewRequest(http.MethodGet, "/exports/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "analytics_summary.json")

	var summary usecase.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalLeads)
}

func TestHealthHandler(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewCSVStorage(filepath.Join(dir, "data", "progress.csv"))
	h := NewHealthHandler(store)

	// First run: no file yet, still healthy.
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "empty", resp.Dependencies["storage"])

	// After a save the storage reports healthy.
	require.NoError(t, store.Save(nil))
	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Dependencies["storage"])
}
