package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/leadboard/internal/infra/storage"
	"github.com/xavierca1/leadboard/internal/usecase"
)

type AnalyticsHandler struct {
	manager   *usecase.LeadManager
	analytics *usecase.Analytics
}

func NewAnalyticsHandler(manager *usecase.LeadManager, analytics *usecase.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{manager: manager, analytics: analytics}
}

func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.analytics.ExportSummary(h.manager.Leads())
	writeJSON(w, http.StatusOK, summary)
}

// HandleSummaryExport serves the same document as HandleSummary but as a
// download, for feeding into other tools.
func (h *AnalyticsHandler) HandleSummaryExport(w http.ResponseWriter, r *http.Request) {
	summary := h.analytics.ExportSummary(h.manager.Leads())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics_summary.json"`)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(summary)
}

// HandleStatusReport exports one CSV row per configured status with its
// count and share of the table.
func (h *AnalyticsHandler) HandleStatusReport(w http.ResponseWriter, r *http.Request) {
	leads := h.manager.Leads()
	dist := h.analytics.StatusDistribution(leads)
	total := len(leads)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="lead_status_report.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"status", "count", "percentage"})
	for _, status := range h.manager.StatusSet().Statuses {
		pct := 0.0
		if total > 0 {
			pct = float64(dist[status]) / float64(total) * 100
		}
		cw.Write([]string{status, fmt.Sprintf("%d", dist[status]), fmt.Sprintf("%.1f", pct)})
	}
	cw.Flush()
}

// HandleLeadsExport downloads the full current table, status and notes
// included, in the same column contract as the persisted file.
func (h *AnalyticsHandler) HandleLeadsExport(w http.ResponseWriter, r *http.Request) {
	leads := h.manager.Leads()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="detailed_leads.csv"`)
	w.WriteHeader(http.StatusOK)

	// Headers are already sent; a write error here just truncates the body.
	storage.WriteTable(w, leads)
}
