package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/infra/storage"
	"github.com/xavierca1/leadboard/internal/usecase"
)

const maxUploadBytes = 16 << 20 // 16 MiB, far above any realistic export

type LeadHandler struct {
	manager *usecase.LeadManager
}

func NewLeadHandler(manager *usecase.LeadManager) *LeadHandler {
	return &LeadHandler{manager: manager}
}

type SyncResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message,omitempty"`
	BatchID        string   `json:"batch_id,omitempty"`
	Added          int      `json:"added"`
	Updated        int      `json:"updated"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	RowErrors      []string `json:"row_errors,omitempty"`
}

// HandleSync ingests an uploaded CSV, either as a multipart "file" field
// or as a raw request body, and merges it into the table. A batch with
// missing columns or bad rows is rejected whole; nothing is applied.
func (h *LeadHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var reader io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, SyncResponse{
				Success: false,
				Message: "multipart upload requires a \"file\" field",
			})
			return
		}
		defer file.Close()
		reader = file
	}

	leads, err := storage.ParseImport(reader, h.manager.StatusSet())
	if err != nil {
		middleware.RecordImportError()

		var importErr *storage.ImportError
		if errors.As(err, &importErr) {
			resp := SyncResponse{
				Success:        false,
				Message:        importErr.Error(),
				MissingColumns: importErr.MissingColumns,
			}
			for _, re := range importErr.RowErrors {
				resp.RowErrors = append(resp.RowErrors, re.Error())
			}
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		writeJSON(w, http.StatusBadRequest, SyncResponse{
			Success: false,
			Message: "could not read CSV: " + err.Error(),
		})
		return
	}

	result, err := h.manager.Sync(leads)
	if err != nil {
		// The merge already happened in memory; only durability failed.
		writeJSON(w, http.StatusInternalServerError, SyncResponse{
			Success: false,
			Message: "leads merged but persisting failed: " + err.Error(),
			BatchID: result.BatchID,
			Added:   result.Added,
			Updated: result.Updated,
		})
		return
	}

	middleware.RecordSync(result.Added, result.Updated)
	writeJSON(w, http.StatusOK, SyncResponse{
		Success: true,
		BatchID: result.BatchID,
		Added:   result.Added,
		Updated: result.Updated,
	})
}

type ListResponse struct {
	Total int           `json:"total"`
	Leads []entity.Lead `json:"leads"`
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query()["status"]
	subredditFilter := r.URL.Query()["subreddit"]

	var leads []entity.Lead
	if len(statusFilter) > 0 {
		leads = h.manager.FilterByStatus(statusFilter...)
	} else {
		leads = h.manager.Leads()
	}
	if len(subredditFilter) > 0 {
		filtered := leads[:0]
		for _, lead := range leads {
			for _, sub := range subredditFilter {
				if lead.Subreddit == sub {
					filtered = append(filtered, lead)
					break
				}
			}
		}
		leads = filtered
	}

	writeJSON(w, http.StatusOK, ListResponse{Total: len(leads), Leads: leads})
}

type BulkStatusRequest struct {
	URLs   []string `json:"urls"`
	Status string   `json:"status"`
}

type BulkNotesRequest struct {
	URLs []string `json:"urls"`
	Note string   `json:"note"`
}

type BulkResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Updated int      `json:"updated"`
	Missing []string `json:"missing,omitempty"`
}

func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: "invalid JSON"})
		return
	}
	if len(req.URLs) == 0 {
		writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: "urls is required"})
		return
	}

	result, err := h.manager.UpdateStatus(req.URLs, req.Status)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, BulkResponse{
			Success: false,
			Message: err.Error(),
			Updated: result.Updated,
			Missing: result.Missing,
		})
		return
	}

	middleware.RecordStatusUpdate(req.Status, result.Updated)
	writeJSON(w, http.StatusOK, BulkResponse{
		Success: true,
		Updated: result.Updated,
		Missing: result.Missing,
	})
}

func (h *LeadHandler) HandleAppendNotes(w http.ResponseWriter, r *http.Request) {
	var req BulkNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: "invalid JSON"})
		return
	}
	if len(req.URLs) == 0 {
		writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: "urls is required"})
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		writeJSON(w, http.StatusBadRequest, BulkResponse{Success: false, Message: "note is required"})
		return
	}

	result, err := h.manager.AppendNote(req.URLs, req.Note)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, BulkResponse{
			Success: false,
			Message: err.Error(),
			Updated: result.Updated,
			Missing: result.Missing,
		})
		return
	}

	middleware.RecordNotesAppended(result.Updated)
	writeJSON(w, http.StatusOK, BulkResponse{
		Success: true,
		Updated: result.Updated,
		Missing: result.Missing,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
