package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/xavierca1/leadboard/internal/infra/storage"
)

type HealthHandler struct {
	Store     *storage.CSVStorage
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store *storage.CSVStorage) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	path := h.Store.Path()
	if _, err := os.Stat(path); err == nil {
		deps["storage"] = "healthy"
	} else if os.IsNotExist(err) {
		// First run: the file appears on the first save.
		if _, dirErr := os.Stat(filepath.Dir(path)); dirErr == nil || os.IsNotExist(dirErr) {
			deps["storage"] = "empty"
		} else {
			deps["storage"] = fmt.Sprintf("unhealthy: %v", dirErr)
		}
	} else {
		deps["storage"] = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "empty" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
