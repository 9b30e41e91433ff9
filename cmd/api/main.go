package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/http/handlers"
	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/infra/storage"
	"github.com/xavierca1/leadboard/internal/usecase"
)

func main() {
	godotenv.Load()

	dataFile := envOr("LEAD_DATA_FILE", "data/progress.csv")
	statuses := statusSetFromEnv()

	// 1. Storage + repository
	store := storage.NewCSVStorage(dataFile)
	manager, err := usecase.NewLeadManager(store, statuses)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Analytics
	analytics := usecase.NewAnalytics(statuses)

	// 3. Handlers
	leadHandler := handlers.NewLeadHandler(manager)
	analyticsHandler := handlers.NewAnalyticsHandler(manager, analytics)
	healthHandler := handlers.NewHealthHandler(store)

	// 4. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(envOr("CORS_ORIGINS", "*"), ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/leads/sync", leadHandler.HandleSync)
	r.Get("/leads", leadHandler.HandleList)
	r.Post("/leads/status", leadHandler.HandleUpdateStatus)
	r.Post("/leads/notes", leadHandler.HandleAppendNotes)

	r.Get("/analytics/summary", analyticsHandler.HandleSummary)
	r.Get("/exports/summary", analyticsHandler.HandleSummaryExport)
	r.Get("/exports/status-report", analyticsHandler.HandleStatusReport)
	r.Get("/exports/leads", analyticsHandler.HandleLeadsExport)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("leadboard listening on %s (data file: %s)", port, dataFile)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// statusSetFromEnv builds the funnel configuration. LEAD_STATUSES is a
// comma-separated list; initial and converted default to the first entry
// and to "Converted" when present in the list.
func statusSetFromEnv() entity.StatusSet {
	set := entity.DefaultStatusSet()

	if raw := os.Getenv("LEAD_STATUSES"); raw != "" {
		var statuses []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
		if len(statuses) > 0 {
			set.Statuses = statuses
			set.Initial = statuses[0]
			set.Converted = ""
			for _, s := range statuses {
				if s == "Converted" {
					set.Converted = s
				}
			}
		}
	}
	if v := os.Getenv("LEAD_INITIAL_STATUS"); v != "" && set.Contains(v) {
		set.Initial = v
	}
	if v := os.Getenv("LEAD_CONVERTED_STATUS"); v != "" && set.Contains(v) {
		set.Converted = v
	}
	return set
}
