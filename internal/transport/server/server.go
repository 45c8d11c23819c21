package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/pep299/webcrawl-agent/internal/application"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// CreateHandler creates the main HTTP handler for the application
func CreateHandler() (http.Handler, func(), error) {
	// Create application (handles all DI and business logic)
	app, err := application.New()
	if err != nil {
		log.Printf("Error creating application: %v", err)
		return nil, nil, err
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Handle("/analyze", app.AnalyzeHandler).Methods(http.MethodPost)
	api.Handle("/analyze-text", app.AnalyzeTextHandler).Methods(http.MethodPost)
	api.Handle("/analyze-document", app.AnalyzeDocumentHandler).Methods(http.MethodPost)
	api.Handle("/stream", app.StreamHandler).Methods(http.MethodGet)
	api.Handle("/reports/{fileName}", app.ReportsHandler).Methods(http.MethodGet)

	// Expired reports are swept hourly.
	scheduler := cron.New()
	ttl := time.Duration(app.Config.ReportTTLHours) * time.Hour
	scheduler.AddFunc("@hourly", func() {
		removed, err := report.CleanupExpired(app.Config.ReportDir, ttl)
		if err != nil {
			log.Printf("Report cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Report cleanup removed=%d ttl_hours=%d", removed, app.Config.ReportTTLHours)
		}
	})
	scheduler.Start()

	cleanup := func() {
		scheduler.Stop()
		if err := app.Close(); err != nil {
			log.Printf("Application close failed: %v", err)
		}
	}

	return router, cleanup, nil
}
