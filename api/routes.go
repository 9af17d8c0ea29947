package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/prasetyadi/survey-kiosk/internal/config"
	"github.com/prasetyadi/survey-kiosk/internal/db"
	"github.com/prasetyadi/survey-kiosk/internal/gate"
	"github.com/prasetyadi/survey-kiosk/internal/report"
	"github.com/prasetyadi/survey-kiosk/internal/repository/sqlite"
	"github.com/prasetyadi/survey-kiosk/internal/token"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, loc *time.Location) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database)

	signer := token.NewSigner(cfg.JWTSecret)
	limiter := gate.NewLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	reports := report.NewService(repo, loc)

	// Create handlers
	systemHandler := NewSystemHandler(database)
	authHandler := NewAuthHandler(repo, signer, cfg.AdminTokenDuration)
	questionsHandler := NewQuestionsHandler(repo)
	surveyHandler := NewSurveyHandler(repo, repo)
	reportsHandler := NewReportsHandler(reports, repo)
	submissionGate := NewGate(limiter, signer, cfg.SessionDuration, cfg.Production())

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/questions", questionsHandler.ListPublic).Methods("GET")
	r.HandleFunc("/api/session", submissionGate.StartSession).Methods("GET")
	r.Handle("/api/survey", submissionGate.Protect(http.HandlerFunc(surveyHandler.Submit))).Methods("POST")
	r.HandleFunc("/api/survey/stats", surveyHandler.Stats).Methods("GET")
	r.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// Protected admin routes
	admin := r.PathPrefix("/admin/api").Subrouter()
	admin.Use(AdminAuthMiddleware(signer))

	// Question management. Fixed paths register before the {id} routes.
	admin.HandleFunc("/questions", questionsHandler.ListAll).Methods("GET")
	admin.HandleFunc("/questions", questionsHandler.Create).Methods("POST")
	admin.HandleFunc("/questions/reorder", questionsHandler.Reorder).Methods("PUT")
	admin.HandleFunc("/questions/reset", questionsHandler.Reset).Methods("POST")
	admin.HandleFunc("/questions/{id:[0-9]+}", questionsHandler.Update).Methods("PUT")
	admin.HandleFunc("/questions/{id:[0-9]+}", questionsHandler.Delete).Methods("DELETE")

	// Reporting
	admin.HandleFunc("/dashboard", reportsHandler.Dashboard).Methods("GET")
	admin.HandleFunc("/recent", reportsHandler.Recent).Methods("GET")
	admin.HandleFunc("/heatmap", reportsHandler.Heatmap).Methods("GET")
	admin.HandleFunc("/logs", reportsHandler.Logs).Methods("GET")
	admin.HandleFunc("/reports/months", reportsHandler.Months).Methods("GET")
	admin.HandleFunc("/reports/monthly", reportsHandler.Monthly).Methods("GET")
	admin.HandleFunc("/reports/csv", reportsHandler.ExportCSV).Methods("GET")
	admin.HandleFunc("/reports/pdf", reportsHandler.ExportPDF).Methods("GET")

	return r
}
