package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"singularshift/internal/cache"
	"singularshift/internal/service"
	"singularshift/internal/session"
	"singularshift/internal/transport/rest/handler"
	"singularshift/internal/transport/rest/middleware"
	"singularshift/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	ReportService    *service.ReportService
	ExportService    *service.ExportService
	Sessions         *session.Manager
	SessionCache     cache.SessionCache // optional
	WSHub            *ws.Hub
	SecureCookie     bool
	Logger           *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.SecureCookie, logger)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService, c.AuthService, logger)
	reportHandler := handler.NewReportHandler(c.ReportService, logger)
	exportHandler := handler.NewExportHandler(c.ExportService, logger)
	sessionHandler := handler.NewSessionHandler(c.Sessions, c.SessionCache, c.AuthService, logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Sessions, service.SessionCookieName, logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/sign-up", authHandler.SignUp).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/sign-in", authHandler.SignIn).Methods("POST", "OPTIONS")
	api.HandleFunc("/report-generate", reportHandler.Generate).Methods("POST", "OPTIONS")

	// WebSocket route (authenticates the cookie itself)
	api.HandleFunc("/sessions/{id}/ws", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Signed-in routes
	userRoutes := api.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/sign-out", authHandler.SignOut).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/interviews/latest", interviewHandler.Latest).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/interviews/{id}", interviewHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/interviews/{id}/feedback", interviewHandler.Feedback).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/disconnect", sessionHandler.Disconnect).Methods("POST", "OPTIONS")

	// Admin routes
	adminRoutes := api.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireUser, authMW.RequireAdmin)

	adminRoutes.HandleFunc("/admin/stats", interviewHandler.Stats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/leaderboard", interviewHandler.Leaderboard).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/export/training-data", exportHandler.TrainingData).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		if allowedOrigins != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
