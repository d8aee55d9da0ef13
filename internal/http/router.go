package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lead-backend/internal/handlers"
	"lead-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	buyerHandler *handlers.BuyerHandler,
	historyHandler *handlers.BuyerHistoryHandler,
	importExportHandler *handlers.ImportExportHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health checks
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes - Buyers (leads)
	buyersAPI := r.PathPrefix("/api/buyers").Subrouter()
	buyersAPI.Use(authMiddleware.Authenticate)
	buyersAPI.HandleFunc("", buyerHandler.List).Methods("GET")
	buyersAPI.HandleFunc("", buyerHandler.Create).Methods("POST")
	buyersAPI.HandleFunc("/import", importExportHandler.Import).Methods("POST")
	buyersAPI.HandleFunc("/export", importExportHandler.Export).Methods("GET")
	buyersAPI.HandleFunc("/{id}", buyerHandler.Get).Methods("GET")
	buyersAPI.HandleFunc("/{id}", buyerHandler.Update).Methods("PUT")
	buyersAPI.HandleFunc("/{id}/history", historyHandler.ByBuyer).Methods("GET")
	buyersAPI.HandleFunc("/{id}/pdf", reportHandler.BuyerPDF).Methods("GET")

	// Protected API routes - full audit trail (admin only)
	historyAPI := r.PathPrefix("/api/history").Subrouter()
	historyAPI.Use(authMiddleware.Authenticate)
	historyAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(historyHandler.All)).ServeHTTP).Methods("GET")

	// Protected API routes - Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.Stats).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.Create)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/login-logs", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.LoginLogs)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}/active", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.SetActive)).ServeHTTP).Methods("PUT")

	return r
}
