package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/yardpoint/pipeyardgo/internal/config"
	"github.com/yardpoint/pipeyardgo/internal/database"
	"github.com/yardpoint/pipeyardgo/internal/middleware"
	"github.com/yardpoint/pipeyardgo/internal/notify"
	"github.com/yardpoint/pipeyardgo/internal/yard"
)

// Router wraps the mux router and the service dependencies
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	yard     *yard.Service
	hub      *notify.Hub
	notifier *notify.Dispatcher
	validate *validator.Validate
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, yardSvc *yard.Service, hub *notify.Hub, notifier *notify.Dispatcher) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		yard:     yardSvc,
		hub:      hub,
		notifier: notifier,
		validate: validator.New(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Rack routes
	api.HandleFunc("/racks", r.listRacks).Methods("GET")
	api.HandleFunc("/racks/labels", r.rackLabels).Methods("POST")
	api.HandleFunc("/racks/{code}", r.getRack).Methods("GET")
	api.HandleFunc("/racks/{code}/adjustments", r.listAdjustments).Methods("GET")
	api.Handle("/racks/{code}/adjust", middleware.RequireAdmin(http.HandlerFunc(r.adjustRack))).Methods("POST")

	// Storage request routes
	api.HandleFunc("/requests", r.submitRequest).Methods("POST")
	api.HandleFunc("/requests", r.listRequests).Methods("GET")
	api.HandleFunc("/requests/{id}", r.getRequest).Methods("GET")
	api.Handle("/requests/{id}/approve", middleware.RequireAdmin(http.HandlerFunc(r.approveRequest))).Methods("POST")
	api.Handle("/requests/{id}/reject", middleware.RequireAdmin(http.HandlerFunc(r.rejectRequest))).Methods("POST")

	// Load routes
	api.HandleFunc("/loads", r.scheduleLoad).Methods("POST")
	api.HandleFunc("/loads/{id}/manifest", r.attachManifest).Methods("POST")
	api.HandleFunc("/loads/{id}/transition", r.transitionLoad).Methods("POST")
	api.Handle("/loads/{id}/complete-inbound", middleware.RequireAdmin(http.HandlerFunc(r.completeInbound))).Methods("POST")
	api.Handle("/loads/{id}/complete-outbound", middleware.RequireAdmin(http.HandlerFunc(r.completeOutbound))).Methods("POST")

	// Inventory
	api.HandleFunc("/inventory", r.listInventory).Methods("GET")

	// Dashboard event stream
	r.HandleFunc("/ws/yard", func(w http.ResponseWriter, req *http.Request) {
		notify.ServeWS(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
