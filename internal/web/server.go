// Package web serves the reporting and admin JSON API over the imported
// broadcast store: cost reports per organisation and region, region
// coefficient maintenance, and plain CRUD for the catalog entities.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/adcalc/internal/db"
	"github.com/adcalc/internal/web/handlers"
)

// Server represents the web server
type Server struct {
	config     *Config
	conn       *db.Connection
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(config *Config) (*Server, error) {
	conn, err := db.Open(config.Database.Driver, config.Database.Target)
	if err != nil {
		return nil, err
	}

	server := &Server{
		config: config,
		conn:   conn,
	}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	costHandler := &handlers.CostHandler{DB: s.conn.DB}
	regionsHandler := &handlers.RegionsHandler{DB: s.conn.DB}
	orgsHandler := &handlers.OrganisationsHandler{DB: s.conn.DB}
	catalogHandler := &handlers.CatalogHandler{DB: s.conn.DB}
	statsHandler := &handlers.StatsHandler{DB: s.conn.DB}

	api := s.router.PathPrefix("/api").Subrouter()

	// Cost reports (the calculator front end consumes these)
	api.HandleFunc("/organisations/costs", costHandler.OrganisationCosts).Methods("GET")
	api.HandleFunc("/regions/{id:[0-9]+}/cost", costHandler.RegionCost).Methods("GET")

	// Regions: price coefficients are the only mutable attribute
	api.HandleFunc("/regions", regionsHandler.List).Methods("GET")
	api.HandleFunc("/regions/{id:[0-9]+}/rating", regionsHandler.UpdateRating).Methods("POST")

	// Organisations
	api.HandleFunc("/organisations", orgsHandler.List).Methods("GET")
	api.HandleFunc("/organisations", orgsHandler.Create).Methods("POST")
	api.HandleFunc("/organisations/{id:[0-9]+}", orgsHandler.Get).Methods("GET")
	api.HandleFunc("/organisations/{id:[0-9]+}", orgsHandler.Update).Methods("PUT")
	api.HandleFunc("/organisations/{id:[0-9]+}", orgsHandler.Delete).Methods("DELETE")
	api.HandleFunc("/organisations/{id:[0-9]+}/summary", orgsHandler.Summary).Methods("GET")

	// Districts and media outlets
	api.HandleFunc("/districts", catalogHandler.ListDistricts).Methods("GET")
	api.HandleFunc("/districts", catalogHandler.CreateDistrict).Methods("POST")
	api.HandleFunc("/districts/{id:[0-9]+}", catalogHandler.GetDistrict).Methods("GET")
	api.HandleFunc("/districts/{id:[0-9]+}", catalogHandler.UpdateDistrict).Methods("PUT")
	api.HandleFunc("/districts/{id:[0-9]+}", catalogHandler.DeleteDistrict).Methods("DELETE")
	api.HandleFunc("/outlets", catalogHandler.ListOutlets).Methods("GET")
	api.HandleFunc("/outlets", catalogHandler.CreateOutlet).Methods("POST")
	api.HandleFunc("/outlets/{id:[0-9]+}", catalogHandler.GetOutlet).Methods("GET")
	api.HandleFunc("/outlets/{id:[0-9]+}", catalogHandler.UpdateOutlet).Methods("PUT")
	api.HandleFunc("/outlets/{id:[0-9]+}", catalogHandler.DeleteOutlet).Methods("DELETE")

	// Statistics
	api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
}

// Start starts the web server and blocks until a shutdown signal.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		fmt.Printf("Database close error: %v\n", err)
	}

	fmt.Println("Server stopped")
	return nil
}
