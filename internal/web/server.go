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

	"github.com/tablefill/internal/matcher"
	"github.com/tablefill/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	localDebug bool
	lexicons   matcher.Lexicons
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance and loads the configured
// lexicons once for all requests.
func NewServer(localDebug bool, config *Config) (*Server, error) {
	lexicons, err := matcher.LoadLexicons(localDebug, config.Matching.Settings())
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicons: %w", err)
	}

	server := &Server{
		config:     config,
		localDebug: localDebug,
		lexicons:   lexicons,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/fill", s.handleFill).Methods("POST", "OPTIONS")
	api.HandleFunc("/score", s.handleScore).Methods("POST", "OPTIONS")
	api.HandleFunc("/lexicons", s.handleLexicons).Methods("GET", "OPTIONS")
	api.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS")

	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigin))
	s.router.Use(middleware.RequestLogging(s.localDebug))
	s.router.Use(middleware.RateLimit(s.config.Limits.RequestsPerSecond, s.config.Limits.Burst))
	s.router.Use(middleware.BodyLimit(s.config.Limits.MaxBodyBytes))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until SIGINT or SIGTERM and then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
