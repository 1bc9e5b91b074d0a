// shared/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

type BaseServer struct {
	Router *mux.Router
	Server *http.Server
	Logger logger.Logger
}

// NewBaseServer builds a router with request logging and permissive CORS in front of it.
func NewBaseServer(addr string, lggr logger.Logger) *BaseServer {
	if lggr == nil {
		lggr = logger.Nop()
	}

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(lggr.Named("http")))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      c.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &BaseServer{
		Router: router,
		Server: server,
		Logger: lggr,
	}
}

// Handler returns the full middleware chain, useful with httptest.
func (bs *BaseServer) Handler() http.Handler {
	return bs.Server.Handler
}

func (bs *BaseServer) Start() error {
	bs.Logger.Infof("Starting HTTP server on %s", bs.Server.Addr)
	if err := bs.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

func (bs *BaseServer) Shutdown(ctx context.Context) error {
	bs.Logger.Infof("Shutting down HTTP server")
	return bs.Server.Shutdown(ctx)
}
