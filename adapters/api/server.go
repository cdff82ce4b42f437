// Package api exposes the fit engine over a small JSON HTTP surface.
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vipfit/adapters/postgres"
	"vipfit/domain/core"
	"vipfit/internal/config"
)

var errRaggedMatrix = errors.New("design matrix rows have unequal length")

// Server wires the fit engine and the optional result store behind gin.
type Server struct {
	router   *gin.Engine
	store    *postgres.Store // nil disables persistence
	defaults config.FitConfig
}

// NewServer builds the HTTP server. store may be nil, in which case fits are
// served statelessly and the retrieval endpoints report 503.
func NewServer(store *postgres.Store, defaults config.FitConfig) *Server {
	s := &Server{
		router:   gin.Default(),
		store:    store,
		defaults: defaults,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/fits", s.handleFit)
	api.POST("/fits/gof", s.handleGoodnessOfFit)
	api.GET("/fits", s.handleListFits)
	api.GET("/fits/:id", s.handleGetFit)
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	log.Printf("vipd listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps domain errors to HTTP statuses: precondition violations are
// the client's fault, optimizer failures and the rest are server-side.
func statusFor(err error) int {
	switch {
	case core.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFitNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
