// Package server serves the results directory of the experiments over HTTP
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/or-suite/types"
	"github.com/zeu5/or-suite/util"
)

// ResultsServer exposes the metrics saved under a results directory
type ResultsServer struct {
	Addr    string
	root    string
	logger  *slog.Logger
	handler http.Handler
}

func NewResultsServer(addr, root string, logger *slog.Logger) *ResultsServer {
	s := &ResultsServer{
		Addr:   addr,
		root:   root,
		logger: logger,
	}
	s.handler = s.router()
	return s
}

// Handler serving the results, used directly in tests
func (s *ResultsServer) Handler() http.Handler {
	return s.handler
}

func (s *ResultsServer) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/experiments", s.handleList)
	r.GET("/experiments/:name/metrics", s.handleMetrics)
	r.GET("/experiments/:name/summary", s.handleSummary)
	return r
}

// Start serves until the context is cancelled
func (s *ResultsServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.Addr,
		Handler: s.handler,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving results", "addr", s.Addr, "root", s.root)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *ResultsServer) handleList(c *gin.Context) {
	names, err := util.ListDirs(s.root, types.MetricsFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiments": names})
}

func (s *ResultsServer) load(c *gin.Context) (*types.MetricsTable, bool) {
	name := c.Param("name")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid experiment name"})
		return nil, false
	}
	path := filepath.Join(s.root, name, types.MetricsFile)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "experiment not found"})
		return nil, false
	}
	table, err := types.LoadMetrics(path)
	if err != nil {
		s.logger.Error("loading metrics", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return table, true
}

func (s *ResultsServer) handleMetrics(c *gin.Context) {
	table, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiment": c.Param("name"), "rows": table.Rows()})
}

func (s *ResultsServer) handleSummary(c *gin.Context) {
	table, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.Summarize(table))
}
