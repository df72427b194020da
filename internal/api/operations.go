// Package api contains the HTTP surface of the worker: the job delivery
// endpoint the engine calls and the read-only operational views.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Srinijakk/port-workflow1/internal/handlers"
	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/scenario"
	"github.com/Srinijakk/port-workflow1/internal/variables"
	"github.com/Srinijakk/port-workflow1/internal/worker"
)

// Server holds the dependencies for the API server.
type Server struct {
	Repo          repository.PortStore
	Dispatcher    *worker.Dispatcher
	Reconstructor *scenario.Reconstructor
}

// NewServer creates a new Server.
func NewServer(repo repository.PortStore, d *worker.Dispatcher, r *scenario.Reconstructor) *Server {
	return &Server{Repo: repo, Dispatcher: d, Reconstructor: r}
}

// JobRequest is one job as delivered by the engine.
type JobRequest struct {
	Type               string                `json:"type"`
	JobKey             int64                 `json:"jobKey"`
	ProcessInstanceKey int64                 `json:"processInstanceKey"`
	Variables          variables.VariableSet `json:"variables"`
}

// JobResponse carries the merged variable set back to the engine.
type JobResponse struct {
	JobKey    int64                 `json:"jobKey"`
	Variables variables.VariableSet `json:"variables"`
}

// ExecuteJob runs one job through the dispatch table.
// (POST /api/v1/jobs)
func (s *Server) ExecuteJob(c echo.Context) error {
	ctx := c.Request().Context()

	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest,
			problem(http.StatusBadRequest, "invalid job payload", err.Error()))
	}

	out, err := s.Dispatcher.Dispatch(ctx, handlers.Kind(req.Type), handlers.Job{
		Key:                req.JobKey,
		ProcessInstanceKey: req.ProcessInstanceKey,
		Variables:          req.Variables,
	})
	if err != nil {
		var (
			validationErr *handlers.ValidationError
			notFoundErr   *handlers.NotFoundError
			unknownErr    *worker.UnknownKindError
		)
		switch {
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest,
				problem(http.StatusBadRequest, "validation failure", err.Error()))
		case errors.As(err, &notFoundErr):
			return c.JSON(http.StatusNotFound,
				problem(http.StatusNotFound, "entity not found", err.Error()))
		case errors.As(err, &unknownErr):
			return c.JSON(http.StatusNotFound,
				problem(http.StatusNotFound, "unknown job kind", err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError,
				problem(http.StatusInternalServerError, "job execution failed", err.Error()))
		}
	}

	return c.JSON(http.StatusOK, JobResponse{JobKey: req.JobKey, Variables: out})
}

// ListActiveOperations returns containers whose storage is not yet complete.
// (GET /api/v1/operations/active)
func (s *Server) ListActiveOperations(c echo.Context) error {
	ops, err := s.Repo.ListActiveOperations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ops)
}

// ListContainers returns every container with its joined rows.
// (GET /api/v1/containers)
func (s *Server) ListContainers(c echo.Context) error {
	containers, err := s.Repo.ListContainers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, containers)
}

// ListProcessInstances returns the audit rows, newest first.
// (GET /api/v1/process-instances)
func (s *Server) ListProcessInstances(c echo.Context) error {
	instances, err := s.Repo.ListProcessInstances(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, instances)
}

// ListScenarios returns the startable scenarios reconstructed from the
// current store state.
// (GET /api/v1/scenarios)
func (s *Server) ListScenarios(c echo.Context) error {
	scenarios, err := s.Reconstructor.ListStartableScenarios(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, scenarios)
}

// RegisterHandlers mounts the API routes on an echo group.
func RegisterHandlers(g *echo.Group, s *Server) {
	g.POST("/jobs", s.ExecuteJob)
	g.GET("/operations/active", s.ListActiveOperations)
	g.GET("/containers", s.ListContainers)
	g.GET("/process-instances", s.ListProcessInstances)
	g.GET("/scenarios", s.ListScenarios)
}
