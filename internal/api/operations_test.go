package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srinijakk/port-workflow1/internal/handlers"
	"github.com/Srinijakk/port-workflow1/internal/logging"
	"github.com/Srinijakk/port-workflow1/internal/scenario"
	"github.com/Srinijakk/port-workflow1/internal/tracker"
	"github.com/Srinijakk/port-workflow1/internal/worker"
	"github.com/Srinijakk/port-workflow1/pkg/models"
)

// fixtureStore serves canned rows for the read endpoints and the handlers.
type fixtureStore struct {
	containers map[string]*models.ContainerDetail
	instances  map[int64]string
}

func newFixtureStore() *fixtureStore {
	return &fixtureStore{
		containers: map[string]*models.ContainerDetail{
			"C1001": {ContainerID: "C1001", OperationType: models.OperationLoading,
				Weight: 12000, StorageID: "S-001", StorageStatus: models.StorageIncomplete,
				TransportationID: "truck101"},
		},
		instances: make(map[int64]string),
	}
}

func (s *fixtureStore) GetContainer(_ context.Context, containerID string) (*models.ContainerDetail, error) {
	return s.containers[containerID], nil
}

func (s *fixtureStore) UpdateStorageStatus(_ context.Context, containerID, status string) (int64, error) {
	if c, ok := s.containers[containerID]; ok {
		c.StorageStatus = status
		return 1, nil
	}
	return 0, nil
}

func (s *fixtureStore) UpdateTransportTimestamps(context.Context, string, *time.Time, *time.Time) (int64, error) {
	return 1, nil
}

func (s *fixtureStore) ListActiveOperations(context.Context) ([]*models.ActiveOperation, error) {
	var ops []*models.ActiveOperation
	for _, c := range s.containers {
		if c.StorageStatus != models.StorageComplete {
			ops = append(ops, &models.ActiveOperation{
				ContainerID: c.ContainerID, OperationType: c.OperationType, Weight: c.Weight,
				StorageID: c.StorageID, StorageStatus: c.StorageStatus,
				TransportationID: c.TransportationID,
			})
		}
	}
	return ops, nil
}

func (s *fixtureStore) ListTransportAssignments(context.Context) ([]*models.TransportAssignment, error) {
	return nil, nil
}

func (s *fixtureStore) ListContainers(context.Context) ([]*models.ContainerDetail, error) {
	var out []*models.ContainerDetail
	for _, c := range s.containers {
		out = append(out, c)
	}
	return out, nil
}

func (s *fixtureStore) UpsertProcessInstance(_ context.Context, key int64, description string) error {
	s.instances[key] = description
	return nil
}

func (s *fixtureStore) AppendProcessInstanceCompletion(_ context.Context, key int64, suffix string) error {
	if existing, ok := s.instances[key]; ok {
		s.instances[key] = existing + suffix
	}
	return nil
}

func (s *fixtureStore) ListProcessInstances(context.Context) ([]*models.ProcessInstance, error) {
	var out []*models.ProcessInstance
	for key, desc := range s.instances {
		out = append(out, &models.ProcessInstance{ProcessInstanceKey: key, Description: desc})
	}
	return out, nil
}

func testServer(store *fixtureStore) *echo.Echo {
	log := logging.NewLogger("test")

	deps := handlers.Deps{Store: store, Sim: handlers.InstantSimulator{}, Log: log}
	d := worker.New(tracker.New(store, log, nil), log)
	d.Register(handlers.NewCraneLoadingHandler(deps))
	d.Register(handlers.NewWeighingHandler(deps))
	d.Register(handlers.NewStorageHandler(deps))

	s := NewServer(store, d, scenario.NewReconstructor(store, log))
	e := echo.New()
	RegisterHandlers(e.Group("/api/v1"), s)
	return e
}

func postJob(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestExecuteJob(t *testing.T) {
	t.Run("a valid job returns the merged variables", func(t *testing.T) {
		e := testServer(newFixtureStore())
		rec := postJob(t, e, `{
			"type": "weighing",
			"jobKey": 1,
			"processInstanceKey": 100,
			"variables": {"containerId": "C1001", "transportationId": "truck101", "operationType": "loading"}
		}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp JobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.JobKey)
		assert.Equal(t, "C1001", resp.Variables.ContainerID)
		assert.Equal(t, "OK", resp.Variables.Extra["weightStatus"])
	})

	t.Run("a validation failure maps to 400", func(t *testing.T) {
		e := testServer(newFixtureStore())
		rec := postJob(t, e, `{"type": "weighing", "jobKey": 2, "variables": {}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var p ProblemDetails
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "validation failure", p.Title)
	})

	t.Run("a missing container maps to 404", func(t *testing.T) {
		e := testServer(newFixtureStore())
		rec := postJob(t, e, `{"type": "weighing", "jobKey": 3, "variables": {"containerId": "C9999"}}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("an unknown job kind maps to 404", func(t *testing.T) {
		e := testServer(newFixtureStore())
		rec := postJob(t, e, `{"type": "paint_container", "jobKey": 4, "variables": {"containerId": "C1001"}}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("a storage job records completion in the audit trail", func(t *testing.T) {
		store := newFixtureStore()
		e := testServer(store)
		rec := postJob(t, e, `{
			"type": "storage",
			"jobKey": 5,
			"processInstanceKey": 500,
			"variables": {"containerId": "C1001", "transportationId": "truck101", "operationType": "loading"}
		}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, store.instances[500], "Status: completed")
		assert.Equal(t, models.StorageComplete, store.containers["C1001"].StorageStatus)
	})
}

func TestReadEndpoints(t *testing.T) {
	e := testServer(newFixtureStore())

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("active operations", func(t *testing.T) {
		rec := get("/api/v1/operations/active")
		require.Equal(t, http.StatusOK, rec.Code)

		var ops []*models.ActiveOperation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ops))
		require.Len(t, ops, 1)
		assert.Equal(t, "C1001", ops[0].ContainerID)
	})

	t.Run("containers", func(t *testing.T) {
		rec := get("/api/v1/containers")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("process instances", func(t *testing.T) {
		rec := get("/api/v1/process-instances")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("scenarios", func(t *testing.T) {
		rec := get("/api/v1/scenarios")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
