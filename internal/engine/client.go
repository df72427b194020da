// Package engine talks to the external workflow engine's gateway. The engine
// owns routing, retries and process versioning; this worker only creates
// instances and receives jobs.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/Srinijakk/port-workflow1/internal/variables"
)

// Client creates workflow instances on the engine.
type Client interface {
	// CreateInstance starts one run of the named process with the given
	// variables and returns the engine-issued process instance key.
	CreateInstance(ctx context.Context, processID string, vars variables.VariableSet) (int64, error)
}

// HTTPClient is an HTTP implementation of the Client interface against the
// engine's REST gateway.
type HTTPClient struct {
	url  string
	http *http.Client
}

// NewHTTPClient creates an HTTPClient. creds may be nil for an insecure
// local gateway; when set, requests carry a client-credentials bearer token.
func NewHTTPClient(url string, creds *clientcredentials.Config) *HTTPClient {
	c := &HTTPClient{url: url, http: http.DefaultClient}
	if creds != nil {
		c.http = creds.Client(context.Background())
	}
	return c
}

type createInstanceRequest struct {
	ProcessDefinitionID string                `json:"processDefinitionId"`
	Variables           variables.VariableSet `json:"variables"`
}

type createInstanceResponse struct {
	ProcessInstanceKey int64 `json:"processInstanceKey,string"`
}

// CreateInstance starts one process instance.
func (c *HTTPClient) CreateInstance(ctx context.Context, processID string, vars variables.VariableSet) (int64, error) {
	body, err := json.Marshal(createInstanceRequest{
		ProcessDefinitionID: processID,
		Variables:           vars,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url+"/v2/process-instances", bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("engine rejected instance creation: status code %d", resp.StatusCode)
	}

	var created createInstanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to decode response body: %w", err)
	}
	return created.ProcessInstanceKey, nil
}
