package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Srinijakk/port-workflow1/internal/repository"
	"github.com/Srinijakk/port-workflow1/internal/scenario"
)

type Server struct {
	mcpServer     *server.MCPServer
	store         repository.PortStore
	reconstructor *scenario.Reconstructor
	starter       *scenario.Starter
}

func NewServer(store repository.PortStore, reconstructor *scenario.Reconstructor, starter *scenario.Starter) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Port Operations",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		store:         store,
		reconstructor: reconstructor,
		starter:       starter,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_container",
			mcp.WithDescription("Look up a container with its storage and transport state"),
			mcp.WithString("containerId", mcp.Required(), mcp.Description("The container identifier")),
		),
		s.handleGetContainer,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_active_operations",
			mcp.WithDescription("List containers whose storage is not yet complete"),
		),
		s.handleListActiveOperations,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_startable_scenarios",
			mcp.WithDescription("Reconstruct the workflow scenarios that can be started from current state"),
		),
		s.handleListScenarios,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"start_workflows",
			mcp.WithDescription("Start one workflow per startable scenario"),
			mcp.WithString("mode", mcp.Description("\"sequential\" (default) or \"parallel\"")),
		),
		s.handleStartWorkflows,
	)
}

func (s *Server) handleGetContainer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	containerID, ok := args["containerId"].(string)
	if !ok || containerID == "" {
		return mcp.NewToolResultError("Missing required parameter: containerId"), nil
	}

	detail, err := s.store.GetContainer(ctx, containerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get container: %v", err)), nil
	}
	if detail == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Container %s not found", containerID)), nil
	}

	jsonBytes, _ := json.Marshal(detail)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListActiveOperations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ops, err := s.store.ListActiveOperations(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list active operations: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(ops)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenarios, err := s.reconstructor.ListStartableScenarios(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reconstruct scenarios: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(scenarios)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleStartWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := "sequential"
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if m, ok := args["mode"].(string); ok && m != "" {
			mode = m
		}
	}

	scenarios, err := s.reconstructor.ListStartableScenarios(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reconstruct scenarios: %v", err)), nil
	}

	var summary scenario.Summary
	switch mode {
	case "parallel":
		summary = s.starter.StartParallel(ctx, scenarios)
	case "sequential":
		summary = s.starter.StartSequential(ctx, scenarios, time.Second)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Unknown mode %q", mode)), nil
	}

	jsonBytes, _ := json.Marshal(summary)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
