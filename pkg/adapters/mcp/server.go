package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const bindingsURI = "cadence://bindings"

// FlagsResponse is the structured result of get_flags.
type FlagsResponse struct {
	Tick   uint64          `json:"tick" jsonschema_description:"Number of the last completed tick"`
	Now    time.Duration   `json:"now" jsonschema_description:"Engine time of the tick in nanoseconds"`
	Active []string        `json:"active" jsonschema_description:"Names of the flags that are true"`
	Flags  map[string]bool `json:"flags" jsonschema_description:"Every flag and its value"`
}

// SignalResponse acknowledges a signal write.
type SignalResponse struct {
	Signal string `json:"signal"`
	Value  bool   `json:"value"`
	Pulse  bool   `json:"pulse,omitempty"`
}

// ActionResponse acknowledges a queued action.
type ActionResponse struct {
	Action string `json:"action"`
	Queued bool   `json:"queued"`
}

type signalArgs struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type actionArgs struct {
	Name string `json:"name"`
}

// State reads the engine state from outside the tick goroutine.
type State interface {
	Snapshot() *domain.Snapshot
}

// Submitter queues an action to run between ticks.
type Submitter func(ctx context.Context, a action.Action) error

// Server exposes a running engine to MCP clients: agents can read flags,
// drive the signal board and trigger named resets.
type Server struct {
	board     ports.SignalBoard
	state     State
	bindings  []cadence.BindingInfo
	actions   map[string]action.Action
	submit    Submitter
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Over stdio it must not write to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithActions exposes actions through the run_action tool.
func WithActions(submit Submitter, actions map[string]action.Action) Option {
	return func(s *Server) {
		s.submit = submit
		s.actions = actions
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(board ports.SignalBoard, state State, bindings []cadence.BindingInfo, opts ...Option) *Server {
	s := &Server{
		board:     board,
		state:     state,
		bindings:  bindings,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("cadence-mcp", strings.TrimSpace(cadence.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// SSEHandler returns the SSE transport mounted at /sse and /message.
func (s *Server) SSEHandler(baseURL string) http.Handler {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	return mux
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: get_flags
	s.mcpServer.AddTool(mcp.NewTool("get_flags",
		mcp.WithDescription("Read every flag as of the last completed tick."),
		mcp.WithOutputSchema[FlagsResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetFlags))

	// TOOL: list_signals
	s.mcpServer.AddTool(mcp.NewTool("list_signals",
		mcp.WithDescription("List the external input signals and their current values."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.board.Signals())
	})

	// TOOL: set_signal
	s.mcpServer.AddTool(mcp.NewTool("set_signal",
		mcp.WithDescription("Set an input signal. It keeps the value until set again."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Signal name, e.g. pilot.actionReady")),
		mcp.WithBoolean("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithOutputSchema[SignalResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetSignal))

	// TOOL: pulse_signal
	s.mcpServer.AddTool(mcp.NewTool("pulse_signal",
		mcp.WithDescription("Hold an input signal true for exactly one tick."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Signal name, e.g. auton.clearStates")),
		mcp.WithOutputSchema[SignalResponse](),
	), mcp.NewStructuredToolHandler(s.handlePulseSignal))

	// TOOL: run_action
	names := s.actionNames()
	if len(names) > 0 {
		s.mcpServer.AddTool(mcp.NewTool("run_action",
			mcp.WithDescription("Queue a named reset to run between two ticks."),
			mcp.WithString("name", mcp.Required(), mcp.Enum(names...), mcp.Description("Action name")),
			mcp.WithOutputSchema[ActionResponse](),
		), mcp.NewStructuredToolHandler(s.handleRunAction))
	}

	// TOOL: get_bindings
	s.mcpServer.AddTool(mcp.NewTool("get_bindings",
		mcp.WithDescription("Get the binding table in evaluation order for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.bindings)
	})
}

func (s *Server) handleGetFlags(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (FlagsResponse, error) {
	snap := s.state.Snapshot()
	if snap == nil {
		return FlagsResponse{}, errors.New("no tick yet")
	}
	return FlagsResponse{
		Tick:   snap.Tick,
		Now:    snap.Now,
		Active: snap.Active(),
		Flags:  snap.Flags,
	}, nil
}

func (s *Server) handleSetSignal(ctx context.Context, request mcp.CallToolRequest, args signalArgs) (SignalResponse, error) {
	if err := s.board.Set(args.Name, args.Value); err != nil {
		return SignalResponse{}, err
	}
	s.logger.Debug("MCP signal set", "signal", args.Name, "value", args.Value)
	return SignalResponse{Signal: args.Name, Value: args.Value}, nil
}

func (s *Server) handlePulseSignal(ctx context.Context, request mcp.CallToolRequest, args signalArgs) (SignalResponse, error) {
	if err := s.board.Pulse(args.Name); err != nil {
		return SignalResponse{}, err
	}
	s.logger.Debug("MCP signal pulsed", "signal", args.Name)
	return SignalResponse{Signal: args.Name, Value: true, Pulse: true}, nil
}

func (s *Server) handleRunAction(ctx context.Context, request mcp.CallToolRequest, args actionArgs) (ActionResponse, error) {
	a, ok := s.actions[args.Name]
	if !ok || s.submit == nil {
		return ActionResponse{}, fmt.Errorf("unknown action %q", args.Name)
	}
	if err := s.submit(ctx, a); err != nil {
		return ActionResponse{}, fmt.Errorf("submit %s: %w", args.Name, err)
	}
	s.logger.Info("MCP action submitted", "action", args.Name)
	return ActionResponse{Action: a.Name(), Queued: true}, nil
}

func (s *Server) actionNames() []string {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) registerResources() {
	// EXPOSE: cadence://bindings
	s.mcpServer.AddResource(mcp.NewResource(bindingsURI, "Binding Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.bindings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode bindings: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      bindingsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
