// Package mcp exposes the planner to MCP clients: an assistant drives the
// conversation through tools and reads exports as resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const exportURIPrefix = "voyage://sessions/"

// Engine is the part of voyage.Engine the MCP server needs.
type Engine interface {
	Start(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)
	Advance(ctx context.Context, sessionID string, event domain.Event) (*voyage.Turn, error)
	View(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)
	Export(ctx context.Context, sessionID string) (string, string, error)
	List(ctx context.Context) ([]string, error)
}

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("voyage-mcp", strings.TrimSpace(voyage.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartArgs are the arguments of start_session.
type StartArgs struct {
	SessionID string `json:"session_id,omitempty"`
}

// EventArgs are the arguments of send_event.
type EventArgs struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Value     string `json:"value,omitempty"`
}

// SessionArgs name a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// ExportResult is the output of export_plan.
type ExportResult struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

func eventKinds() []string {
	kinds := make([]string, len(domain.EventKinds))
	for i, k := range domain.EventKinds {
		kinds[i] = string(k)
	}
	return kinds
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a trip-planning session, or resume it if the ID exists. Returns the messages to show and the input the session waits for."),
		mcp.WithString("session_id", mcp.Description("Session ID (optional, generated when omitted)")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("send_event",
		mcp.WithDescription("Advance a session. The accepted event types are listed in the 'events' of the pending input."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("type", mcp.Required(), mcp.Enum(eventKinds()...), mcp.Description("Event type")),
		mcp.WithString("value", mcp.Description("API key, answer text, or destination name or number")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleSendEvent))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Show a session without changing it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSession))

	s.mcpServer.AddTool(mcp.NewTool("export_plan",
		mcp.WithDescription("Render the session's travel plan as plain text."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ExportResult](),
	), mcp.NewStructuredToolHandler(s.handleExport))
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args StartArgs) (runner.RichResponse, error) {
	sess, effects, err := s.engine.Start(ctx, args.SessionID)
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return *runner.NewRichResponse(sess, effects, nil), nil
}

func (s *Server) handleSendEvent(ctx context.Context, _ mcp.CallToolRequest, args EventArgs) (runner.RichResponse, error) {
	if args.SessionID == "" {
		return runner.RichResponse{}, errors.New("session_id is required")
	}

	ev, err := runner.SanitizeEvent(domain.Event{
		Kind:  domain.EventKind(args.Type),
		Value: args.Value,
	})
	if err != nil {
		s.logger.Warn("MCP send_event: Input rejected", "err", err, "size", len(args.Value))
		return runner.RichResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	turn, err := s.engine.Advance(ctx, args.SessionID, ev)
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("send_event failed: %w", err)
	}
	return *runner.NewRichResponse(turn.Session, turn.Effects, turn.Diff()), nil
}

func (s *Server) handleGetSession(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (runner.RichResponse, error) {
	sess, effects, err := s.engine.View(ctx, args.SessionID)
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("get_session failed: %w", err)
	}
	return *runner.NewRichResponse(sess, effects, nil), nil
}

func (s *Server) handleExport(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (ExportResult, error) {
	name, content, err := s.engine.Export(ctx, args.SessionID)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export_plan failed: %w", err)
	}
	return ExportResult{FileName: name, Content: content}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("voyage://sessions", "Stored sessions",
		mcp.WithResourceDescription("IDs of stored trip-planning sessions"),
		mcp.WithMIMEType("application/json"),
	), s.readSessions)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(exportURIPrefix+"{id}/export", "Travel plan",
		mcp.WithTemplateDescription("Plain-text travel plan of a session"),
		mcp.WithTemplateMIMEType("text/plain"),
	), s.readExport)
}

func (s *Server) readSessions(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: request.Params.URI, MIMEType: "application/json", Text: string(b)},
	}, nil
}

func (s *Server) readExport(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimSuffix(strings.TrimPrefix(uri, exportURIPrefix), "/export")
	if id == "" || id == uri || strings.Contains(id, "/") {
		return nil, fmt.Errorf("invalid export URI %q", uri)
	}

	_, content, err := s.engine.Export(ctx, id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "text/plain", Text: content},
	}, nil
}
