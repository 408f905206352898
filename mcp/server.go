package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/nevindra/recall"
)

// Server exposes a recall.Manager to MCP clients over stdio.
type Server struct {
	name    string
	version string
	mem     *recall.Manager
	logger  *slog.Logger

	// reader/writer default to stdin/stdout.
	reader io.Reader
	writer io.Writer
	mu     sync.Mutex // protects writes
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger. Logs must not go to stdout, which
// carries the protocol.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithIO replaces stdin/stdout as the transport.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = w
	}
}

// New creates an MCP server for mem.
func New(name, version string, mem *recall.Manager, opts ...Option) *Server {
	s := &Server{
		name:    name,
		version: version,
		mem:     mem,
		logger:  slog.New(slog.DiscardHandler),
		reader:  os.Stdin,
		writer:  os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serve reads JSON-RPC messages until the input closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 64<<10), 10<<20) // 10MB max message

	s.logger.Info("mcp: serving", "name", s.name, "session_id", s.mem.SessionID())
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleLine(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mcp: read stdin: %w", err)
	}
	return nil
}

// handleLine handles one message or a batch (JSON array) of messages.
func (s *Server) handleLine(ctx context.Context, data []byte) {
	if data[0] != '[' {
		s.handleRequest(ctx, data)
		return
	}
	var batch []json.RawMessage
	if err := json.Unmarshal(data, &batch); err != nil {
		s.write(errorResponse(json.RawMessage("null"), errCodeParse, "parse error"))
		return
	}
	if len(batch) == 0 {
		s.write(errorResponse(json.RawMessage("null"), errCodeInvalidRequest, "invalid request: empty batch"))
		return
	}
	for _, raw := range batch {
		s.handleRequest(ctx, raw)
	}
}

func (s *Server) handleRequest(ctx context.Context, data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		s.write(errorResponse(json.RawMessage("null"), errCodeParse, "parse error"))
		return
	}
	resp := s.dispatch(ctx, &req)
	if req.isNotification() {
		// Notifications still take effect but are never answered.
		return
	}
	s.write(resp)
}

// dispatch routes a request and builds its response.
func (s *Server) dispatch(ctx context.Context, req *request) *response {
	s.logger.Debug("mcp: request", "method", req.Method)
	switch req.Method {
	case "initialize":
		return result(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		})
	case "ping":
		return result(req.ID, struct{}{})
	case "tools/list":
		return result(req.ID, map[string]any{"tools": toolDefinitions()})
	case "tools/call":
		var p toolCallParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return errorResponse(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
		}
		return result(req.ID, s.callTool(ctx, p.Name, p.Arguments))
	case "resources/list":
		return result(req.ID, map[string]any{"resources": []resourceDef{{
			URI:         longTermKeysURI,
			Name:        "long-term keys",
			Description: "Every key held in long-term memory, as a JSON array",
			MimeType:    "application/json",
		}}})
	case "resources/read":
		return s.readResource(ctx, req)
	}
	return errorResponse(req.ID, errCodeMethodNotFound, "method not found: "+req.Method)
}

func (s *Server) readResource(ctx context.Context, req *request) *response {
	var p resourceReadParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return errorResponse(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}
	if p.URI != longTermKeysURI {
		return errorResponse(req.ID, errCodeInvalidParams, "resource not found: "+p.URI)
	}
	keys, err := s.mem.LongTerm().Keys(ctx)
	if err != nil {
		return errorResponse(req.ID, errCodeInternal, err.Error())
	}
	if keys == nil {
		keys = []string{}
	}
	data, _ := json.Marshal(keys)
	return result(req.ID, map[string]any{"contents": []resourceContent{{
		URI:      longTermKeysURI,
		MimeType: "application/json",
		Text:     string(data),
	}}})
}

func result(id json.RawMessage, v any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: v}
}

func errorResponse(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

func (s *Server) write(resp *response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("mcp: marshal response", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		s.logger.Error("mcp: write response", "error", err)
	}
}
