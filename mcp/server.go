// Package mcp implements a Model Context Protocol (MCP) server that exposes
// report generation as tools and resources for AI assistants.
//
// The server communicates via JSON-RPC 2.0 over stdio and implements the
// MCP specification (2024-11-05) for tools and resources.
//
// # Usage with an MCP client
//
// Add to the client's server list:
//
//	{
//	  "mcpServers": {
//	    "reportes": {
//	      "command": "reportes-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
)

// ProtocolVersion is the MCP revision the server speaks.
const ProtocolVersion = "2024-11-05"

// Server answers MCP requests read as newline-delimited JSON-RPC 2.0.
type Server struct {
	name, version string

	tools     map[string]Tool
	resources map[string]Resource
	methods   map[string]method

	input  io.Reader
	output io.Writer
	log    *slog.Logger
	mu     sync.Mutex
}

// method answers one JSON-RPC method. A returned *rpcError is sent as is;
// any other error becomes an internal error.
type method func(ctx context.Context, params json.RawMessage) (any, error)

// Tool defines an MCP tool that can be called by the client.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Handler     ToolHandler    `json:"-"`
}

// ToolHandler executes a tool. args holds the raw "arguments" object of the
// call.
type ToolHandler func(ctx context.Context, args json.RawMessage) (ToolResult, error)

// ToolResult is the result returned by a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one text block of a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult is a ToolResult with a single text block.
func TextResult(format string, args ...any) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

// Resource defines an MCP resource.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler reads a resource and returns its content.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is the text content of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  any              `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("%s (%d)", e.Message, e.Code) }

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

func invalidParams(message string, data any) error {
	return &rpcError{Code: codeInvalidParams, Message: message, Data: data}
}

// NewServer creates a server reading from stdin and writing to stdout.
func NewServer(log *slog.Logger) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, log)
}

// NewServerWithIO creates a server over in and out.
func NewServerWithIO(in io.Reader, out io.Writer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		name:      "reportes-mcp",
		version:   "1.0.0",
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
		log:       log.With(slog.String("component", "mcp")),
	}
	s.methods = map[string]method{
		"initialize":     s.initialize,
		"ping":           func(context.Context, json.RawMessage) (any, error) { return struct{}{}, nil },
		"tools/list":     s.listTools,
		"tools/call":     s.callTool,
		"resources/list": s.listResources,
		"resources/read": s.readResource,
	}
	return s
}

// AddTool registers a tool with the server.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers a resource with the server.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run processes messages until EOF or until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.input)
	scanner.Buffer(make([]byte, 0, 1<<20), 32<<20)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(nil, nil, &rpcError{Code: codeParseError, Message: "Parse error", Data: err.Error()})
			continue
		}
		s.dispatch(ctx, req)
	}
	return scanner.Err()
}

// dispatch runs the method named by req. Notifications, which carry no id,
// are never answered.
func (s *Server) dispatch(ctx context.Context, req jsonrpcRequest) {
	m, ok := s.methods[req.Method]
	if !ok {
		if req.ID != nil {
			s.reply(req.ID, nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found", Data: req.Method})
		}
		return
	}

	result, err := m(ctx, req.Params)
	if req.ID == nil {
		return
	}
	var rerr *rpcError
	if err != nil && !errors.As(err, &rerr) {
		rerr = &rpcError{Code: codeInternalError, Message: "Internal error", Data: err.Error()}
	}
	s.reply(req.ID, result, rerr)
}

func (s *Server) initialize(context.Context, json.RawMessage) (any, error) {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	}, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (any, error) {
	tools := make([]Tool, 0, len(s.tools))
	for _, name := range slices.Sorted(maps.Keys(s.tools)) {
		tools = append(tools, s.tools[name])
	}
	return map[string]any{"tools": tools}, nil
}

// callTool runs a tool. A failing tool is a successful call whose result is
// flagged as an error, so the client can show the message.
func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, error) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams("Invalid params", err.Error())
	}
	tool, ok := s.tools[params.Name]
	if !ok {
		return nil, invalidParams("Unknown tool", params.Name)
	}

	log := s.log.With(slog.String("tool", params.Name))
	result, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		log.WarnContext(ctx, "tool failed", slog.Any("error", err))
		result = TextResult("Error: %v", err)
		result.IsError = true
		return result, nil
	}
	log.InfoContext(ctx, "tool called")
	return result, nil
}

func (s *Server) listResources(context.Context, json.RawMessage) (any, error) {
	resources := make([]Resource, 0, len(s.resources))
	for _, uri := range slices.Sorted(maps.Keys(s.resources)) {
		resources = append(resources, s.resources[uri])
	}
	return map[string]any{"resources": resources}, nil
}

func (s *Server) readResource(_ context.Context, raw json.RawMessage) (any, error) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams("Invalid params", err.Error())
	}
	resource, ok := s.resources[params.URI]
	if !ok {
		return nil, invalidParams("Unknown resource", params.URI)
	}

	contents, err := resource.Handler(params.URI)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", params.URI, err)
	}
	return map[string]any{"contents": contents}, nil
}

func (s *Server) reply(id *json.RawMessage, result any, rerr *rpcError) {
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: rerr}
	if rerr == nil {
		resp.Result = result
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("encoding response", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.output.Write(append(data, '\n')); err != nil {
		s.log.Error("writing response", slog.Any("error", err))
	}
}
