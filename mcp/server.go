package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/beamkit/beam"
	"github.com/beamkit/beam/policy"
)

const protocolVersion = "2025-03-26"

// Server serves one beam.Service over JSON-RPC. The protocol framing lives
// here; all tool semantics stay in the service and its policy pipeline.
type Server struct {
	svc *beam.Service
	log logrus.FieldLogger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Without it the server is silent.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer wraps a service for protocol serving.
func NewServer(svc *beam.Service, opts ...Option) *Server {
	s := &Server{svc: svc}
	for _, fn := range opts {
		fn(s)
	}
	if s.log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		s.log = silent
	}
	return s
}

// Serve processes NDJSON JSON-RPC requests from r and writes responses to w
// until EOF, a shutdown request, or context cancellation. All calls share
// the service's default policy state scope; use ServeSession to give a
// client its own scope.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	return s.ServeSession(ctx, nil, r, w)
}

// ServeSession is Serve with an explicit policy state scope. A nil scope
// falls back to the service default.
func (s *Server) ServeSession(ctx context.Context, states *policy.Registry, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, err := readRequest(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var eo *ErrorObject
			if errors.As(err, &eo) {
				if werr := writeResponse(w, &Response{Error: eo}); werr != nil {
					return werr
				}
				continue
			}
			return err
		}

		resp, stop := s.handle(ctx, states, req)
		if resp != nil {
			if err := writeResponse(w, resp); err != nil {
				return err
			}
		}
		if stop {
			return nil
		}
	}
}

// handle dispatches one request. The bool reports whether the serve loop
// should stop (shutdown).
func (s *Server) handle(ctx context.Context, states *policy.Registry, req *Request) (*Response, bool) {
	log := s.log.WithField("method", req.Method)

	switch req.Method {
	case "initialize":
		return s.result(req, map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo": map[string]any{
				"name":    s.svc.Name(),
				"version": s.svc.Version(),
			},
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
				"prompts":   map[string]any{},
			},
		}), false

	case "ping":
		return s.result(req, map[string]any{}), false

	case "shutdown":
		log.Info("shutdown requested")
		return s.result(req, map[string]any{}), true

	case "tools/list":
		return s.result(req, map[string]any{"tools": s.svc.Tools().List()}), false

	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := unmarshalParams(req.Params, &params); err != nil {
			return s.fail(req, err), false
		}
		log = log.WithField("tool", params.Name)

		res, err := s.svc.Tools().ExecuteScoped(ctx, states, params.Name, params.Arguments)
		if err != nil {
			log.WithError(err).Warn("tool call failed")
			return s.fail(req, err), false
		}
		log.Debug("tool call ok")
		return s.result(req, res), false

	case "resources/list":
		return s.result(req, map[string]any{
			"resources": orEmpty(s.svc.Resources().ListStatic()),
		}), false

	case "resources/templates/list":
		return s.result(req, map[string]any{
			"resourceTemplates": orEmpty(s.svc.Resources().ListTemplates()),
		}), false

	case "resources/read":
		var params struct {
			URI string `json:"uri"`
		}
		if err := unmarshalParams(req.Params, &params); err != nil {
			return s.fail(req, err), false
		}
		content, err := s.svc.Resources().Read(ctx, params.URI)
		if err != nil {
			log.WithError(err).WithField("uri", params.URI).Warn("resource read failed")
			return s.fail(req, err), false
		}
		return s.result(req, map[string]any{
			"contents": []*beam.ResourceContent{content},
		}), false

	case "prompts/list":
		return s.result(req, map[string]any{"prompts": s.svc.Prompts().List()}), false

	case "prompts/get":
		var params struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments"`
		}
		if err := unmarshalParams(req.Params, &params); err != nil {
			return s.fail(req, err), false
		}
		msgs, err := s.svc.Prompts().Get(ctx, params.Name, params.Arguments)
		if err != nil {
			log.WithError(err).WithField("prompt", params.Name).Warn("prompt get failed")
			return s.fail(req, err), false
		}
		return s.result(req, map[string]any{"messages": msgs}), false

	default:
		log.Warn("method not found")
		return &Response{ID: req.ID, Error: &ErrorObject{
			Code:    codeMethodNotFound,
			Message: "method not found: " + req.Method,
		}}, false
	}
}

func (s *Server) result(req *Request, result any) *Response {
	return &Response{ID: req.ID, Result: result}
}

func (s *Server) fail(req *Request, err error) *Response {
	return &Response{ID: req.ID, Error: errorObject(err)}
}

func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return &ErrorObject{Code: codeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ErrorObject{Code: codeInvalidParams, Message: "invalid params"}
	}
	return nil
}

// orEmpty keeps listings as [] instead of null on the wire.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
