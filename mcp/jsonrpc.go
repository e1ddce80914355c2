// Package mcp serves a beam.Service over a JSON-RPC 2.0 protocol (NDJSON
// framing) on stdio or a TCP socket: tool listing and invocation, resource
// reads routed by URI pattern, and prompt rendering.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Request is an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an outgoing JSON-RPC response; exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the JSON-RPC error envelope.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ErrorObject) Error() string {
	return fmt.Sprintf("mcp: rpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC 2.0 error codes, plus server codes for the policy error
// classes (-32000 and down).
const (
	codeParseError       = -32700
	codeInvalidRequest   = -32600
	codeMethodNotFound   = -32601
	codeInvalidParams    = -32602
	codeInternalError    = -32603
	codeUnknownTool      = -32000
	codeUnknownResource  = -32001
	codeRateLimited      = -32002
	codeTimeout          = -32003
	codeRetriesExhausted = -32004
)

// readRequest reads one newline-delimited JSON-RPC request.
func readRequest(r *bufio.Reader) (*Request, error) {
	line, err := r.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		return nil, err
	}
	var req Request
	if uerr := json.Unmarshal(line, &req); uerr != nil {
		return nil, &ErrorObject{Code: codeParseError, Message: "parse error"}
	}
	return &req, nil
}

// writeResponse writes one newline-delimited JSON-RPC response.
func writeResponse(w io.Writer, resp *Response) error {
	resp.JSONRPC = "2.0"
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
