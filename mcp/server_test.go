package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamkit/beam"
	"github.com/beamkit/beam/policy"
)

type echoInput struct {
	Text string `json:"text" jsonschema:"description=Text to echo back"`
}

func newTestService(t *testing.T) *beam.Service {
	t.Helper()
	svc := beam.New("beam-test", "0.1.0")

	err := beam.RegisterFunc(svc.Tools(), "echo", "Echoes its input",
		func(ctx context.Context, in echoInput) (*beam.ToolResult, error) {
			return beam.TextResult(in.Text), nil
		},
		beam.WithConstraint(policy.NonEmpty("text")),
	)
	require.NoError(t, err)

	err = beam.RegisterFunc(svc.Tools(), "slow", "Sleeps past its deadline",
		func(ctx context.Context, in echoInput) (*beam.ToolResult, error) {
			time.Sleep(200 * time.Millisecond)
			return beam.TextResult("done"), nil
		},
		beam.WithTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)

	err = beam.RegisterFunc(svc.Tools(), "scarce", "Allows one call per hour",
		func(ctx context.Context, in echoInput) (*beam.ToolResult, error) {
			return beam.TextResult("ok"), nil
		},
		beam.WithThrottle(1, time.Hour),
	)
	require.NoError(t, err)

	err = svc.Resources().Register("api://docs", "docs", "API documentation", "text/plain",
		func(ctx context.Context, uri string, params map[string]string) (*beam.ResourceContent, error) {
			return &beam.ResourceContent{Text: "the docs"}, nil
		})
	require.NoError(t, err)

	err = svc.Resources().Register("readme://{projectType}", "readme", "Project readme", "text/markdown",
		func(ctx context.Context, uri string, params map[string]string) (*beam.ResourceContent, error) {
			return &beam.ResourceContent{Text: "# readme for " + params["projectType"]}, nil
		})
	require.NoError(t, err)

	err = svc.Prompts().Register("greet", "Greets someone",
		[]beam.PromptArgument{{Name: "name", Required: true}},
		func(ctx context.Context, args map[string]string) ([]beam.PromptMessage, error) {
			return []beam.PromptMessage{{Role: "user", Text: "Hello, " + args["name"]}}, nil
		})
	require.NoError(t, err)

	return svc
}

// roundTrip serves the given request lines and returns the decoded responses.
func roundTrip(t *testing.T, svc *beam.Service, lines ...string) []Response {
	t.Helper()
	srv := NewServer(svc)
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, srv.Serve(context.Background(), in, &out))

	var resps []Response
	dec := json.NewDecoder(&out)
	for dec.More() {
		var resp Response
		require.NoError(t, dec.Decode(&resp))
		resps = append(resps, resp)
	}
	return resps
}

func call(id int, method string, params any) string {
	req := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		req["params"] = params
	}
	data, _ := json.Marshal(req)
	return string(data)
}

func TestServerInitialize(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "initialize", nil))
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result := resps[0].Result.(map[string]any)
	assert.Equal(t, protocolVersion, result["protocolVersion"])
	info := result["serverInfo"].(map[string]any)
	assert.Equal(t, "beam-test", info["name"])
	assert.Equal(t, "0.1.0", info["version"])
}

func TestServerPing(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "ping", nil))
	require.Len(t, resps, 1)
	assert.Nil(t, resps[0].Error)
}

func TestServerToolsList(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "tools/list", nil))
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	tools := resps[0].Result.(map[string]any)["tools"].([]any)
	require.Len(t, tools, 3)
	first := tools[0].(map[string]any)
	assert.Equal(t, "echo", first["name"])
	assert.NotEmpty(t, first["inputSchema"])
}

func TestServerToolsCall(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "tools/call", map[string]any{
		"name":      "echo",
		"arguments": map[string]any{"text": "hi"},
	}))
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result := resps[0].Result.(map[string]any)
	content := result["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "hi", content[0].(map[string]any)["text"])
}

func TestServerToolsCallUnknownTool(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "tools/call", map[string]any{
		"name": "nope",
	}))
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeUnknownTool, resps[0].Error.Code)
}

func TestServerToolsCallValidationError(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "tools/call", map[string]any{
		"name":      "echo",
		"arguments": map[string]any{"text": ""},
	}))
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeInvalidParams, resps[0].Error.Code)

	data := resps[0].Error.Data.(map[string]any)
	assert.Equal(t, "text", data["field"])
}

func TestServerToolsCallTimeout(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "tools/call", map[string]any{
		"name":      "slow",
		"arguments": map[string]any{},
	}))
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeTimeout, resps[0].Error.Code)
}

func TestServerToolsCallRateLimited(t *testing.T) {
	params := map[string]any{"name": "scarce", "arguments": map[string]any{}}
	resps := roundTrip(t, newTestService(t),
		call(1, "tools/call", params),
		call(2, "tools/call", params),
	)
	require.Len(t, resps, 2)
	assert.Nil(t, resps[0].Error)
	require.NotNil(t, resps[1].Error)
	assert.Equal(t, codeRateLimited, resps[1].Error.Code)
}

func TestServerResourcesListPartition(t *testing.T) {
	resps := roundTrip(t, newTestService(t),
		call(1, "resources/list", nil),
		call(2, "resources/templates/list", nil),
	)
	require.Len(t, resps, 2)

	static := resps[0].Result.(map[string]any)["resources"].([]any)
	require.Len(t, static, 1)
	assert.Equal(t, "api://docs", static[0].(map[string]any)["uri"])

	templates := resps[1].Result.(map[string]any)["resourceTemplates"].([]any)
	require.Len(t, templates, 1)
	assert.Equal(t, "readme://{projectType}", templates[0].(map[string]any)["uriTemplate"])
}

func TestServerResourcesRead(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "resources/read", map[string]any{
		"uri": "readme://api",
	}))
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	contents := resps[0].Result.(map[string]any)["contents"].([]any)
	require.Len(t, contents, 1)
	entry := contents[0].(map[string]any)
	assert.Equal(t, "readme://api", entry["uri"])
	assert.Equal(t, "text/markdown", entry["mimeType"])
	assert.Equal(t, "# readme for api", entry["text"])
}

func TestServerResourcesReadUnknown(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "resources/read", map[string]any{
		"uri": "docs://api",
	}))
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeUnknownResource, resps[0].Error.Code)
}

func TestServerPrompts(t *testing.T) {
	resps := roundTrip(t, newTestService(t),
		call(1, "prompts/list", nil),
		call(2, "prompts/get", map[string]any{
			"name":      "greet",
			"arguments": map[string]string{"name": "Ada"},
		}),
		call(3, "prompts/get", map[string]any{"name": "greet"}),
	)
	require.Len(t, resps, 3)

	prompts := resps[0].Result.(map[string]any)["prompts"].([]any)
	require.Len(t, prompts, 1)
	assert.Equal(t, "greet", prompts[0].(map[string]any)["name"])

	msgs := resps[1].Result.(map[string]any)["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello, Ada", msgs[0].(map[string]any)["text"])

	// Missing required argument fails before the handler runs.
	require.NotNil(t, resps[2].Error)
}

func TestServerMethodNotFound(t *testing.T) {
	resps := roundTrip(t, newTestService(t), call(1, "bogus/method", nil))
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeMethodNotFound, resps[0].Error.Code)
}

func TestServerParseError(t *testing.T) {
	srv := NewServer(newTestService(t))
	in := strings.NewReader("{not json\n" + call(1, "ping", nil) + "\n")
	var out bytes.Buffer
	require.NoError(t, srv.Serve(context.Background(), in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NotNil(t, first.Error)
	assert.Equal(t, codeParseError, first.Error.Code)

	// The loop keeps serving after a parse error.
	var second Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Nil(t, second.Error)
}

func TestServerInvalidParams(t *testing.T) {
	resps := roundTrip(t, newTestService(t),
		call(1, "tools/call", nil),
		call(2, "resources/read", "not an object"),
	)
	require.Len(t, resps, 2)
	for _, resp := range resps {
		require.NotNil(t, resp.Error)
		assert.Equal(t, codeInvalidParams, resp.Error.Code)
	}
}

func TestServerShutdownStopsLoop(t *testing.T) {
	resps := roundTrip(t, newTestService(t),
		call(1, "shutdown", nil),
		call(2, "ping", nil),
	)
	// Everything after shutdown goes unanswered.
	require.Len(t, resps, 1)
	assert.Nil(t, resps[0].Error)
}

func TestServerSessionScopesIsolated(t *testing.T) {
	svc := beam.New("scoped", "0.0.1")
	var calls int
	err := beam.RegisterFunc(svc.Tools(), "count", "Counts invocations",
		func(ctx context.Context, in echoInput) (*beam.ToolResult, error) {
			calls++
			return beam.TextResult(fmt.Sprintf("%d", calls)), nil
		},
		beam.WithCache(time.Minute),
	)
	require.NoError(t, err)

	srv := NewServer(svc)
	line := call(1, "tools/call", map[string]any{"name": "count", "arguments": map[string]any{}})

	serve := func(states *policy.Registry) string {
		var out bytes.Buffer
		in := strings.NewReader(line + "\n" + line + "\n")
		require.NoError(t, srv.ServeSession(context.Background(), states, in, &out))
		return out.String()
	}

	a := serve(policy.NewRegistry())
	b := serve(policy.NewRegistry())

	// Within a session the second call is a cache hit; across sessions the
	// cache does not carry over.
	assert.Equal(t, 2, calls)
	assert.NotEqual(t, a, b)
}
