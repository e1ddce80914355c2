// Package beam exposes plain Go methods as remotely invokable tools over a
// JSON-RPC-based protocol, with declarative per-method policies: result
// caching, bounded retries, timeouts, fixed-window rate limiting,
// concurrency-limited queueing and input validation.
//
// # Quick Start
//
//	svc := beam.New("demo", "1.0.0")
//	beam.RegisterFunc(svc.Tools(), "lookup", "Look up a record",
//	    func(ctx context.Context, in LookupInput) (*beam.ToolResult, error) {
//	        return beam.TextResult(find(in.Query)), nil
//	    },
//	    beam.WithCache(2*time.Second),
//	    beam.WithRetry(2, 100*time.Millisecond),
//	)
//	srv := mcp.NewServer(svc)
//	srv.ServeStdio(ctx)
//
// Policies can also be declared textually with [WithDirectives]:
//
//	beam.WithDirectives("cache 2s\nthrottle 3/s\nvalidate query required")
//
// # Sub-packages
//
//   - [policy] implements the pipeline that composes policies around a call.
//   - [mcp] serves the protocol (tools, resources, prompts) over stdio or TCP.
//   - [session] keeps per-client policy state with idle-timeout eviction.
//   - [providers/fs] registers filesystem-backed resources from glob patterns.
package beam
