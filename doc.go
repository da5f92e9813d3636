// Package arrg provides the core value types for an agentic research
// report generator: a multi-phase pipeline in which specialized workers
// plan, research, analyze, write, and review a report on a topic.
//
// The root package defines the provider-neutral conversation model
// (Message, Response, Tool, ToolCall, ToolResult), functional options
// for generation requests, categorized errors, and JSON Schema
// generation for tool parameters.
//
// # Basic Usage
//
// Generate a report end to end:
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterAll(registry, tool.SearchTools())
//	tool.MustRegisterAll(registry, tool.FetchTools())
//
//	orch := orchestrator.New(client, registry)
//	result, err := orch.GenerateReport(ctx, "impact of rising sea levels on ports")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report.FullText)
//
// # Packages
//
//   - [github.com/robertcrowe/arrg/a2a]: task, message, and artifact protocol types
//   - [github.com/robertcrowe/arrg/workspace]: shared key-value workspace
//   - [github.com/robertcrowe/arrg/tool]: tool registry and built-in tools
//   - [github.com/robertcrowe/arrg/agent]: bounded tool-invocation loop
//   - [github.com/robertcrowe/arrg/worker]: the five phase workers
//   - [github.com/robertcrowe/arrg/orchestrator]: pipeline driver and audit log
//   - [github.com/robertcrowe/arrg/event]: pipeline progress events
//   - [github.com/robertcrowe/arrg/provider]: Anthropic, OpenAI, and Google adapters
//   - [github.com/robertcrowe/arrg/retry]: automatic retry for transient provider errors
//   - [github.com/robertcrowe/arrg/mcp]: serve a tool registry over MCP
package arrg
