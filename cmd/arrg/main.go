// Command arrg generates research reports through a five-phase agent
// pipeline: plan, research, analyze, write, review. Each phase runs as
// an agent task; the QA phase can send the report back for revision.
//
// Usage:
//
//	arrg -topic "impact of sea level rise on coastal cities"
//	arrg -mcp    # serve the research tools over MCP stdio instead
//
// Configuration comes from the environment (a .env file is loaded if
// present): ARRG_PROVIDER selects anthropic, openai, or google, with the
// matching API key variable set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/event"
	"github.com/robertcrowe/arrg/mcp"
	"github.com/robertcrowe/arrg/orchestrator"
	"github.com/robertcrowe/arrg/provider/anthropic"
	"github.com/robertcrowe/arrg/provider/google"
	"github.com/robertcrowe/arrg/provider/openai"
	"github.com/robertcrowe/arrg/retry"
	"github.com/robertcrowe/arrg/tool"
	"github.com/robertcrowe/arrg/workspace"
)

func main() {
	topic := flag.String("topic", "", "research topic to generate a report on")
	out := flag.String("out", "report.md", "path to write the final report")
	auditPath := flag.String("audit", "audit.jsonl", "path to write the audit log (JSON lines)")
	mcpMode := flag.Bool("mcp", false, "serve the research tools over MCP stdio and exit")
	toolsServer := flag.String("tools-server", "", "command for an external MCP tool server to bridge in")
	flag.Parse()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := buildWorkspace(cfg)
	if err != nil {
		log.Fatal(err)
	}

	registry := buildRegistry(ws)

	if *mcpMode {
		if err := mcp.ServeStdio(registry, mcp.WithName("arrg-tools")); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *topic == "" {
		fmt.Fprintln(os.Stderr, "usage: arrg -topic \"...\" [-out report.md] [-audit audit.jsonl]")
		os.Exit(2)
	}

	client, err := buildClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *toolsServer != "" {
		parts := strings.Fields(*toolsServer)
		remote, err := mcp.NewRemoteRegistry(ctx, parts[0], os.Environ(), parts[1:]...)
		if err != nil {
			log.Fatalf("connecting to tool server: %v", err)
		}
		defer remote.Close()
		if err := remote.AddTo(registry); err != nil {
			log.Fatalf("bridging remote tools: %v", err)
		}
	}

	events := event.NewChannel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		printEvents(events)
	}()

	orch := orchestrator.New(client, registry,
		orchestrator.WithWorkspace(ws),
		orchestrator.WithEvents(events),
		orchestrator.WithMaxRounds(cfg.MaxRounds),
		orchestrator.WithRevisionLimit(cfg.RevisionLimit),
	)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	result, runErr := orch.GenerateReport(runCtx, *topic)
	close(events)
	<-done

	if result != nil && result.Audit != nil {
		if err := writeAudit(*auditPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "writing audit log: %v\n", err)
		}
	}
	if runErr != nil {
		log.Fatal(runErr)
	}

	if err := os.WriteFile(*out, []byte(result.Report.FullText), 0o644); err != nil {
		log.Fatalf("writing report: %v", err)
	}

	fmt.Printf("\n%s: %q (score %d/100, %d revisions)\n",
		result.Status, result.Report.Title, result.Verdict.QualityScore, result.Revisions)
	fmt.Printf("report written to %s, audit log to %s\n", *out, *auditPath)
	if !result.Verdict.Approved {
		for _, issue := range result.Verdict.Issues {
			fmt.Printf("  open issue [%s] %s\n", issue.Severity, issue.Description)
		}
	}
}

func buildWorkspace(cfg *Config) (*workspace.Workspace, error) {
	if cfg.WorkspaceDir == "" {
		return workspace.New(workspace.NewMemoryAdapter()), nil
	}
	adapter, err := workspace.NewDirAdapter(cfg.WorkspaceDir)
	if err != nil {
		return nil, fmt.Errorf("opening workspace dir: %w", err)
	}
	return workspace.New(adapter), nil
}

func buildRegistry(ws *workspace.Workspace) *tool.Registry {
	registry := tool.NewRegistry()
	tool.MustRegisterAll(registry, tool.SearchTools())
	tool.MustRegisterAll(registry, tool.FetchTools())
	tool.MustRegisterAll(registry, tool.WorkspaceTools(ws))
	return registry
}

func buildClient(ctx context.Context, cfg *Config) (chat.Client, error) {
	var client chat.Client
	switch cfg.Provider {
	case "anthropic":
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(anthropic.ChatModel(cfg.Model)))
		}
		client = anthropic.New(cfg.AnthropicKey, opts...)
	case "openai":
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(openai.ChatModel(cfg.Model)))
		}
		client = openai.New(cfg.OpenAIKey, opts...)
	case "google":
		var opts []google.ClientOption
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(google.ChatModel(cfg.Model)))
		}
		c, err := google.New(ctx, cfg.GoogleKey, opts...)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts
	return retry.Client(client, retryCfg), nil
}

func printEvents(events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.RunStart:
			fmt.Fprintf(os.Stderr, "== generating report: %s\n", e.Message)
		case event.PhaseStart:
			fmt.Fprintf(os.Stderr, "-- %s\n", e.Phase)
		case event.RevisionStart:
			fmt.Fprintf(os.Stderr, "-- revision %d\n", e.Revision)
		case event.TaskTransition:
			fmt.Fprintf(os.Stderr, "   [%s] %s: %s\n", e.Phase, e.State, e.Note)
		case event.ToolCallStart:
			if e.ToolCall != nil {
				fmt.Fprintf(os.Stderr, "   tool %s(%s)\n", e.ToolCall.Name, truncateArgs(e.ToolCall.Arguments))
			}
		case event.RunError:
			fmt.Fprintf(os.Stderr, "!! %v\n", e.Error)
		case event.RunEnd:
			fmt.Fprintf(os.Stderr, "== done: %s\n", e.Message)
		}
	}
}

func writeAudit(path string, result *orchestrator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return result.Audit.Export(f)
}

func truncateArgs(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
