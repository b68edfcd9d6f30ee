// Package mcpserve exposes the registered tools and the reasoning loop itself
// as MCP tools over stdio.
package mcpserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/policy/timeout"
)

const AskToolName = "ask"

// Catalog is the read side of a tool registry.
type Catalog interface {
	Names() []string
	Resolve(name string) (agent.Tool, error)
}

type Runner interface {
	Run(ctx context.Context, goal string) (agent.Run, error)
}

type Config struct {
	Name           string
	Version        string
	Tools          Catalog
	Runner         Runner
	PerCallTimeout time.Duration
	Logger         *slog.Logger
}

func New(cfg Config) (*server.MCPServer, error) {
	tools, err := Tools(cfg)
	if err != nil {
		return nil, err
	}
	s := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	s.AddTools(tools...)
	return s, nil
}

// Serve blocks until stdin closes. stdout carries the protocol.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// Tools returns one MCP tool per registered tool plus the ask tool, which
// runs a full reasoning loop for a goal.
func Tools(cfg Config) ([]server.ServerTool, error) {
	if cfg.Tools == nil {
		return nil, errors.New("new mcp server: tool catalog is required")
	}
	if cfg.Runner == nil {
		return nil, errors.New("new mcp server: runner is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	out := make([]server.ServerTool, 0, len(cfg.Tools.Names())+1)
	out = append(out, server.ServerTool{
		Tool: mcp.NewTool(AskToolName,
			mcp.WithDescription("Answer a question by reasoning step by step with the available tools"),
			mcp.WithString("goal", mcp.Required(), mcp.Description("Natural-language question or goal")),
		),
		Handler: askHandler(cfg.Runner, logger),
	})

	for _, name := range cfg.Tools.Names() {
		if name == AskToolName {
			return nil, fmt.Errorf("new mcp server: %w: %q is reserved", agent.ErrDuplicateTool, name)
		}
		tool, err := cfg.Tools.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("new mcp server: %w", err)
		}
		out = append(out, server.ServerTool{
			Tool: mcp.NewTool(tool.Name,
				mcp.WithDescription(tool.Description),
				mcp.WithString("input", mcp.Description("Text input passed to the tool")),
			),
			Handler: toolHandler(tool, cfg.PerCallTimeout),
		})
	}
	return out, nil
}

func askHandler(runner Runner, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		goal, _ := args["goal"].(string)
		if strings.TrimSpace(goal) == "" {
			return mcp.NewToolResultError("goal is required"), nil
		}

		run, err := runner.Run(ctx, goal)
		if err != nil {
			logger.Warn("mcp ask failed", slog.String("run_id", string(run.ID)), slog.Any("error", err))
			return mcp.NewToolResultError(err.Error()), nil
		}
		logger.Info("mcp ask succeeded", slog.String("run_id", string(run.ID)), slog.Int("iterations", run.Iterations))
		return mcp.NewToolResultText(run.Answer), nil
	}
}

func toolHandler(tool agent.Tool, perCall time.Duration) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		input, _ := args["input"].(string)

		output, err := timeout.Call(ctx, perCall, func(callCtx context.Context) (string, error) {
			return tool.Invoker.Invoke(callCtx, input)
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(output), nil
	}
}
