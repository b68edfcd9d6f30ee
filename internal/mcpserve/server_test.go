package mcpserve

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Gurpartap/reactagent/adapters/modeltest"
	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/agentreact"
	toolingregistry "github.com/Gurpartap/reactagent/tooling/registry"
	"github.com/Gurpartap/reactagent/toolset"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func findTool(t *testing.T, tools []server.ServerTool, name string) server.ServerTool {
	t.Helper()
	for _, tool := range tools {
		if tool.Tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %q not exposed", name)
	return server.ServerTool{}
}

func newConfig(t *testing.T, model agent.ModelClient) Config {
	t.Helper()
	registry := toolingregistry.MustNew(toolset.Demo()...)
	runner, err := agentreact.New(agentreact.Config{Model: model, Tools: registry})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return Config{Name: "reactagent", Version: "test", Tools: registry, Runner: runner, PerCallTimeout: time.Second}
}

func TestTools_ExposesAskAndRegistryTools(t *testing.T) {
	t.Parallel()

	tools, err := Tools(newConfig(t, modeltest.Completions()))
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}
	if tools[0].Tool.Name != AskToolName {
		t.Fatalf("expected ask first, got %q", tools[0].Tool.Name)
	}
	funding := findTool(t, tools, toolset.GetFundingRatesName)
	if !strings.Contains(funding.Tool.Description, "funding rates") {
		t.Fatalf("unexpected description %q", funding.Tool.Description)
	}
}

func TestAskHandler_ReturnsFinalAnswer(t *testing.T) {
	t.Parallel()

	model := modeltest.Completions(
		modeltest.ActCompletion("I need rates", toolset.GetFundingRatesName, ""),
		modeltest.FinishCompletion("ARB-USDT pays the most"),
	)
	tools, err := Tools(newConfig(t, model))
	if err != nil {
		t.Fatalf("tools: %v", err)
	}

	result, err := findTool(t, tools, AskToolName).Handler(context.Background(), callRequest(AskToolName, map[string]interface{}{"goal": "Which pair pays the most?"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "ARB-USDT pays the most" {
		t.Fatalf("unexpected answer %q", got)
	}
}

func TestAskHandler_ReportsRunFailure(t *testing.T) {
	t.Parallel()

	model := modeltest.NewScriptedModel(modeltest.Response{Err: errors.New("connection refused")})
	cfg := newConfig(t, model)
	tools, err := Tools(cfg)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}

	result, err := findTool(t, tools, AskToolName).Handler(context.Background(), callRequest(AskToolName, map[string]interface{}{"goal": "anything"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error result")
	}
	if !strings.Contains(resultText(t, result), "model unavailable") {
		t.Fatalf("unexpected error text %q", resultText(t, result))
	}
}

func TestAskHandler_RequiresGoal(t *testing.T) {
	t.Parallel()

	tools, err := Tools(newConfig(t, modeltest.Completions()))
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	result, err := findTool(t, tools, AskToolName).Handler(context.Background(), callRequest(AskToolName, nil))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error result for missing goal")
	}
}

func TestToolHandler_InvokesRegisteredTool(t *testing.T) {
	t.Parallel()

	tools, err := Tools(newConfig(t, modeltest.Completions()))
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	result, err := findTool(t, tools, toolset.EchoName).Handler(context.Background(), callRequest(toolset.EchoName, map[string]interface{}{"input": "ping"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := resultText(t, result); got != "ping" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestToolHandler_ReportsToolError(t *testing.T) {
	t.Parallel()

	failing := agent.Tool{
		Name: "Fails",
		Invoker: agent.InvokerFunc(func(context.Context, string) (string, error) {
			return "", agent.NewToolExecutionError("Fails", "upstream down")
		}),
	}
	result, err := toolHandler(failing, time.Second)(context.Background(), callRequest("Fails", nil))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "upstream down") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestTools_RejectsReservedName(t *testing.T) {
	t.Parallel()

	registry := toolingregistry.MustNew(agent.Tool{
		Name:    AskToolName,
		Invoker: agent.InvokerFunc(func(context.Context, string) (string, error) { return "", nil }),
	})
	_, err := Tools(Config{Tools: registry, Runner: stubRunner{}})
	if !errors.Is(err, agent.ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
}

func TestNew_BuildsServer(t *testing.T) {
	t.Parallel()

	s, err := New(newConfig(t, modeltest.Completions()))
	if err != nil || s == nil {
		t.Fatalf("new server: %v", err)
	}
}

type stubRunner struct{}

func (stubRunner) Run(context.Context, string) (agent.Run, error) {
	return agent.Run{}, nil
}
