// Package command builds the reactagent command-line application.
package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Gurpartap/reactagent/internal/config"
	"github.com/Gurpartap/reactagent/internal/mcpserve"
	"github.com/Gurpartap/reactagent/internal/runtimewire"
)

type Deps struct {
	Version    string
	LoadConfig func(path string) (config.Config, error)
	NewLogger  func(out io.Writer, level slog.Level, format config.LogFormat) *slog.Logger
	NewRuntime func(config.Config, runtimewire.Options) (*runtimewire.Runtime, error)
	ServeMCP   func(*server.MCPServer) error
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func BuildApp(deps Deps) *cli.App {
	deps = deps.withDefaults()

	return &cli.App{
		Name:      "reactagent",
		Usage:     "answer questions with a tool-using ReAct reasoning loop",
		Version:   deps.Version,
		Writer:    deps.Stdout,
		ErrWriter: deps.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a .yaml, .yml or .toml config file"},
			&cli.IntFlag{Name: "max-iterations", Usage: "upper bound on model calls per run"},
			&cli.DurationFlag{Name: "timeout", Usage: "per model call and per tool call timeout"},
			&cli.StringFlag{Name: "model-mode", Usage: "model backend: mock, openai or ollama"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored transcript output"},
		},
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "run one goal and print the final answer",
				ArgsUsage: "<goal>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print the reasoning transcript"},
				},
				Action: func(c *cli.Context) error {
					return runAsk(c, deps)
				},
			},
			{
				Name:      "batch",
				Usage:     "run one goal per line concurrently",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "concurrency", Usage: "maximum runs in flight"},
				},
				Action: func(c *cli.Context) error {
					return runBatch(c, deps)
				},
			},
			{
				Name:  "tools",
				Usage: "list the registered tools",
				Action: func(c *cli.Context) error {
					return runTools(c, deps)
				},
			},
			{
				Name:  "mcp",
				Usage: "serve the tools and an ask tool over MCP stdio",
				Action: func(c *cli.Context) error {
					return runMCP(c, deps)
				},
			},
		},
	}
}

func (d Deps) withDefaults() Deps {
	if d.Version == "" {
		d.Version = "dev"
	}
	if d.LoadConfig == nil {
		d.LoadConfig = config.LoadLayers
	}
	if d.NewLogger == nil {
		d.NewLogger = func(out io.Writer, level slog.Level, _ config.LogFormat) *slog.Logger {
			return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
		}
	}
	if d.NewRuntime == nil {
		d.NewRuntime = runtimewire.New
	}
	if d.ServeMCP == nil {
		d.ServeMCP = mcpserve.Serve
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	return d
}

// resolveConfig layers command-line flags over the file and environment
// layers and validates the result once.
func resolveConfig(c *cli.Context, deps Deps) (config.Config, error) {
	cfg, err := deps.LoadConfig(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("max-iterations") {
		cfg.MaxIterations = c.Int("max-iterations")
	}
	if c.IsSet("timeout") {
		cfg.PerCallTimeout = c.Duration("timeout")
	}
	if c.IsSet("model-mode") {
		cfg.ModelMode = config.ModelMode(strings.ToLower(strings.TrimSpace(c.String("model-mode"))))
	}
	if c.IsSet("log-level") {
		level, err := config.ParseLogLevel(c.String("log-level"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = level
	}
	if c.IsSet("log-format") {
		format, err := config.ParseLogFormat(c.String("log-format"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.LogFormat = format
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newRuntime(c *cli.Context, deps Deps) (*runtimewire.Runtime, *slog.Logger, error) {
	cfg, err := resolveConfig(c, deps)
	if err != nil {
		return nil, nil, err
	}
	logger := deps.NewLogger(deps.Stderr, cfg.LogLevel, cfg.LogFormat)
	runtime, err := deps.NewRuntime(cfg, runtimewire.Options{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return runtime, logger, nil
}

func runAsk(c *cli.Context, deps Deps) error {
	goal := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if goal == "" {
		return errors.New("ask: goal is required")
	}
	runtime, logger, err := newRuntime(c, deps)
	if err != nil {
		return err
	}

	run, runErr := runtime.Runner.Run(c.Context, goal)
	if c.Bool("verbose") {
		writeTranscript(deps.Stdout, run, c.Bool("no-color"))
	}
	if runErr != nil {
		logger.Error("run failed",
			slog.String("run_id", string(run.ID)),
			slog.String("reason", string(run.Failure)),
			slog.Int("iterations", run.Iterations),
			slog.Any("error", runErr),
		)
		return runErr
	}
	logger.Info("run succeeded", slog.String("run_id", string(run.ID)), slog.Int("iterations", run.Iterations))
	fmt.Fprintln(deps.Stdout, run.Answer)
	return nil
}

type batchResult struct {
	goal   string
	answer string
	err    error
}

func runBatch(c *cli.Context, deps Deps) error {
	goals, err := readGoals(c.Args().First(), deps.Stdin)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		return errors.New("batch: no goals to run")
	}
	runtime, logger, err := newRuntime(c, deps)
	if err != nil {
		return err
	}

	results := make([]batchResult, len(goals))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(runtime.Config.Concurrency)
	for i, goal := range goals {
		g.Go(func() error {
			run, runErr := runtime.Runner.Run(ctx, goal)
			if runErr != nil {
				logger.Warn("batch goal failed", slog.Int("index", i), slog.String("run_id", string(run.ID)), slog.Any("error", runErr))
			}
			mu.Lock()
			results[i] = batchResult{goal: goal, answer: run.Answer, err: runErr}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.err != nil {
			failed++
			fmt.Fprintf(deps.Stdout, "%s => error: %v\n", result.goal, result.err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s => %s\n", result.goal, result.answer)
	}
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d goal(s) failed", failed, len(results))
	}
	return nil
}

// readGoals reads one goal per line. Blank lines and lines starting with #
// are skipped. An empty path or "-" reads stdin.
func readGoals(path string, stdin io.Reader) ([]string, error) {
	reader := stdin
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		defer file.Close()
		reader = file
	}

	var goals []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		goals = append(goals, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batch: read goals: %w", err)
	}
	return goals, nil
}

func runTools(c *cli.Context, deps Deps) error {
	runtime, _, err := newRuntime(c, deps)
	if err != nil {
		return err
	}
	for _, tool := range runtime.Tools.Describe() {
		fmt.Fprintf(deps.Stdout, "%s: %s\n", tool.Name, tool.Description)
	}
	return nil
}

func runMCP(c *cli.Context, deps Deps) error {
	runtime, logger, err := newRuntime(c, deps)
	if err != nil {
		return err
	}
	s, err := mcpserve.New(mcpserve.Config{
		Name:           "reactagent",
		Version:        deps.Version,
		Tools:          runtime.Tools,
		Runner:         runtime.Runner,
		PerCallTimeout: runtime.Config.PerCallTimeout,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	logger.Info("serving mcp over stdio", slog.Int("tools", runtime.Tools.Len()+1))
	return deps.ServeMCP(s)
}
