package agentreact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/policy/retry"
	"github.com/Gurpartap/reactagent/policy/timeout"
)

// Runner executes the text-protocol ReAct cycle:
// prompt -> completion -> decision -> tool -> observation -> prompt -> ...
//
// A Runner keeps no per-run state, so one Runner may serve concurrent runs.
type Runner struct {
	cfg   Config
	model agent.ModelClient
}

func New(cfg Config) (*Runner, error) {
	normalized, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg: normalized,
		model: retry.WrapModel(normalized.Model, retry.Config{
			MaxAttempts:    normalized.ModelAttempts,
			AttemptTimeout: normalized.PerCallTimeout,
			Backoff:        normalized.ModelBackoff,
		}),
	}, nil
}

// Run answers goal with a fresh runner built from cfg.
func Run(ctx context.Context, goal string, cfg Config) (string, error) {
	runner, err := New(cfg)
	if err != nil {
		return "", err
	}
	run, err := runner.Run(ctx, goal)
	if err != nil {
		return "", err
	}
	return run.Answer, nil
}

// Run drives one goal to a final answer or a *agent.RunError. The returned
// Run is a snapshot that the caller owns.
func (r *Runner) Run(ctx context.Context, goal string) (agent.Run, error) {
	if ctx == nil {
		return agent.Run{}, agent.ErrContextNil
	}
	runID, err := r.cfg.IDs.NewRunID(ctx)
	if err != nil {
		return agent.Run{}, fmt.Errorf("new run id: %w", err)
	}

	run := agent.Run{ID: runID, Goal: goal}
	if err := agent.TransitionRunStatus(&run, agent.RunStatusRunning); err != nil {
		return run, err
	}
	r.publish(ctx, agent.Event{RunID: run.ID, Type: agent.EventTypeRunStarted, Description: goal})
	r.checkpoint(ctx, &run)

	tools := r.cfg.Tools.Describe()
	for run.Iterations < r.cfg.MaxIterations {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.fail(ctx, run, agent.FailureReasonCancelled, ctxErr)
		}
		run.Iterations++

		promptText := r.cfg.Prompt.Build(goal, tools, run.Transcript)
		completion, err := r.model.Complete(ctx, promptText, r.cfg.StopSequences)
		if err != nil {
			reason, cause := classifyModelFailure(ctx, err)
			return r.fail(ctx, run, reason, cause)
		}
		r.publish(ctx, agent.Event{
			RunID:      run.ID,
			Iteration:  run.Iterations,
			Type:       agent.EventTypeModelCompletion,
			Completion: completion,
		})

		decision, parseErr := r.cfg.Parser.Parse(completion)
		if parseErr == nil && decision == nil {
			parseErr = fmt.Errorf("%w: parser returned no decision", agent.ErrMalformedCompletion)
		}
		if parseErr != nil {
			r.observe(ctx, &run, agent.Step{
				Thought:     strings.TrimSpace(completion),
				Observation: malformedObservation(parseErr),
				Synthetic:   true,
			})
			continue
		}

		switch d := decision.(type) {
		case agent.Finish:
			return r.succeed(ctx, run, d)
		case agent.Act:
			r.observe(ctx, &run, r.act(ctx, d))
		default:
			r.observe(ctx, &run, agent.Step{
				Thought:     strings.TrimSpace(completion),
				Observation: malformedObservation(fmt.Errorf("%w: unsupported decision %T", agent.ErrMalformedCompletion, decision)),
				Synthetic:   true,
			})
		}
	}

	return r.fail(ctx, run, agent.FailureReasonIterationLimit,
		fmt.Errorf("%w: no final answer within %d iteration(s)", agent.ErrIterationLimitExceeded, r.cfg.MaxIterations))
}

// act resolves and invokes one tool. Tool calls are shielded from caller
// cancellation so they always finish or fail on their own timeout.
func (r *Runner) act(ctx context.Context, act agent.Act) agent.Step {
	step := agent.Step{
		Thought: act.Thought,
		Action:  &agent.Action{Tool: act.Tool, Input: act.Input},
	}

	tool, err := r.cfg.Tools.Resolve(act.Tool)
	if err != nil {
		step.Observation = unknownToolObservation(act.Tool, r.cfg.Tools.Names())
		step.Synthetic = true
		return step
	}

	output, err := timeout.Call(context.WithoutCancel(ctx), r.cfg.PerCallTimeout, func(callCtx context.Context) (string, error) {
		return tool.Invoker.Invoke(callCtx, act.Input)
	})
	if err != nil {
		step.Observation = toolErrorObservation(err)
		return step
	}
	step.Observation = output
	return step
}

func (r *Runner) observe(ctx context.Context, run *agent.Run, step agent.Step) {
	run.Transcript = append(run.Transcript, step)
	stepCopy := agent.CloneStep(step)
	r.publish(ctx, agent.Event{
		RunID:     run.ID,
		Iteration: run.Iterations,
		Type:      agent.EventTypeObservation,
		Step:      &stepCopy,
	})
	r.checkpoint(ctx, run)
}

func (r *Runner) succeed(ctx context.Context, run agent.Run, finish agent.Finish) (agent.Run, error) {
	if err := agent.TransitionRunStatus(&run, agent.RunStatusSucceeded); err != nil {
		return run, err
	}
	step := agent.Step{Thought: finish.Thought, FinalAnswer: finish.Answer}
	run.Transcript = append(run.Transcript, step)
	run.Answer = finish.Answer

	stepCopy := agent.CloneStep(step)
	r.publish(ctx, agent.Event{
		RunID:       run.ID,
		Iteration:   run.Iterations,
		Type:        agent.EventTypeRunSucceeded,
		Step:        &stepCopy,
		Description: "model returned a final answer",
	})
	r.checkpoint(ctx, &run)
	return agent.CloneRun(run), nil
}

func (r *Runner) fail(ctx context.Context, run agent.Run, reason agent.FailureReason, cause error) (agent.Run, error) {
	if err := agent.TransitionRunStatus(&run, agent.RunStatusFailed); err != nil {
		return run, errors.Join(cause, err)
	}
	run.Failure = reason
	run.Error = cause.Error()

	r.publish(ctx, agent.Event{
		RunID:       run.ID,
		Iteration:   run.Iterations,
		Type:        agent.EventTypeRunFailed,
		Description: fmt.Sprintf("%s: %v", reason, cause),
	})
	r.checkpoint(ctx, &run)
	return agent.CloneRun(run), &agent.RunError{
		RunID:      run.ID,
		Reason:     reason,
		Iterations: run.Iterations,
		Err:        cause,
	}
}

// publish and checkpoint ignore sink and store failures: observability never
// changes the outcome of a run.
func (r *Runner) publish(ctx context.Context, event agent.Event) {
	_ = r.cfg.Events.Publish(context.WithoutCancel(ctx), event)
}

func (r *Runner) checkpoint(ctx context.Context, run *agent.Run) {
	if r.cfg.Store == nil {
		return
	}
	if err := r.cfg.Store.Save(context.WithoutCancel(ctx), agent.CloneRun(*run)); err == nil {
		run.Version++
	}
}

func classifyModelFailure(ctx context.Context, err error) (agent.FailureReason, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return agent.FailureReasonCancelled, ctxErr
	}
	switch {
	case errors.Is(err, context.Canceled):
		return agent.FailureReasonCancelled, err
	case errors.Is(err, agent.ErrTimeout):
		return agent.FailureReasonTimeout, err
	case errors.Is(err, agent.ErrModelUnavailable):
		return agent.FailureReasonModelUnavailable, err
	default:
		return agent.FailureReasonModelUnavailable, fmt.Errorf("%w: %w", agent.ErrModelUnavailable, err)
	}
}

func malformedObservation(err error) string {
	return fmt.Sprintf(
		"Invalid Format: %v. Respond with %q and %q, or with %q.",
		err,
		agent.MarkerAction,
		agent.MarkerActionInput,
		agent.MarkerFinalAnswer,
	)
}

func unknownToolObservation(name string, available []string) string {
	return fmt.Sprintf("%s is not a valid tool, try one of [%s].", name, strings.Join(available, ", "))
}

func toolErrorObservation(err error) string {
	return "Tool execution error: " + err.Error()
}
