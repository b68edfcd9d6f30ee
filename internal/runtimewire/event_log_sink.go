package runtimewire

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/internal/config"
)

type runtimeEventLogSink struct {
	logger    *slog.Logger
	logFormat config.LogFormat
}

func newRuntimeEventLogSink(logger *slog.Logger, logFormat config.LogFormat) agent.EventSink {
	if logger == nil {
		return nil
	}
	if logFormat == "" {
		logFormat = config.LogFormatText
	}
	return runtimeEventLogSink{
		logger:    logger,
		logFormat: logFormat,
	}
}

func (s runtimeEventLogSink) Publish(ctx context.Context, event agent.Event) error {
	if ctx == nil {
		return agent.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	attrs := []any{
		slog.String("run_id", string(event.RunID)),
		slog.String("type", string(event.Type)),
		slog.Int("iteration", event.Iteration),
	}
	if s.logFormat == config.LogFormatJSON {
		s.logger.Debug("run event", append(attrs, slog.Any("event", event))...)
		return nil
	}

	eventPayload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return marshalErr
	}

	s.logger.Debug("run event", append(attrs, slog.String("event", string(eventPayload)))...)
	return nil
}
