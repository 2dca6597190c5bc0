package llmclient

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware returns a Middleware that emits one structured log line
// per model round: provider, model, message count, latency, token usage, and
// whether the model requested tool calls.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		fields := []zap.Field{
			zap.String("provider", req.Provider),
			zap.String("model", req.Model),
			zap.Int("messages", len(req.Messages)),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			logger.Warn("model round failed", append(fields, zap.Error(err))...)
			return resp, err
		}
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
			zap.Int("tool_calls", len(resp.ToolCalls())),
			zap.String("finish", resp.FinishReason.Reason),
		)
		logger.Debug("model round", fields...)
		return resp, nil
	}
}
