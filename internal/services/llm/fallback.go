package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/interfaces"
)

// GenerateWithModelFallback tries each model in order, rotating to the
// next one only on quota-exceeded errors after a short pause. Any other
// error aborts the rotation and is returned as-is: model fallback exists
// to survive exhausted free-tier quotas, not to mask real failures.
//
// This rotation is orthogonal to the workflow-level normalize retry; a
// successful call after a model switch does not count as a retry there.
func GenerateWithModelFallback(
	ctx context.Context,
	provider interfaces.ContentProvider,
	models []string,
	request *interfaces.ContentRequest,
	switchDelay time.Duration,
	logger arbor.ILogger,
) (*interfaces.ContentResponse, error) {
	if len(models) == 0 {
		return provider.GenerateContent(ctx, request)
	}

	var lastErr error
	for i, model := range models {
		req := *request
		req.Model = model

		resp, err := provider.GenerateContent(ctx, &req)
		if err == nil {
			return resp, nil
		}
		if !IsQuotaError(err) {
			return nil, err
		}

		lastErr = err
		if i == len(models)-1 {
			break
		}

		logger.Warn().
			Str("model", model).
			Str("next_model", models[i+1]).
			Err(err).
			Msg("Model quota exhausted, rotating to next fallback")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(switchDelay):
		}
	}

	return nil, fmt.Errorf("all models quota-exhausted: %w", lastErr)
}
