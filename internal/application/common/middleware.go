package common

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/oni-calculator/pkg/utils"
)

// LoggingMiddleware tags each request with a fresh id, installs the logger in
// the context and logs completion.
func LoggingMiddleware(logger Logger) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		name := RequestName(request)
		requestID := utils.GenerateRequestID(name)
		ctx = WithRequestID(ctx, requestID)
		if logger != nil {
			ctx = WithLogger(ctx, logger)
		}

		started := time.Now()
		response, err := next(ctx, request)

		metadata := map[string]interface{}{
			"request_id":  requestID,
			"duration_ms": time.Since(started).Milliseconds(),
		}
		if err != nil {
			LoggerFromContext(ctx).Log("ERROR", fmt.Sprintf("[Mediator] %s failed: %v", name, err), metadata)
		} else {
			LoggerFromContext(ctx).Log("DEBUG", fmt.Sprintf("[Mediator] %s completed", name), metadata)
		}

		return response, err
	}
}
