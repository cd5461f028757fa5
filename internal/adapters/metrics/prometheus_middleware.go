package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/commands"
)

// PrometheusMiddleware creates a mediator middleware that records request metrics
//
// Request names are the bare request type names, e.g. "CalculateChainQuery".
// Successful imports, extractions and clears also count as catalog writes.
func PrometheusMiddleware(collector *RequestMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)

		name := common.RequestName(request)
		collector.RecordRequest(name, time.Since(start).Seconds(), err)
		if err == nil {
			recordCatalogWrite(collector, name, request, response)
		}

		return response, err
	}
}

func recordCatalogWrite(collector *RequestMetricsCollector, name string, request common.Request, response common.Response) {
	switch cmd := request.(type) {
	case *commands.ImportCatalogCommand:
		written := 0
		if resp, ok := response.(*commands.ImportCatalogResponse); ok {
			written = resp.Facilities
		}
		collector.RecordCatalogWrite(name, cmd.Clear, written)
	case *commands.ExtractCatalogCommand:
		written := 0
		if resp, ok := response.(*commands.ExtractCatalogResponse); ok {
			written = resp.Stats.Buildings
		}
		collector.RecordCatalogWrite(name, cmd.Clear, written)
	case *commands.ClearCatalogCommand:
		collector.RecordCatalogWrite(name, true, 0)
	}
}
