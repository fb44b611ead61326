package ports

import (
	"context"

	"gocause/domain/attribution"
	"gocause/domain/causal"
	"gocause/domain/core"
)

// AnalysisPort is the engine's call contract as consumed by the API layer.
// Implementations are stateless between calls; concurrent callers get
// independent results and graphs.
type AnalysisPort interface {
	Attribution(ctx context.Context, req attribution.Request) (core.RunID, *attribution.Result, error)
	RootCause(ctx context.Context, req causal.Request) (core.RunID, *causal.Result, error)
}
