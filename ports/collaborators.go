package ports

import (
	"context"

	"gocause/domain/causal"
)

// The engine's outward collaborators. These subsystems live outside this
// module; only their contracts are defined here so adapters can be plugged in
// without touching the engine.

// Exporter renders an analysis result to a serialized document (CSV, Excel,
// PDF). Implementations live in the export subsystem.
type Exporter interface {
	Export(ctx context.Context, result *causal.Result, format string) ([]byte, error)
}

// InsightGenerator produces natural-language narratives for a result.
// Implementations live in the insight/suggestion subsystem.
type InsightGenerator interface {
	Narrate(ctx context.Context, result *causal.Result) (string, error)
}

// TaskRunner schedules an analysis for asynchronous execution and reports
// completion out of band. Implementations live in the task subsystem.
type TaskRunner interface {
	Submit(ctx context.Context, req causal.Request) (taskID string, err error)
}
