package ports

import (
	"context"
	"time"

	"gocause/domain/core"
)

// RunRecord is a persisted summary of one completed analysis call. The engine
// itself holds no state between calls; run history is an outer-surface
// concern recorded after the result is produced.
type RunRecord struct {
	ID               core.RunID `db:"id" json:"id"`
	Kind             string     `db:"kind" json:"kind"` // "attribution" or "root_cause"
	Target           string     `db:"target" json:"target"`
	Method           string     `db:"method" json:"method"`
	Confidence       string     `db:"confidence" json:"confidence"`
	ExplanationPower float64    `db:"explanation_power" json:"explanation_power"`
	Result           []byte     `db:"result" json:"result"` // JSON-encoded result payload
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// RunRepository stores and lists completed analysis runs.
type RunRepository interface {
	Record(ctx context.Context, rec RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
}
