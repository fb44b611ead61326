package app

import (
	"context"
	"encoding/json"
	"time"

	"gocause/domain/attribution"
	causaldomain "gocause/domain/causal"
	"gocause/domain/core"
	attribanalyzer "gocause/internal/attribution"
	"gocause/internal/causal"
	"gocause/internal/logging"
	"gocause/ports"
)

// AnalysisService wraps the attribution and root-cause analyzers behind the
// AnalysisPort contract, assigns run IDs and records run summaries. The
// analyzers hold configuration only, so the service is safe for concurrent
// callers.
type AnalysisService struct {
	attribution *attribanalyzer.Analyzer
	rootCause   *causal.RootCauseAnalyzer
	runs        ports.RunRepository
	logger      *logging.Logger
}

// NewAnalysisService creates the service. The run repository may be nil, in
// which case run history is not recorded.
func NewAnalysisService(
	attributionAnalyzer *attribanalyzer.Analyzer,
	rootCauseAnalyzer *causal.RootCauseAnalyzer,
	runs ports.RunRepository,
	logger *logging.Logger,
) *AnalysisService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &AnalysisService{
		attribution: attributionAnalyzer,
		rootCause:   rootCauseAnalyzer,
		runs:        runs,
		logger:      logger,
	}
}

// Attribution runs a single attribution analysis.
func (s *AnalysisService) Attribution(ctx context.Context, req attribution.Request) (core.RunID, *attribution.Result, error) {
	result, err := s.attribution.Analyze(ctx, req)
	if err != nil {
		return "", nil, err
	}
	runID := core.RunID(core.NewID())
	s.record(ctx, ports.RunRecord{
		ID:         runID,
		Kind:       "attribution",
		Target:     result.Target,
		Method:     string(result.Method),
		Confidence: string(result.Confidence),
	}, result)
	return runID, result, nil
}

// RootCause runs a single root-cause analysis. The graph built during the
// call is discarded after the result is assembled; callers needing the graph
// use the analyzer directly.
func (s *AnalysisService) RootCause(ctx context.Context, req causaldomain.Request) (core.RunID, *causaldomain.Result, error) {
	result, _, err := s.rootCause.Analyze(ctx, req)
	if err != nil {
		return "", nil, err
	}
	runID := core.RunID(core.NewID())
	s.record(ctx, ports.RunRecord{
		ID:               runID,
		Kind:             "root_cause",
		Target:           result.Target,
		Method:           string(result.Method),
		Confidence:       string(result.Confidence),
		ExplanationPower: result.ExplanationPower,
	}, result)
	return runID, result, nil
}

// record persists a run summary. Persistence failures are logged and
// swallowed; history is advisory and never fails an analysis.
func (s *AnalysisService) record(ctx context.Context, rec ports.RunRecord, payload interface{}) {
	if s.runs == nil {
		return
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("encoding run %s for history: %v", rec.ID, err)
		return
	}
	rec.Result = encoded
	rec.CreatedAt = time.Now().UTC()
	if err := s.runs.Record(ctx, rec); err != nil {
		s.logger.Warn("recording run %s: %v", rec.ID, err)
	}
}
