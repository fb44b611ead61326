package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocause/adapters/memory"
	"gocause/domain/attribution"
	causaldomain "gocause/domain/causal"
	attribanalyzer "gocause/internal/attribution"
	"gocause/internal/causal"
)

func serviceFixture(t *testing.T) (*AnalysisService, *memory.RunRepositoryImpl) {
	t.Helper()
	runs := memory.NewRunRepository()
	attributionAnalyzer := attribanalyzer.NewAnalyzer()
	rootCauseAnalyzer := causal.NewRootCauseAnalyzer(
		causal.WithAttributionAnalyzer(attributionAnalyzer),
	)
	return NewAnalysisService(attributionAnalyzer, rootCauseAnalyzer, runs, nil), runs
}

func attributionRequest() attribution.Request {
	advertising := []float64{10, 20, 15, 25, 30, 18, 22, 28, 35, 26, 24, 32}
	target := make([]float64, len(advertising))
	for i := range target {
		target[i] = 2*advertising[i] + 50
	}
	return attribution.Request{
		Target:       "sales",
		TargetValues: target,
		Factors:      map[string][]float64{"advertising": advertising},
	}
}

func TestAnalysisService_AttributionRecordsRun(t *testing.T) {
	service, runs := serviceFixture(t)

	runID, result, err := service.Attribution(context.Background(), attributionRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, runID)

	records, err := runs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, runID, rec.ID)
	assert.Equal(t, "attribution", rec.Kind)
	assert.Equal(t, "sales", rec.Target)
	assert.Equal(t, string(attribution.MethodLinear), rec.Method)
	assert.False(t, rec.CreatedAt.IsZero())

	// The full result payload round-trips from the stored record.
	var stored attribution.Result
	require.NoError(t, json.Unmarshal(rec.Result, &stored))
	assert.Equal(t, result.Target, stored.Target)
	assert.Equal(t, result.TotalExplained, stored.TotalExplained)
}

func TestAnalysisService_RootCauseRecordsRun(t *testing.T) {
	service, runs := serviceFixture(t)

	req := causaldomain.Request{
		Target:       "sales",
		TargetValues: attributionRequest().TargetValues,
		Factors:      attributionRequest().Factors,
	}
	runID, result, err := service.RootCause(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, runID)

	records, err := runs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "root_cause", records[0].Kind)
	assert.Equal(t, result.ExplanationPower, records[0].ExplanationPower)
}

func TestAnalysisService_DistinctRunIDs(t *testing.T) {
	service, _ := serviceFixture(t)

	first, _, err := service.Attribution(context.Background(), attributionRequest())
	require.NoError(t, err)
	second, _, err := service.Attribution(context.Background(), attributionRequest())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAnalysisService_NilRepositoryIsOptional(t *testing.T) {
	attributionAnalyzer := attribanalyzer.NewAnalyzer()
	rootCauseAnalyzer := causal.NewRootCauseAnalyzer()
	service := NewAnalysisService(attributionAnalyzer, rootCauseAnalyzer, nil, nil)

	_, result, err := service.Attribution(context.Background(), attributionRequest())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAnalysisService_ErrorsDoNotRecord(t *testing.T) {
	service, runs := serviceFixture(t)

	_, _, err := service.Attribution(context.Background(), attribution.Request{})
	require.Error(t, err)

	records, err := runs.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
