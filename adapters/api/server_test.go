package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocause/adapters/memory"
	"gocause/app"
	attribanalyzer "gocause/internal/attribution"
	"gocause/internal/causal"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	attributionAnalyzer := attribanalyzer.NewAnalyzer()
	rootCauseAnalyzer := causal.NewRootCauseAnalyzer(
		causal.WithAttributionAnalyzer(attributionAnalyzer),
	)
	runs := memory.NewRunRepository()
	service := app.NewAnalysisService(attributionAnalyzer, rootCauseAnalyzer, runs, nil)
	server := NewServer(service, runs, nil)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, payload string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const attributionPayload = `{
	"target": "sales",
	"target_values": [96, 125, 109, 138, 151, 118, 129, 144, 164, 137, 133, 155],
	"factors": {
		"advertising": [10, 20, 15, 25, 30, 18, 22, 28, 35, 26, 24, 32],
		"price": [8, 5, 7, 4, 3, 6, 5, 4, 2, 5, 5, 3]
	}
}`

func TestServer_Health(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Attribution(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analysis/attribution", attributionPayload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body AttributionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	require.NotNil(t, body.Result)
	assert.Equal(t, "sales", body.Result.Target)
	assert.NotEmpty(t, body.Result.Factors)
	assert.Equal(t, "advertising", body.Result.Factors[0].Name)
}

func TestServer_RootCause(t *testing.T) {
	ts := testServer(t)

	payload := `{
		"target": "sales",
		"target_values": [96, 125, 109, 138, 151, 118, 129, 144, 164, 137, 133, 155],
		"factors": {
			"advertising": [10, 20, 15, 25, 30, 18, 22, 28, 35, 26, 24, 32],
			"price": [8, 5, 7, 4, 3, 6, 5, 4, 2, 5, 5, 3]
		},
		"known_relationships": [
			{"source": "seasonality", "destination": "advertising", "strength": 0.6}
		]
	}`
	resp := postJSON(t, ts.URL+"/api/v1/analysis/root-cause", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RootCauseResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Result)
	assert.NotEmpty(t, body.Result.RootCauses)
	assert.Equal(t, "seasonality", body.Result.RootCauses[0].Name)
}

func TestServer_ValidationErrorsAreBadRequests(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analysis/attribution", `{"target": "sales"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func TestServer_MalformedJSON(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analysis/attribution", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UnknownFieldRejected(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/analysis/attribution", `{"target": "x", "target_values": [1], "bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UnsupportedMethod(t *testing.T) {
	ts := testServer(t)

	payload := `{
		"target": "sales",
		"target_values": [1, 2, 3, 4],
		"factors": {"f": [1, 2, 3, 4]},
		"method": "bayesian"
	}`
	resp := postJSON(t, ts.URL+"/api/v1/analysis/attribution", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_RunsListedAfterAnalyses(t *testing.T) {
	ts := testServer(t)

	postJSON(t, ts.URL+"/api/v1/analysis/attribution", attributionPayload)
	postJSON(t, ts.URL+"/api/v1/analysis/attribution", attributionPayload)

	resp, err := http.Get(ts.URL + "/api/v1/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RunsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Runs, 2)
}
