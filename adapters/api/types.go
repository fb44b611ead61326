package api

import (
	"gocause/domain/attribution"
	"gocause/domain/causal"
	"gocause/domain/core"
	"gocause/ports"
)

// AttributionResponse wraps an attribution result with its run ID.
type AttributionResponse struct {
	RunID  core.RunID          `json:"run_id"`
	Result *attribution.Result `json:"result"`
}

// RootCauseResponse wraps a root-cause result with its run ID.
type RootCauseResponse struct {
	RunID  core.RunID     `json:"run_id"`
	Result *causal.Result `json:"result"`
}

// RunsResponse lists recent analysis runs, newest first.
type RunsResponse struct {
	Runs []ports.RunRecord `json:"runs"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
