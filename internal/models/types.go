package models

import (
	"time"
)

type EvalStatus string

const (
	EvalStatusRunning EvalStatus = "running"
	EvalStatusReady   EvalStatus = "ready"
)

type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// ParseRunStatus maps a wire value onto the closed run-status set.
func ParseRunStatus(s string) (RunStatus, bool) {
	switch RunStatus(s) {
	case RunStatusQueued, RunStatusRunning, RunStatusSucceeded, RunStatusFailed:
		return RunStatus(s), true
	}
	return "", false
}

// ChallengerRun is one candidate model's run within an evaluation.
type ChallengerRun struct {
	RunID                 string    `json:"run_id"`
	RequestedLogicalModel string    `json:"requested_logical_model"`
	Status                RunStatus `json:"status"`
	OutputPreview         string    `json:"output_preview,omitempty"`
	LatencyMS             *int64    `json:"latency_ms,omitempty"`
	ErrorCode             string    `json:"error_code,omitempty"`
}

// Explanation is the comparison summary plus its supporting evidence.
// Events that carry it replace the whole value, never merge into it.
type Explanation struct {
	Summary  string            `json:"summary,omitempty"`
	Evidence map[string]string `json:"evidence,omitempty"`
}

// EvaluationSnapshot is the shared state of one challenger comparison.
type EvaluationSnapshot struct {
	EvalID        string          `json:"eval_id"`
	Status        EvalStatus      `json:"status"`
	BaselineRunID string          `json:"baseline_run_id"`
	Challengers   []ChallengerRun `json:"challengers"`
	Explanation   *Explanation    `json:"explanation,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RunPatch carries a run_id plus any subset of ChallengerRun fields.
// nil means "absent from the event" and must leave the stored value untouched.
type RunPatch struct {
	RunID                 string
	RequestedLogicalModel *string
	Status                *RunStatus
	Delta                 *string
	FullText              *string
	LatencyMS             *int64
	ErrorCode             *string
}

// ComparisonRequest is the inbound trigger for a challenger comparison.
type ComparisonRequest struct {
	ProjectID      string `json:"project_id"`
	AssistantID    string `json:"assistant_id"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	BaselineRunID  string `json:"baseline_run_id"`
}
