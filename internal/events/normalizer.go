package events

import (
	"github.com/modelarena/challenger-stream/internal/models"
)

type Kind string

const (
	KindEvalCreated   Kind = "eval.created"
	KindEvalCompleted Kind = "eval.completed"
	KindRunDelta      Kind = "run.delta"
	KindRunCompleted  Kind = "run.completed"
	KindRunError      Kind = "run.error"
)

// Event is the canonical form of one stream event.
//
// EvalID may be empty for run-scoped events; the session controller substitutes
// the active stream's evaluation id before the event reaches a store updater.
type Event struct {
	Kind          Kind
	EvalID        string
	Status        string
	BaselineRunID string
	Challengers   []models.ChallengerRun
	Explanation   *models.Explanation
	Patch         models.RunPatch
}

// Normalize classifies a generic payload and returns a typed event, or nil if
// the payload cannot be classified. The kind is read from the payload's own
// type field, falling back to the transport-supplied label when the field is
// absent. Unknown kinds and payloads failing required-field validation are
// dropped, never surfaced as errors.
func Normalize(payload map[string]any, label string) *Event {
	kind := stringField(payload, "type")
	if kind == "" {
		kind = label
	}

	switch Kind(kind) {
	case KindEvalCreated:
		return normalizeEvalCreated(payload)
	case KindEvalCompleted:
		return normalizeEvalCompleted(payload)
	case KindRunDelta:
		return normalizeRunDelta(payload)
	case KindRunCompleted:
		return normalizeRunCompleted(payload)
	case KindRunError:
		return normalizeRunError(payload)
	}

	// Forward compatible: future kinds must not break stream processing.
	return nil
}

func normalizeEvalCreated(payload map[string]any) *Event {
	evalID := stringField(payload, "eval_id")
	if evalID == "" {
		return nil
	}

	ev := &Event{
		Kind:          KindEvalCreated,
		EvalID:        evalID,
		Status:        stringField(payload, "status"),
		BaselineRunID: stringField(payload, "baseline_run_id"),
		Explanation:   explanationField(payload),
	}

	if raw, ok := payload["challengers"].([]any); ok {
		for _, item := range raw {
			if run, ok := normalizeChallenger(item); ok {
				ev.Challengers = append(ev.Challengers, run)
			}
		}
	}

	return ev
}

func normalizeEvalCompleted(payload map[string]any) *Event {
	return &Event{
		Kind:   KindEvalCompleted,
		EvalID: stringField(payload, "eval_id"),
		Status: stringField(payload, "status"),
	}
}

func normalizeRunDelta(payload map[string]any) *Event {
	runID := stringField(payload, "run_id")
	if runID == "" {
		return nil
	}

	delta := stringField(payload, "delta")
	return &Event{
		Kind:   KindRunDelta,
		EvalID: stringField(payload, "eval_id"),
		Patch: models.RunPatch{
			RunID: runID,
			Delta: &delta,
		},
	}
}

func normalizeRunCompleted(payload map[string]any) *Event {
	runID := stringField(payload, "run_id")
	if runID == "" {
		return nil
	}

	succeeded := models.RunStatusSucceeded
	patch := models.RunPatch{
		RunID:  runID,
		Status: &succeeded,
	}
	if latency, ok := numberField(payload, "latency_ms"); ok {
		patch.LatencyMS = &latency
	}
	if full, ok := payload["full_text"].(string); ok {
		patch.FullText = &full
	}

	return &Event{
		Kind:   KindRunCompleted,
		EvalID: stringField(payload, "eval_id"),
		Patch:  patch,
	}
}

func normalizeRunError(payload map[string]any) *Event {
	runID := stringField(payload, "run_id")
	if runID == "" {
		return nil
	}

	failed := models.RunStatusFailed
	patch := models.RunPatch{
		RunID:  runID,
		Status: &failed,
	}
	if code := stringField(payload, "error_code"); code != "" {
		patch.ErrorCode = &code
	}

	return &Event{
		Kind:   KindRunError,
		EvalID: stringField(payload, "eval_id"),
		Patch:  patch,
	}
}

// normalizeChallenger validates one element of an eval.created challenger list.
// Elements missing run_id, requested_logical_model, or a status outside the
// closed set are filtered out, not substituted with defaults.
func normalizeChallenger(item any) (models.ChallengerRun, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.ChallengerRun{}, false
	}

	runID := stringField(obj, "run_id")
	model := stringField(obj, "requested_logical_model")
	status, statusOK := models.ParseRunStatus(stringField(obj, "status"))
	if runID == "" || model == "" || !statusOK {
		return models.ChallengerRun{}, false
	}

	return models.ChallengerRun{
		RunID:                 runID,
		RequestedLogicalModel: model,
		Status:                status,
		OutputPreview:         stringField(obj, "output_preview"),
	}, true
}

func explanationField(payload map[string]any) *models.Explanation {
	obj, ok := payload["explanation"].(map[string]any)
	if !ok {
		return nil
	}

	exp := &models.Explanation{
		Summary: stringField(obj, "summary"),
	}
	if raw, ok := obj["evidence"].(map[string]any); ok {
		evidence := make(map[string]string, len(raw))
		for key, value := range raw {
			if s, ok := value.(string); ok {
				evidence[key] = s
			}
		}
		if len(evidence) > 0 {
			exp.Evidence = evidence
		}
	}

	return exp
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// numberField accepts only values of numeric type; strings are never coerced.
func numberField(payload map[string]any, key string) (int64, bool) {
	f, ok := payload[key].(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
