package merge

import (
	"strings"

	"github.com/modelarena/challenger-stream/internal/models"
)

// PreviewLimit caps the stored output preview length in characters.
const PreviewLimit = 380

// Challengers folds one run patch into a challenger list and returns the next
// list. The input is never mutated: an applied patch produces a fresh slice and
// a fresh record, so readers relying on reference identity for change detection
// stay correct. A no-op patch returns the input slice unchanged.
//
// An absent run is appended only when the patch carries both the requested
// logical model and a status; update-only patches against an absent run are
// dropped rather than creating a partial record.
func Challengers(current []models.ChallengerRun, patch models.RunPatch) []models.ChallengerRun {
	if patch.RunID == "" {
		return current
	}

	idx := -1
	for i := range current {
		if current[i].RunID == patch.RunID {
			idx = i
			break
		}
	}

	if idx < 0 {
		if patch.RequestedLogicalModel == nil || patch.Status == nil {
			return current
		}
		next := make([]models.ChallengerRun, len(current), len(current)+1)
		copy(next, current)
		return append(next, newRun(patch))
	}

	next := make([]models.ChallengerRun, len(current))
	copy(next, current)
	next[idx] = apply(current[idx], patch)
	return next
}

// apply overwrites exactly the fields present in the patch; absent fields carry
// over from the previous record.
func apply(prev models.ChallengerRun, patch models.RunPatch) models.ChallengerRun {
	run := prev

	if patch.RequestedLogicalModel != nil {
		run.RequestedLogicalModel = *patch.RequestedLogicalModel
	}
	if patch.Status != nil {
		run.Status = *patch.Status
	}
	if patch.Delta != nil {
		// Deltas grow the existing preview; the patch has no preview of its own.
		run.OutputPreview = ClampPreview(prev.OutputPreview + *patch.Delta)
	}
	if patch.FullText != nil {
		run.OutputPreview = ClampPreview(*patch.FullText)
	}
	if patch.LatencyMS != nil {
		latency := *patch.LatencyMS
		run.LatencyMS = &latency
	}
	if patch.ErrorCode != nil {
		run.ErrorCode = *patch.ErrorCode
	}

	return run
}

func newRun(patch models.RunPatch) models.ChallengerRun {
	run := models.ChallengerRun{
		RunID:                 patch.RunID,
		RequestedLogicalModel: *patch.RequestedLogicalModel,
		Status:                *patch.Status,
	}

	if patch.Delta != nil {
		run.OutputPreview = ClampPreview(*patch.Delta)
	}
	if patch.FullText != nil {
		run.OutputPreview = ClampPreview(*patch.FullText)
	}
	if patch.LatencyMS != nil {
		latency := *patch.LatencyMS
		run.LatencyMS = &latency
	}
	if patch.ErrorCode != nil {
		run.ErrorCode = *patch.ErrorCode
	}

	return run
}

// ClampPreview truncates to PreviewLimit characters, then trims trailing
// whitespace, in that order.
func ClampPreview(s string) string {
	runes := []rune(s)
	if len(runes) > PreviewLimit {
		s = string(runes[:PreviewLimit])
	}
	return strings.TrimRight(s, " \t\r\n")
}
