package snapshot

import (
	"time"

	"github.com/modelarena/challenger-stream/internal/events"
	"github.com/modelarena/challenger-stream/internal/merge"
	"github.com/modelarena/challenger-stream/internal/models"
)

// UpdaterFor translates a canonical event into the pure update function handed
// to the store. Events that cannot apply (completion or run updates against an
// evaluation the stream never created) yield a no-op updater.
func UpdaterFor(ev events.Event) Updater {
	switch ev.Kind {
	case events.KindEvalCreated:
		return seedCreated(ev)
	case events.KindEvalCompleted:
		return applyCompleted(ev)
	case events.KindRunDelta, events.KindRunCompleted, events.KindRunError:
		return applyRunPatch(ev)
	}
	return func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot { return prev }
}

// seedCreated materializes the snapshot synthetically, without a network read.
// A repeated created event for a live snapshot merges its fields instead:
// baseline_run_id is set once at creation and never mutated afterward.
func seedCreated(ev events.Event) Updater {
	return func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
		if prev == nil {
			status := models.EvalStatus(ev.Status)
			if status == "" {
				status = models.EvalStatusRunning
			}
			snap := &models.EvaluationSnapshot{
				EvalID:        ev.EvalID,
				Status:        status,
				BaselineRunID: ev.BaselineRunID,
				Explanation:   ev.Explanation,
				CreatedAt:     time.Now().UTC(),
			}
			for _, run := range ev.Challengers {
				run.OutputPreview = merge.ClampPreview(run.OutputPreview)
				snap.Challengers = append(snap.Challengers, run)
			}
			return snap
		}

		next := *prev
		if ev.Status != "" {
			next.Status = models.EvalStatus(ev.Status)
		}
		if ev.Explanation != nil {
			next.Explanation = ev.Explanation
		}
		for _, run := range ev.Challengers {
			model := run.RequestedLogicalModel
			status := run.Status
			patch := models.RunPatch{
				RunID:                 run.RunID,
				RequestedLogicalModel: &model,
				Status:                &status,
			}
			if run.OutputPreview != "" {
				preview := run.OutputPreview
				patch.FullText = &preview
			}
			next.Challengers = merge.Challengers(next.Challengers, patch)
		}
		return &next
	}
}

// applyCompleted only ever touches an existing snapshot; a completion event
// arriving before any created event is a no-op, never a materialization.
func applyCompleted(ev events.Event) Updater {
	return func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
		if prev == nil {
			return prev
		}
		if ev.Status == "" || models.EvalStatus(ev.Status) == prev.Status {
			return prev
		}

		next := *prev
		next.Status = models.EvalStatus(ev.Status)
		return &next
	}
}

func applyRunPatch(ev events.Event) Updater {
	return func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
		if prev == nil {
			return prev
		}

		patch := ev.Patch
		if ev.Kind == events.KindRunCompleted {
			// A completion never reopens a run a prior run.error finalized.
			for _, run := range prev.Challengers {
				if run.RunID == patch.RunID && run.Status == models.RunStatusFailed {
					patch.Status = nil
					break
				}
			}
		}

		challengers := merge.Challengers(prev.Challengers, patch)
		if len(challengers) == len(prev.Challengers) {
			same := true
			for i := range challengers {
				if !equalRuns(challengers[i], prev.Challengers[i]) {
					same = false
					break
				}
			}
			if same {
				return prev
			}
		}

		next := *prev
		next.Challengers = challengers
		return &next
	}
}

func equalRuns(a, b models.ChallengerRun) bool {
	if a.RunID != b.RunID || a.RequestedLogicalModel != b.RequestedLogicalModel ||
		a.Status != b.Status || a.OutputPreview != b.OutputPreview || a.ErrorCode != b.ErrorCode {
		return false
	}
	if (a.LatencyMS == nil) != (b.LatencyMS == nil) {
		return false
	}
	return a.LatencyMS == nil || *a.LatencyMS == *b.LatencyMS
}
