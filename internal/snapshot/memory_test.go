package snapshot

import (
	"sync"
	"testing"

	"github.com/modelarena/challenger-stream/internal/models"
)

func TestMemoryStore_ReadMissingKey(t *testing.T) {
	store := NewMemoryStore()

	if snap, ok := store.Read("evaluations/e1"); ok || snap != nil {
		t.Errorf("Read on empty store = (%v, %v), want (nil, false)", snap, ok)
	}
}

func TestMemoryStore_WriteThenRead(t *testing.T) {
	store := NewMemoryStore()

	store.Write("evaluations/e1", func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
		if prev != nil {
			t.Errorf("first updater saw prev = %+v, want nil", prev)
		}
		return &models.EvaluationSnapshot{EvalID: "e1", Status: models.EvalStatusRunning}
	})

	snap, ok := store.Read("evaluations/e1")
	if !ok || snap.EvalID != "e1" {
		t.Fatalf("Read = (%+v, %v)", snap, ok)
	}
}

func TestMemoryStore_NoOpUpdaterKeepsIdentity(t *testing.T) {
	store := NewMemoryStore()
	seed := &models.EvaluationSnapshot{EvalID: "e1"}
	store.Write("evaluations/e1", func(*models.EvaluationSnapshot) *models.EvaluationSnapshot {
		return seed
	})

	store.Write("evaluations/e1", func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
		return prev
	})

	snap, _ := store.Read("evaluations/e1")
	if snap != seed {
		t.Error("no-op updater must not replace the stored value")
	}
}

func TestMemoryStore_NilUpdaterResultNeverDeletes(t *testing.T) {
	store := NewMemoryStore()
	store.Write("evaluations/e1", func(*models.EvaluationSnapshot) *models.EvaluationSnapshot {
		return &models.EvaluationSnapshot{EvalID: "e1"}
	})

	store.Write("evaluations/e1", func(*models.EvaluationSnapshot) *models.EvaluationSnapshot {
		return nil
	})

	if _, ok := store.Read("evaluations/e1"); !ok {
		t.Error("an updater returning nil must not delete the entry")
	}
}

func TestMemoryStore_ConcurrentWritersCompose(t *testing.T) {
	store := NewMemoryStore()
	store.Write("evaluations/e1", func(*models.EvaluationSnapshot) *models.EvaluationSnapshot {
		return &models.EvaluationSnapshot{EvalID: "e1"}
	})

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				store.Write("evaluations/e1", func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot {
					next := *prev
					next.Challengers = append(next.Challengers[:len(next.Challengers):len(next.Challengers)],
						models.ChallengerRun{RunID: "r", Status: models.RunStatusQueued})
					return &next
				})
			}
		}()
	}
	wg.Wait()

	snap, _ := store.Read("evaluations/e1")
	if len(snap.Challengers) != writers*perWriter {
		t.Errorf("challengers = %d, want %d (updaters must apply atomically)", len(snap.Challengers), writers*perWriter)
	}
}
