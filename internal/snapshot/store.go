package snapshot

import (
	"github.com/modelarena/challenger-stream/internal/models"
)

// Updater computes the next snapshot from the previous one. Returning the
// input pointer unchanged means "no change"; the store must not treat it as a
// write. Updaters never mutate prev: a change is a freshly built value, so
// readers holding the old pointer keep a stable view and change detection by
// identity works.
type Updater func(prev *models.EvaluationSnapshot) *models.EvaluationSnapshot

// Store is the keyed, reactive cache the host application supplies. Writes are
// optimistic and local only: applying an updater must never trigger a refetch,
// since the streaming session is the sole source of truth for in-flight state.
// Implementations apply updaters atomically with respect to their own readers.
type Store interface {
	Read(key string) (*models.EvaluationSnapshot, bool)
	Write(key string, update Updater)
}
