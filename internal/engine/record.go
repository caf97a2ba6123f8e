package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MoveRecord is the transaction log entry for one board-changing move.
//
// Hash, BatchID and Submitted are filled in later by whoever ships records
// to a ledger. The engine never reads them.
type MoveRecord struct {
	ID          string
	Board       Board // board right after the move, before any spawn
	Score       int   // cumulative score after the move
	Direction   Direction
	CreatedAt   time.Time
	ScoreGained int

	Hash      string
	BatchID   string
	Submitted bool
}

// Clock returns the current time.
type Clock func() time.Time

// IDFunc produces a record identifier for a move made at t.
type IDFunc func(t time.Time) string

// DefaultID builds "<unix-millis>-<random suffix>". Collisions are
// practically impossible but not ruled out.
func DefaultID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d-%s", t.UnixMilli(), suffix)
}
