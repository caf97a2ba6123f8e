package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// canonicalRecord is the hashed form of a move record. Field order is fixed
// by the struct, so equal records always hash the same.
type canonicalRecord struct {
	ID          string       `json:"id"`
	Board       engine.Board `json:"board"`
	Score       int          `json:"score"`
	Direction   string       `json:"direction"`
	CreatedAt   string       `json:"created_at"`
	ScoreGained int          `json:"score_gained"`
}

// Hash returns the hex SHA-256 digest of the record's move fields.
// Hash, BatchID and Submitted do not take part.
func Hash(rec engine.MoveRecord) string {
	data, err := json.Marshal(canonicalRecord{
		ID:          rec.ID,
		Board:       rec.Board,
		Score:       rec.Score,
		Direction:   rec.Direction.String(),
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		ScoreGained: rec.ScoreGained,
	})
	if err != nil {
		// Plain ints and strings always encode.
		panic("ledger: cannot encode record: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether rec.Hash matches the record's contents.
func Verify(rec engine.MoveRecord) bool {
	return rec.Hash != "" && rec.Hash == Hash(rec)
}
