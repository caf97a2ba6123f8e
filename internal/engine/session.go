package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultHistoryDepth is how many undo snapshots a session keeps.
const DefaultHistoryDepth = 10

// HistoryPolicy controls when undo snapshots are kept and what Undo restores.
type HistoryPolicy int

const (
	// PolicyChangedOnly keeps a snapshot only for moves that change the
	// board, and Undo restores the snapshot it pops.
	PolicyChangedOnly HistoryPolicy = iota
	// PolicyCompat keeps a snapshot for every move, no-ops included, and
	// Undo discards the newest entry and restores the one below it.
	PolicyCompat
)

// String returns the config name of the policy.
func (p HistoryPolicy) String() string {
	switch p {
	case PolicyChangedOnly:
		return "changed_only"
	case PolicyCompat:
		return "compat"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseHistoryPolicy converts a config name to a HistoryPolicy.
func ParseHistoryPolicy(s string) (HistoryPolicy, error) {
	switch s {
	case "", "changed_only":
		return PolicyChangedOnly, nil
	case "compat":
		return PolicyCompat, nil
	default:
		return 0, fmt.Errorf("engine: unknown history policy %q", s)
	}
}

// Snapshot is a stored (board, score) pair.
type Snapshot struct {
	Board Board
	Score int
}

// MoveOutcome is returned by Session.ApplyMove.
// Record is nil when the move did not change the board.
type MoveOutcome struct {
	MoveResult
	Record *MoveRecord
}

// SessionConfig wires a session's collaborators. Zero fields get defaults.
type SessionConfig struct {
	Random       Source
	Clock        Clock
	NewID        IDFunc
	HistoryDepth int
	Policy       HistoryPolicy
}

// Session owns the state of one game: the live board, the score and the
// undo history. It is not safe for concurrent use; run one per game.
type Session struct {
	board   Board
	score   int
	history []Snapshot

	random Source
	clock  Clock
	newID  IDFunc
	depth  int
	policy HistoryPolicy
}

// NewSession creates a session. Call Initialize before the first move.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Random == nil {
		cfg.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = DefaultID
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = DefaultHistoryDepth
	}

	return &Session{
		random: cfg.Random,
		clock:  cfg.Clock,
		newID:  cfg.NewID,
		depth:  cfg.HistoryDepth,
		policy: cfg.Policy,
	}
}

// Initialize starts a new game: an empty board with two spawned tiles,
// score 0, and a history holding only that seed state.
func (s *Session) Initialize() Board {
	s.board = NewEmptyBoard()
	SpawnRandomTile(&s.board, s.random)
	SpawnRandomTile(&s.board, s.random)
	s.score = 0
	s.history = []Snapshot{{Board: s.board, Score: 0}}
	return s.board
}

// Load replaces the session state with the given board and score and
// resets the history to that single entry.
func (s *Session) Load(b Board, score int) {
	s.board = b
	s.score = score
	s.history = []Snapshot{{Board: b, Score: score}}
}

// ApplyMove slides the board in dir and commits the result.
// The returned Record is non-nil only when the board changed.
// Panics if dir is not one of the four directions.
func (s *Session) ApplyMove(dir Direction) MoveOutcome {
	before := Snapshot{Board: s.board, Score: s.score}
	res := Transform(s.board, dir)

	if res.Changed || s.policy == PolicyCompat {
		s.push(before)
	}

	s.board = res.Board
	s.score += res.ScoreGained

	out := MoveOutcome{MoveResult: res}
	if res.Changed {
		now := s.clock()
		out.Record = &MoveRecord{
			ID:          s.newID(now),
			Board:       s.board,
			Score:       s.score,
			Direction:   dir,
			CreatedAt:   now,
			ScoreGained: res.ScoreGained,
		}
	}
	return out
}

// Undo steps back one history entry. It returns false and changes nothing
// when only the seed entry (or nothing) is left.
func (s *Session) Undo() (Snapshot, bool) {
	n := len(s.history)
	if n <= 1 {
		return Snapshot{}, false
	}

	restored := s.history[n-1]
	s.history = s.history[:n-1]
	if s.policy == PolicyCompat {
		restored = s.history[n-2]
	}

	s.board = restored.Board
	s.score = restored.Score
	return restored, true
}

func (s *Session) push(snap Snapshot) {
	s.history = append(s.history, snap)
	if over := len(s.history) - s.depth; over > 0 {
		copy(s.history, s.history[over:])
		s.history = s.history[:s.depth]
	}
}

// Board returns the live board. Callers spawn tiles into it between moves;
// history snapshots are separate copies and are not affected.
func (s *Session) Board() *Board {
	return &s.board
}

// Score returns the cumulative score.
func (s *Session) Score() int {
	return s.score
}

// Random returns the session's random source so callers can spawn tiles
// from the same deterministic stream.
func (s *Session) Random() Source {
	return s.random
}

// Policy returns the session's history policy.
func (s *Session) Policy() HistoryPolicy {
	return s.policy
}

// HistoryLen returns the number of stored snapshots.
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// History returns a copy of the stored snapshots, oldest first.
func (s *Session) History() []Snapshot {
	out := make([]Snapshot, len(s.history))
	copy(out, s.history)
	return out
}
