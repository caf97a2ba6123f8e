// Package storage provides SQLite-based persistence for scores and the
// move ledger. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/ledger"
)

// timeLayout keeps move timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	MaxTile   int
	Moves     int
	CreatedAt time.Time
}

// GameResult is the outcome of one finished game.
type GameResult struct {
	GameID  string
	Score   int
	MaxTile int
	Moves   int
}

// ModeStats summarises the scores of one mode, or of all modes.
type ModeStats struct {
	Games     int
	BestScore int
	BestTile  int
	Moves     int
}

// MoveEntry is a ledger row: a submitted move record and the game it belongs to.
type MoveEntry struct {
	engine.MoveRecord
	GameID string
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS moves (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			batch_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			board TEXT NOT NULL,
			score INTEGER NOT NULL,
			score_gained INTEGER NOT NULL,
			hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_moves_batch_id ON moves(batch_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before the result columns existed
	for _, col := range []string{"max_tile", "moves"} {
		if err := s.addColumn("scores", col, "INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

// addColumn adds a column unless the table already has it.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &primaryKey); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records the result of a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(r GameResult) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, max_tile, moves) VALUES (?, ?, ?, ?)",
		r.GameID, r.Score, r.MaxTile, r.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// UpdateScore overwrites a saved result, for a game that was played on
// after its score was saved.
func (s *Store) UpdateScore(id int64, r GameResult) error {
	res, err := s.db.Exec(
		"UPDATE scores SET score = ?, max_tile = ?, moves = ? WHERE id = ? AND game_id = ?",
		r.Score, r.MaxTile, r.Moves, id, r.GameID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update score %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: score %d of %s not found", id, r.GameID)
	}
	return nil
}

// TopScores retrieves the top N scores for the given game, or for all
// games when gameID is empty. Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, max_tile, moves, created_at
		 FROM scores
		 WHERE ? = '' OR game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats summarises the saved results of a game, or of all games when
// gameID is empty.
func (s *Store) Stats(gameID string) (ModeStats, error) {
	var st ModeStats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(max_tile), 0), COALESCE(SUM(moves), 0)
		 FROM scores
		 WHERE ? = '' OR game_id = ?`,
		gameID, gameID,
	).Scan(&st.Games, &st.BestScore, &st.BestTile, &st.Moves)
	if err != nil {
		return ModeStats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	return st, nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SubmitBatch implements ledger.Submitter.
// All records of the batch are written in one transaction; a failure
// leaves none of them stored.
func (s *Store) SubmitBatch(ctx context.Context, batch ledger.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin batch %s: %w", batch.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO moves
		 (id, game_id, batch_id, direction, board, score, score_gained, hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range batch.Records {
		board, err := json.Marshal(rec.Board)
		if err != nil {
			return fmt.Errorf("storage: cannot encode board of move %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID,
			batch.GameID,
			batch.ID,
			rec.Direction.String(),
			string(board),
			rec.Score,
			rec.ScoreGained,
			rec.Hash,
			rec.CreatedAt.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("storage: cannot save move %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit batch %s: %w", batch.ID, err)
	}
	return nil
}

// Ensure Store implements ledger.Submitter
var _ ledger.Submitter = (*Store)(nil)

// RecentMoves returns the newest ledger entries, optionally filtered by game.
func (s *Store) RecentMoves(gameID string, limit int) ([]MoveEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, batch_id, direction, board, score, score_gained, hash, created_at
		 FROM moves
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	return scanMoves(rows)
}

// MovesByBatch returns the entries of one submitted batch in creation order.
func (s *Store) MovesByBatch(batchID string) ([]MoveEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, batch_id, direction, board, score, score_gained, hash, created_at
		 FROM moves
		 WHERE batch_id = ?
		 ORDER BY created_at ASC, id ASC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query batch: %w", err)
	}
	return scanMoves(rows)
}

// MoveCount returns the number of stored moves for a game.
func (s *Store) MoveCount(gameID string) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM moves WHERE game_id = ?", gameID).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count moves: %w", err)
	}
	return n, nil
}

func scanMoves(rows *sql.Rows) ([]MoveEntry, error) {
	defer rows.Close()

	var entries []MoveEntry
	for rows.Next() {
		var e MoveEntry
		var direction, board, createdAt string
		if err := rows.Scan(
			&e.ID,
			&e.GameID,
			&e.BatchID,
			&direction,
			&board,
			&e.Score,
			&e.ScoreGained,
			&e.Hash,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan move row: %w", err)
		}

		dir, err := engine.ParseDirection(direction)
		if err != nil {
			return nil, fmt.Errorf("storage: move %s: %w", e.ID, err)
		}
		e.Direction = dir

		if err := json.Unmarshal([]byte(board), &e.Board); err != nil {
			return nil, fmt.Errorf("storage: move %s: cannot decode board: %w", e.ID, err)
		}
		if err := e.Board.Validate(); err != nil {
			return nil, fmt.Errorf("storage: move %s: %w", e.ID, err)
		}

		e.CreatedAt = parseTime(createdAt)
		e.Submitted = true
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// parseTime handles both time.Time and the text layouts SQLite hands back.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// ErrNoMoves is returned by LastBatch when the ledger is empty.
var ErrNoMoves = errors.New("storage: no moves recorded")

// LastBatch returns the ID of the most recently written batch.
func (s *Store) LastBatch(gameID string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT batch_id FROM moves
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		gameID, gameID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMoves
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot query last batch: %w", err)
	}
	return id, nil
}
