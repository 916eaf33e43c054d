package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
)

// SQLite persists match history in a single database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets display reads proceed while a game writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			round INTEGER NOT NULL,
			max_round INTEGER NOT NULL,
			overtime INTEGER NOT NULL DEFAULT 0,
			winner_id TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (game_id) REFERENCES games(id)
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			kept TEXT NOT NULL,
			turn_score INTEGER NOT NULL,
			dice_remaining INTEGER NOT NULL,
			hand INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (game_id, player_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game_id, player_id, round)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// AppendRound writes one completed round. Each record gets its own id so a
// player can legitimately appear twice in the same round number under
// overtime re-entry.
func (s *SQLite) AppendRound(ctx context.Context, rec game.RoundRecord) error {
	query := `INSERT INTO rounds (id, game_id, player_id, round, score) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), rec.GameID, rec.PlayerID, rec.Round, rec.Score)
	return err
}

// SaveTurn upserts the acting player's in-progress turn snapshot.
func (s *SQLite) SaveTurn(ctx context.Context, rec game.TurnRecord) error {
	query := `INSERT INTO turns (game_id, player_id, kept, turn_score, dice_remaining, hand)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			kept = excluded.kept,
			turn_score = excluded.turn_score,
			dice_remaining = excluded.dice_remaining,
			hand = excluded.hand,
			updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, query,
		rec.GameID, rec.PlayerID, encodeDice(rec.Kept), rec.TurnScore, rec.DiceRemaining, rec.Hand)
	return err
}

// SaveGame upserts the game-level fields.
func (s *SQLite) SaveGame(ctx context.Context, rec game.GameRecord) error {
	query := `INSERT INTO games (id, mode, round, max_round, overtime, winner_id, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			mode = excluded.mode,
			round = excluded.round,
			max_round = excluded.max_round,
			overtime = excluded.overtime,
			winner_id = excluded.winner_id,
			completed = excluded.completed,
			updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, query,
		rec.GameID, string(rec.Mode), rec.Round, rec.MaxRound,
		boolInt(rec.Overtime), rec.WinnerID, boolInt(rec.Completed))
	return err
}

// Rounds retrieves a game's recorded rounds in insertion order.
func (s *SQLite) Rounds(ctx context.Context, gameID string) ([]game.RoundRecord, error) {
	query := `SELECT game_id, player_id, round, score FROM rounds
		WHERE game_id = ? ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []game.RoundRecord
	for rows.Next() {
		var rec game.RoundRecord
		if err := rows.Scan(&rec.GameID, &rec.PlayerID, &rec.Round, &rec.Score); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Game retrieves the saved game record.
func (s *SQLite) Game(ctx context.Context, gameID string) (game.GameRecord, error) {
	query := `SELECT id, mode, round, max_round, overtime, winner_id, completed
		FROM games WHERE id = ?`

	var rec game.GameRecord
	var mode string
	var overtime, completed int
	err := s.db.QueryRowContext(ctx, query, gameID).Scan(
		&rec.GameID, &mode, &rec.Round, &rec.MaxRound, &overtime, &rec.WinnerID, &completed)
	if err != nil {
		return game.GameRecord{}, err
	}
	rec.Mode = game.Mode(mode)
	rec.Overtime = overtime != 0
	rec.Completed = completed != 0
	return rec, nil
}

func encodeDice(values []int) string {
	var b strings.Builder
	b.Grow(len(values))
	for _, v := range values {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
