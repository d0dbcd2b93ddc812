package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"signal-scanner/models"
)

// DB persists signals in PostgreSQL.
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New opens a connection, verifies it and creates the schema.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &DB{db}, nil
}

var _ models.SignalStore = (*DB)(nil)

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			id TEXT PRIMARY KEY,
			instrument TEXT NOT NULL,
			strategy TEXT NOT NULL,
			direction TEXT NOT NULL,
			entry_type TEXT NOT NULL,
			entry_price DOUBLE PRECISION NOT NULL,
			stop_loss DOUBLE PRECISION NOT NULL,
			take_profit DOUBLE PRECISION NOT NULL,
			risk_reward_ratio DOUBLE PRECISION NOT NULL,
			confidence INTEGER NOT NULL,
			confirmations TEXT[],
			reasoning TEXT[],
			context_timeframe TEXT,
			entry_timeframe TEXT,
			refine_timeframe TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Cooldown lookups scan by instrument and recency.
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS signals_instrument_created_at_idx
		ON signals (instrument, created_at)
	`)
	return err
}

// SaveSignal inserts one signal. An unset status defaults to active.
func (db *DB) SaveSignal(ctx context.Context, signal *models.Signal) error {
	status := signal.Status
	if status == "" {
		status = models.StatusActive
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO signals (
			id, instrument, strategy, direction, entry_type,
			entry_price, stop_loss, take_profit, risk_reward_ratio, confidence,
			confirmations, reasoning,
			context_timeframe, entry_timeframe, refine_timeframe,
			status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		signal.ID, signal.Instrument, signal.Strategy, string(signal.Direction), string(signal.EntryType),
		signal.EntryPrice, signal.StopLoss, signal.TakeProfit, signal.RiskRewardRatio, signal.Confidence,
		pq.Array(signal.Confirmations), pq.Array(signal.Reasoning),
		signal.Timeframes.Context, signal.Timeframes.Entry, signal.Timeframes.Refine,
		string(status), signal.CreatedAt, signal.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting signal: %w", err)
	}
	return nil
}

// RecentSignalExists reports whether any active signal for the instrument
// was created at or after since. Used for the per-instrument cooldown;
// watchlist rows never hold an instrument in cooldown.
func (db *DB) RecentSignalExists(ctx context.Context, instrument string, since time.Time) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM signals
			WHERE instrument = $1 AND status = 'active' AND created_at >= $2
		)
	`, instrument, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking recent signals: %w", err)
	}
	return exists, nil
}

// ExpireOld marks active signals past their expiry as expired and returns
// how many rows changed.
func (db *DB) ExpireOld(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE signals SET status = 'expired'
		WHERE status = 'active' AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("expiring signals: %w", err)
	}
	return res.RowsAffected()
}
