package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"stockDashboard/internal/finance"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// Store caches fetched price tables keyed by symbol set and range.
type Store struct{ db DB }

func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return db, nil
}

func InitSchema(ctx context.Context, db DB) error {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS price_cache(
		cache_key TEXT PRIMARY KEY,
		symbols TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS price_rows(
		cache_key TEXT NOT NULL,
		row INTEGER NOT NULL,
		day TEXT NOT NULL,
		col INTEGER NOT NULL,
		close REAL,
		PRIMARY KEY(cache_key, row, col)
	);`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// SavePrices replaces whatever is cached under key with t.
func (s *Store) SavePrices(ctx context.Context, key string, t *finance.PriceTable, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_rows WHERE cache_key=?`, key); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO price_cache(cache_key,symbols,fetched_at) VALUES(?,?,?)`,
		key, strings.Join(t.Symbols, ","), fetchedAt.Unix()); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_rows(cache_key,row,day,col,close) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for row, day := range t.Dates {
		for col := range t.Symbols {
			// NaN is stored as NULL
			v := sql.NullFloat64{Float64: t.Closes[col][row], Valid: !math.IsNaN(t.Closes[col][row])}
			if _, err := stmt.ExecContext(ctx, key, row, day.Format(time.DateOnly), col, v); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadPrices returns the table cached under key if it was fetched within maxAge.
func (s *Store) LoadPrices(ctx context.Context, key string, maxAge time.Duration, now time.Time) (*finance.PriceTable, bool, error) {
	var symbols string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT symbols, fetched_at FROM price_cache WHERE cache_key=?`, key).
		Scan(&symbols, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if now.Sub(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, false, nil
	}

	cols := strings.Split(symbols, ",")
	rows, err := s.db.QueryContext(ctx, `SELECT row, day, col, close FROM price_rows WHERE cache_key=? ORDER BY row, col`, key)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var dates []time.Time
	closes := make([][]float64, len(cols))
	for rows.Next() {
		var row, col int
		var day string
		var v sql.NullFloat64
		if err := rows.Scan(&row, &day, &col, &v); err != nil {
			return nil, false, err
		}
		if col < 0 || col >= len(cols) {
			return nil, false, fmt.Errorf("cached row %d has column %d of %d", row, col, len(cols))
		}
		if row == len(dates) {
			d, err := time.Parse(time.DateOnly, day)
			if err != nil {
				return nil, false, err
			}
			dates = append(dates, d)
			for c := range closes {
				closes[c] = append(closes[c], math.NaN())
			}
		}
		if v.Valid {
			closes[col][row] = v.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(dates) == 0 {
		return nil, false, nil
	}

	t, err := finance.NewPriceTable(dates, cols, closes)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Purge drops every entry fetched before cutoff.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_rows WHERE cache_key IN (SELECT cache_key FROM price_cache WHERE fetched_at<?)`, cutoff.Unix()); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM price_cache WHERE fetched_at<?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}
