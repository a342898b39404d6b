package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"GoldSentinel/internal/model"
)

// SQLiteStore persists ledger rows and holdings to a SQLite database.
// Decimal values are stored as TEXT so they round-trip exactly.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger_rows (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			spot_local     TEXT NOT NULL,
			spot_secondary TEXT NOT NULL,
			ma_short       TEXT,
			ma_long        TEXT,
			retail_kind    TEXT NOT NULL,
			retail_price   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_ts ON ledger_rows(timestamp)`,

		`CREATE TABLE IF NOT EXISTS holdings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			grams      TEXT NOT NULL,
			price_paid TEXT NOT NULL,
			added_at   INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) AppendRow(row model.LedgerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var retailPrice sql.NullString
	if row.Retail.Kind == model.RetailPrice {
		retailPrice = sql.NullString{String: row.Retail.Price.String(), Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO ledger_rows
		(timestamp, spot_local, spot_secondary, ma_short, ma_long, retail_kind, retail_price)
		VALUES (?,?,?,?,?,?,?)`,
		row.Time.Unix(), row.SpotLocal.String(), row.SpotSecondary.String(),
		nullText(row.MovingAvgShort), nullText(row.MovingAvgLong),
		row.Retail.Kind.String(), retailPrice,
	)
	if err != nil {
		return wrapWrite(err)
	}
	return nil
}

func nullText(v decimal.NullDecimal) sql.NullString {
	if !v.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: v.Decimal.String(), Valid: true}
}

// AddHolding records a purchase.
func (s *SQLiteStore) AddHolding(lot model.HoldingsLot, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO holdings (grams, price_paid, added_at) VALUES (?,?,?)`,
		lot.Grams.String(), lot.PricePaidLocal.String(), at.Unix())
	if err != nil {
		return wrapWrite(err)
	}
	return nil
}

func (s *SQLiteStore) ReadHoldings() ([]model.HoldingsLot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT grams, price_paid FROM holdings ORDER BY id`)
	if err != nil {
		return nil, wrapRead(err)
	}
	defer rows.Close()

	var lots []model.HoldingsLot
	for rows.Next() {
		var grams, paid string
		if err := rows.Scan(&grams, &paid); err != nil {
			return nil, wrapRead(err)
		}
		g, err := decimal.NewFromString(grams)
		if err != nil {
			return nil, wrapRead(err)
		}
		p, err := decimal.NewFromString(paid)
		if err != nil {
			return nil, wrapRead(err)
		}
		lots = append(lots, model.HoldingsLot{Grams: g, PricePaidLocal: p})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRead(err)
	}
	return lots, nil
}

// rowCount returns the number of appended rows.
func (s *SQLiteStore) rowCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ledger_rows`).Scan(&n); err != nil {
		return 0, wrapRead(err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
