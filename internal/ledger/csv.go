package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

var historyHeader = []string{"timestamp", "spot_local", "spot_secondary", "ma_short", "ma_long", "retail"}

// CSVStore appends rows to a history file and reads holdings from a second file.
type CSVStore struct {
	historyPath  string
	holdingsPath string
	mu           sync.Mutex
}

// NewCSVStore creates a store. Either path may be empty.
func NewCSVStore(historyPath, holdingsPath string) *CSVStore {
	return &CSVStore{historyPath: historyPath, holdingsPath: holdingsPath}
}

// AppendRow appends to the history file. An empty history path keeps the store read-only.
func (s *CSVStore) AppendRow(row model.LedgerRow) error {
	if s.historyPath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.historyPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapWrite(err)
		}
	}

	writeHeader := false
	if info, err := os.Stat(s.historyPath); errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	f, err := os.OpenFile(s.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapWrite(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(historyHeader); err != nil {
			return wrapWrite(err)
		}
	}
	if err := w.Write(historyRecord(row)); err != nil {
		return wrapWrite(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return wrapWrite(err)
	}
	return nil
}

func historyRecord(row model.LedgerRow) []string {
	return []string{
		row.Time.Format(time.RFC3339),
		row.SpotLocal.StringFixed(2),
		row.SpotSecondary.StringFixed(2),
		nullCell(row.MovingAvgShort),
		nullCell(row.MovingAvgLong),
		retailCell(row.Retail),
	}
}

func nullCell(v decimal.NullDecimal) string {
	if !v.Valid {
		return notAvailable
	}
	return v.Decimal.StringFixed(2)
}

// ReadHoldings reads "grams,price_paid" rows. A missing file means no holdings.
func (s *CSVStore) ReadHoldings() ([]model.HoldingsLot, error) {
	if s.holdingsPath == "" {
		return nil, nil
	}
	f, err := os.Open(s.holdingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapRead(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var lots []model.HoldingsLot
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapRead(err)
		}
		line++
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "grams") {
			continue
		}
		if len(rec) < 2 {
			return nil, wrapRead(fmt.Errorf("line %d: expected grams,price_paid", line))
		}
		grams, err := decimal.NewFromString(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, wrapRead(fmt.Errorf("line %d: grams: %w", line, err))
		}
		paid, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, wrapRead(fmt.Errorf("line %d: price_paid: %w", line, err))
		}
		lots = append(lots, model.HoldingsLot{Grams: grams, PricePaidLocal: paid})
	}
	return lots, nil
}

func (s *CSVStore) Close() error { return nil }
