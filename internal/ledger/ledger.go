// Package ledger persists one row per run and reads back recorded holdings.
package ledger

import (
	"errors"
	"fmt"

	"GoldSentinel/internal/model"
)

var (
	// ErrReadFailure means holdings could not be read. The run continues without a portfolio section.
	ErrReadFailure = errors.New("ledger read failure")
	// ErrWriteFailure means the run's row could not be appended. The run continues.
	ErrWriteFailure = errors.New("ledger write failure")
)

// Store is an append-only row sink with optional holdings read-back.
type Store interface {
	AppendRow(row model.LedgerRow) error
	ReadHoldings() ([]model.HoldingsLot, error)
	Close() error
}

// NoopStore is used when no ledger is configured.
type NoopStore struct{}

func (NoopStore) AppendRow(model.LedgerRow) error            { return nil }
func (NoopStore) ReadHoldings() ([]model.HoldingsLot, error) { return nil, nil }
func (NoopStore) Close() error                               { return nil }

// MultiStore appends to every store and reads holdings from the first one.
type MultiStore struct {
	Stores []Store
}

func NewMultiStore(stores ...Store) *MultiStore {
	return &MultiStore{Stores: stores}
}

// AppendRow writes to all stores and joins their errors.
func (m *MultiStore) AppendRow(row model.LedgerRow) error {
	var errs []error
	for _, s := range m.Stores {
		if err := s.AppendRow(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiStore) ReadHoldings() ([]model.HoldingsLot, error) {
	if len(m.Stores) == 0 {
		return nil, nil
	}
	return m.Stores[0].ReadHoldings()
}

func (m *MultiStore) Close() error {
	var errs []error
	for _, s := range m.Stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// retailCell renders the retail column: the price, "CLOSED" or "N/A".
func retailCell(r model.RetailResult) string {
	switch r.Kind {
	case model.RetailPrice:
		return r.Price.StringFixed(2)
	case model.RetailStoreClosed:
		return "CLOSED"
	default:
		return notAvailable
	}
}

const notAvailable = "N/A"

func wrapWrite(err error) error {
	return fmt.Errorf("%w: %w", ErrWriteFailure, err)
}

func wrapRead(err error) error {
	return fmt.Errorf("%w: %w", ErrReadFailure, err)
}

// Open builds the configured stores. When a SQLite path is set its holdings
// table is the holdings source and holdings.csv is not read; rows still go to
// every store.
func Open(historyPath, holdingsPath, sqlitePath string) (Store, error) {
	var stores []Store
	if sqlitePath != "" {
		s, err := NewSQLiteStore(sqlitePath)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
		holdingsPath = ""
	}
	if historyPath != "" || holdingsPath != "" {
		stores = append(stores, NewCSVStore(historyPath, holdingsPath))
	}
	switch len(stores) {
	case 0:
		return NoopStore{}, nil
	case 1:
		return stores[0], nil
	}
	return NewMultiStore(stores...), nil
}
