package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldSentinel/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleRow(retail model.RetailResult) model.LedgerRow {
	return model.LedgerRow{
		Time:           time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		SpotLocal:      d("128.504"),
		SpotSecondary:  d("617.1"),
		MovingAvgShort: decimal.NewNullDecimal(d("130")),
		Retail:         retail,
	}
}

func TestCSVStore_AppendRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "history.csv")
	s := NewCSVStore(path, "")

	require.NoError(t, s.AppendRow(sampleRow(model.RetailPriceOf(d("131.2")))))
	require.NoError(t, s.AppendRow(sampleRow(model.RetailClosed())))
	require.NoError(t, s.AppendRow(sampleRow(model.RetailNotAvailable())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "timestamp,spot_local,spot_secondary,ma_short,ma_long,retail\n" +
		"2026-03-02T08:00:00Z,128.50,617.10,130.00,N/A,131.20\n" +
		"2026-03-02T08:00:00Z,128.50,617.10,130.00,N/A,CLOSED\n" +
		"2026-03-02T08:00:00Z,128.50,617.10,130.00,N/A,N/A\n"
	assert.Equal(t, want, string(data))
}

func TestCSVStore_AppendRowFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be
	path := filepath.Join(dir, "history.csv")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := NewCSVStore(path, "").AppendRow(sampleRow(model.RetailNotAvailable()))
	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestCSVStore_ReadHoldings(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    []model.HoldingsLot
		wantErr bool
	}{
		{name: "missing file", content: nil, want: nil},
		{
			name:    "header and rows",
			content: ptr("grams,price_paid\n10, 100\n5,110\n\n"),
			want: []model.HoldingsLot{
				{Grams: d("10"), PricePaidLocal: d("100")},
				{Grams: d("5"), PricePaidLocal: d("110")},
			},
		},
		{
			name:    "no header",
			content: ptr("2.5,120.75\n"),
			want:    []model.HoldingsLot{{Grams: d("2.5"), PricePaidLocal: d("120.75")}},
		},
		{name: "bad number", content: ptr("grams,price_paid\nten,100\n"), wantErr: true},
		{name: "short row", content: ptr("grams,price_paid\n10\n"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "holdings.csv")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			lots, err := NewCSVStore("unused.csv", path).ReadHoldings()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrReadFailure)
				return
			}
			require.NoError(t, err)
			require.Len(t, lots, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Grams.Equal(lots[i].Grams))
				assert.True(t, tt.want[i].PricePaidLocal.Equal(lots[i].PricePaidLocal))
			}
		})
	}
}

func ptr(s string) *string { return &s }

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer s.Close()

	lots, err := s.ReadHoldings()
	require.NoError(t, err)
	assert.Empty(t, lots)

	require.NoError(t, s.AppendRow(sampleRow(model.RetailPriceOf(d("131.2")))))
	require.NoError(t, s.AppendRow(sampleRow(model.RetailNotAvailable())))
	n, err := s.rowCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var kind string
	var price, maLong *string
	require.NoError(t, s.db.QueryRow(`SELECT retail_kind, retail_price, ma_long FROM ledger_rows ORDER BY id LIMIT 1`).Scan(&kind, &price, &maLong))
	assert.Equal(t, "PRICE", kind)
	require.NotNil(t, price)
	assert.Equal(t, "131.2", *price)
	assert.Nil(t, maLong)

	now := time.Now()
	require.NoError(t, s.AddHolding(model.HoldingsLot{Grams: d("10"), PricePaidLocal: d("100.125")}, now))
	require.NoError(t, s.AddHolding(model.HoldingsLot{Grams: d("5"), PricePaidLocal: d("110")}, now))
	lots, err = s.ReadHoldings()
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.True(t, lots[0].PricePaidLocal.Equal(d("100.125")))
	assert.True(t, lots[1].Grams.Equal(d("5")))
}

type failingStore struct {
	NoopStore
	err error
}

func (f failingStore) AppendRow(model.LedgerRow) error { return f.err }

func TestMultiStore(t *testing.T) {
	dir := t.TempDir()
	holdings := filepath.Join(dir, "holdings.csv")
	require.NoError(t, os.WriteFile(holdings, []byte("grams,price_paid\n1,100\n"), 0o644))

	csvStore := NewCSVStore(filepath.Join(dir, "history.csv"), holdings)
	boom := wrapWrite(errors.New("disk full"))
	m := NewMultiStore(csvStore, failingStore{err: boom})

	err := m.AppendRow(sampleRow(model.RetailNotAvailable()))
	assert.ErrorIs(t, err, ErrWriteFailure)
	// The healthy store still got the row
	_, statErr := os.Stat(filepath.Join(dir, "history.csv"))
	assert.NoError(t, statErr)

	lots, err := m.ReadHoldings()
	require.NoError(t, err)
	assert.Len(t, lots, 1)
	assert.NoError(t, m.Close())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", "", "")
	require.NoError(t, err)
	assert.IsType(t, NoopStore{}, s)

	s, err = Open(filepath.Join(dir, "h.csv"), "", "")
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)

	s, err = Open("", "", filepath.Join(dir, "only.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, s.Close())

	s, err = Open(filepath.Join(dir, "h.csv"), "", filepath.Join(dir, "l.db"))
	require.NoError(t, err)
	assert.IsType(t, &MultiStore{}, s)
	assert.NoError(t, s.Close())
}

func TestOpen_SQLiteHoldingsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.db")
	historyPath := filepath.Join(dir, "history.csv")
	holdingsPath := filepath.Join(dir, "holdings.csv")
	require.NoError(t, os.WriteFile(holdingsPath, []byte("grams,price_paid\n1,100\n9,90\n"), 0o644))

	db, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.AddHolding(model.HoldingsLot{Grams: d("2.5"), PricePaidLocal: d("130.10")}, time.Now()))
	require.NoError(t, db.Close())

	s, err := Open(historyPath, holdingsPath, dbPath)
	require.NoError(t, err)
	defer s.Close()

	lots, err := s.ReadHoldings()
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Grams.Equal(d("2.5")))
	assert.True(t, lots[0].PricePaidLocal.Equal(d("130.10")))

	// Rows still reach both stores
	require.NoError(t, s.AppendRow(sampleRow(model.RetailNotAvailable())))
	_, err = os.Stat(historyPath)
	assert.NoError(t, err)
	multi, ok := s.(*MultiStore)
	require.True(t, ok)
	n, err := multi.Stores[0].(*SQLiteStore).rowCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCSVStore_EmptyHistoryPathIsReadOnly(t *testing.T) {
	assert.NoError(t, NewCSVStore("", "").AppendRow(sampleRow(model.RetailNotAvailable())))
}
