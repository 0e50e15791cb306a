package file

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zeckit-faucet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(i int) domain.TransactionRecord {
	return domain.TransactionRecord{
		Timestamp: time.Date(2026, 3, 1, 12, 0, i, 0, time.UTC),
		ToAddress: "tmAddr",
		Amount:    decimal.NewFromInt(int64(i + 1)),
		TxID:      "tx" + string(rune('a'+i)),
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	l, err := Load(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.All())
}

func TestAppend_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(record(i)))
	}

	reloaded, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)

	got := reloaded.All()
	require.Len(t, got, 5)
	for i, rec := range got {
		want := record(i)
		assert.Equal(t, want.TxID, rec.TxID)
		assert.True(t, want.Amount.Equal(rec.Amount))
		assert.True(t, want.Timestamp.Equal(rec.Timestamp))
		assert.Equal(t, want.ToAddress, rec.ToAddress)
	}
}

func TestAppend_WritesPrettyJSONArray(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, l.Append(record(0)))

	data, err := os.ReadFile(filepath.Join(dir, HistoryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, 1.0, raw[0]["amount"])
	assert.Equal(t, "", raw[0]["memo"])
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFileName), []byte("{not json"), 0o644))

	_, err := Load(dir, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptHistory))
}

func TestLoad_ReadsExistingHistory(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"timestamp":"2026-02-01T10:00:00.123456Z","to_address":"uregtest1x","amount":10.0,"txid":"t1","memo":""},
  {"timestamp":"2026-02-01T11:00:00Z","to_address":"tmY","amount":0.5,"txid":"t2","memo":"hello"}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFileName), []byte(content), 0o644))

	l, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	all := l.All()
	assert.Equal(t, "t1", all[0].TxID)
	assert.Equal(t, "hello", all[1].Memo)
	assert.True(t, all[1].Amount.Equal(decimal.RequireFromString("0.5")))
}

func TestRecent_NewestFirst(t *testing.T) {
	l, err := Load(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Append(record(i)))
	}

	got := l.Recent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "txd", got[0].TxID)
	assert.Equal(t, "txc", got[1].TxID)

	assert.Len(t, l.Recent(100), 4)
	assert.Empty(t, l.Recent(0))
}

func TestAppend_WriteFailureKeepsRecordInMemory(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)

	// Point the ledger into a directory that does not exist.
	l.path = filepath.Join(dir, "missing", HistoryFileName)

	err = l.Append(record(0))
	require.Error(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestAppend_ReplacesFileWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Append(record(i)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, HistoryFileName, entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
