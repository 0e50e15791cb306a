package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"zeckit-faucet/internal/core/domain"

	"github.com/rs/zerolog"
)

// HistoryFileName is the ledger file kept in the wallet data directory.
const HistoryFileName = "faucet-history.json"

// ErrCorruptHistory is returned by Load when the history file cannot be parsed.
var ErrCorruptHistory = errors.New("corrupt history file")

// Ledger implements ports.LedgerStore on a single JSON file. The in-memory
// slice is authoritative; every append rewrites the whole file.
type Ledger struct {
	mu      sync.RWMutex
	path    string
	records []domain.TransactionRecord
	log     zerolog.Logger
}

// Load reads the history under dir. A missing file yields an empty ledger.
func Load(dir string, log zerolog.Logger) (*Ledger, error) {
	path := filepath.Join(dir, HistoryFileName)
	l := &Ledger{path: path, log: log}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("no history file, starting empty")
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptHistory, path, err)
	}

	log.Info().Str("path", path).Int("records", len(l.records)).Msg("history loaded")
	return l, nil
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Append adds record and persists the full sequence. A write failure leaves
// the record in memory.
func (l *Ledger) Append(record domain.TransactionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)
	return l.flush()
}

func (l *Ledger) flush() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return writeFileAtomic(l.path, data)
}

// writeFileAtomic writes data to a temp file beside path and renames it over
// path, so readers never see a partial history.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+HistoryFileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing history %s: %w", path, err)
	}
	return nil
}

// All returns a copy of every record in insertion order.
func (l *Ledger) All() []domain.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Recent returns up to limit records, newest first.
func (l *Ledger) Recent(limit int) []domain.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(l.records) {
		limit = len(l.records)
	}

	out := make([]domain.TransactionRecord, 0, limit)
	for i := len(l.records) - 1; i >= len(l.records)-limit; i-- {
		out = append(out, l.records[i])
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
