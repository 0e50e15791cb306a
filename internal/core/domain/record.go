package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one successful dispense. Records are created once,
// after the broadcast succeeded, and never mutated.
type TransactionRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	ToAddress string          `json:"to_address"`
	Amount    decimal.Decimal `json:"amount"`
	TxID      string          `json:"txid"`
	Memo      string          `json:"memo"`
}

// NewTransactionRecord stamps a record with the current UTC time.
func NewTransactionRecord(to string, amount decimal.Decimal, txid, memo string) TransactionRecord {
	return TransactionRecord{
		Timestamp: time.Now().UTC(),
		ToAddress: to,
		Amount:    amount,
		TxID:      txid,
		Memo:      memo,
	}
}

// MarshalJSON writes amount as a bare JSON number so the history file stays
// readable by tools that expect numeric amounts.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	type plain TransactionRecord
	return json.Marshal(struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}{
		plain:  plain(r),
		Amount: json.RawMessage(r.Amount.String()),
	})
}
