package domain

import "strings"

// Outcome classifies the result of a post-send verification step.
type Outcome string

const (
	OutcomeConfirmed       Outcome = "CONFIRMED"
	OutcomeNotYetConfirmed Outcome = "NOT_YET_CONFIRMED"
	OutcomeKnownLimitation Outcome = "KNOWN_LIMITATION"
	OutcomeFailed          Outcome = "FAILED"
)

// Passed reports whether the outcome counts as a pass. A known upstream
// limitation passes with a warning.
func (o Outcome) Passed() bool {
	return o != OutcomeFailed
}

// Recognised wallet status and diagnostic markers. Matching is limited to
// this set.
const (
	MarkerConfirmedTransparent = "confirmed_transparent_balance"
	MarkerConfirmedOrchard     = "confirmed_orchard_balance"
	MarkerSyncRunning          = "sync is already running"
	MarkerKnownLimitation      = "additional change output"
	MarkerError                = "error"
	MarkerTxID                 = "txid"
)

// BalanceAvailable reports whether status text shows a usable balance
// report and no sync in progress.
func BalanceAvailable(status string) bool {
	hasBalance := strings.Contains(status, MarkerConfirmedTransparent) ||
		strings.Contains(status, MarkerConfirmedOrchard)
	return hasBalance && !strings.Contains(status, MarkerSyncRunning)
}

// ClassifyOutcome maps an engine diagnostic to an outcome. The known
// limitation wins over the generic error marker, and any error wins over a
// txid. A txid without an error means the transaction was broadcast.
func ClassifyOutcome(diagnostic string) Outcome {
	lower := strings.ToLower(diagnostic)
	switch {
	case strings.Contains(lower, MarkerKnownLimitation):
		return OutcomeKnownLimitation
	case strings.Contains(lower, MarkerError):
		return OutcomeFailed
	case strings.Contains(lower, MarkerTxID):
		return OutcomeConfirmed
	}
	return OutcomeNotYetConfirmed
}
