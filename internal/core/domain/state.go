package domain

// WalletStatus is the lifecycle state of the faucet wallet.
type WalletStatus string

const (
	WalletUninitialized WalletStatus = "UNINITIALIZED"
	WalletInitializing  WalletStatus = "INITIALIZING"
	WalletReady         WalletStatus = "READY"
	WalletSending       WalletStatus = "SENDING"
	WalletClosed        WalletStatus = "CLOSED"
)

// CanServe reports whether queries and sends may run in this state.
func (s WalletStatus) CanServe() bool {
	return s == WalletReady || s == WalletSending
}
