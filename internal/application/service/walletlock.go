package service

import "sync"

// WalletLock serializes mutations per wallet so concurrent operations
// against the same wallet never interleave, while operations on different
// wallets proceed in parallel. Entries are never evicted; the map is
// bounded by the number of wallets, which is small (one float per holder).
type WalletLock struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewWalletLock creates an empty lock registry.
func NewWalletLock() *WalletLock {
	return &WalletLock{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given wallet and returns its unlock func.
func (w *WalletLock) Lock(walletID int64) func() {
	w.mu.Lock()
	m, ok := w.locks[walletID]
	if !ok {
		m = &sync.Mutex{}
		w.locks[walletID] = m
	}
	w.mu.Unlock()

	m.Lock()
	return m.Unlock
}
