// Package identity exposes the currently connected account. The client only
// reads the address; connection lifecycle belongs to the wallet.
package identity

import "sync"

// Provider reports the connected account address, if any.
type Provider interface {
	CurrentAddress() (string, bool)
}

// Static is a Provider whose address can be set and cleared at runtime.
type Static struct {
	mu      sync.RWMutex
	address string
}

// NewStatic returns a Static connected to address. An empty address starts
// disconnected.
func NewStatic(address string) *Static {
	return &Static{address: address}
}

func (s *Static) CurrentAddress() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address, s.address != ""
}

// Connect replaces the connected address.
func (s *Static) Connect(address string) {
	s.mu.Lock()
	s.address = address
	s.mu.Unlock()
}

// Disconnect clears the connected address.
func (s *Static) Disconnect() {
	s.Connect("")
}

// Short renders an address as its first 8 and last 6 characters, the way the
// wallet status line shows it. Short addresses are returned unchanged.
func Short(address string) string {
	if len(address) <= 14 {
		return address
	}
	return address[:8] + "..." + address[len(address)-6:]
}
