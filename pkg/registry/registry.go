package registry

import (
	"fmt"
	"sync"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Chains implements ports.ChainRegistry. It ships with the built-in testnet
// route (Mantle Sepolia -> Base Sepolia) and allows additional networks to be
// registered at startup.
type Chains struct {
	mu          sync.RWMutex
	byID        map[int64]domain.Chain
	source      int64
	destination int64
}

// NewChains creates a registry seeded with the built-in networks.
func NewChains() *Chains {
	c := &Chains{
		byID:        make(map[int64]domain.Chain),
		source:      domain.ChainMantleSepolia.ID,
		destination: domain.ChainBaseSepolia.ID,
	}
	c.byID[domain.ChainMantleSepolia.ID] = domain.ChainMantleSepolia
	c.byID[domain.ChainBaseSepolia.ID] = domain.ChainBaseSepolia
	return c
}

// Register adds or replaces a network.
func (c *Chains) Register(chain domain.Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[chain.ID] = chain
}

// SetRoute changes the default source/destination pair. Both chains must be
// registered first.
func (c *Chains) SetRoute(sourceID, destinationID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[sourceID]; !ok {
		return fmt.Errorf("unknown source chain %d", sourceID)
	}
	if _, ok := c.byID[destinationID]; !ok {
		return fmt.Errorf("unknown destination chain %d", destinationID)
	}
	c.source = sourceID
	c.destination = destinationID
	return nil
}

// Resolve returns the chain for an id.
func (c *Chains) Resolve(chainID int64) (domain.Chain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chain, ok := c.byID[chainID]
	return chain, ok
}

// Source returns the default source network.
func (c *Chains) Source() domain.Chain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[c.source]
}

// Destination returns the default destination network.
func (c *Chains) Destination() domain.Chain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[c.destination]
}
