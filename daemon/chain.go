package daemon

import (
	"entropy.dev/node/errs"
	"entropy.dev/node/program"
)

// ProviderChain holds a provider's pre-generated hash chain in process
// memory: chain[0] is the seed and chain[i] = H^i(seed), so chain[length] is
// the commitment registered on-chain (spec §3 invariant 4, §8 property 5).
// It is rebuilt from the seed at daemon startup and never persisted — the
// daemon has no local files besides the operator's keypair (spec §1
// "daemon chain-cursor persistence is out of scope").
type ProviderChain struct {
	chain [][32]byte

	// currentIndex mirrors the on-chain provider's current_commitment
	// cursor: chain[len(chain)-1-currentIndex] == provider.current_commitment.
	// It starts at 0 (the registered commitment) and only moves through
	// Advance; it is not read back from on-chain state.
	currentIndex uint64
}

// NewProviderChain builds the full chain up front: length+1 hashes
// (including the seed itself at index 0).
func NewProviderChain(hp program.HashProvider, seed [32]byte, length uint64) (*ProviderChain, error) {
	if length == 0 {
		return nil, errs.New(errs.InvalidArgument, "provider_chain: length must be non-zero")
	}
	chain := make([][32]byte, length+1)
	chain[0] = seed
	for i := uint64(1); i <= length; i++ {
		chain[i] = hp.H(chain[i-1][:])
	}
	return &ProviderChain{chain: chain}, nil
}

// Len is the chain length registered on-chain (not counting the seed).
func (c *ProviderChain) Len() uint64 {
	return uint64(len(c.chain)) - 1
}

// Commitment returns chain[length], the value registered as the provider's
// original_commitment at RegisterProvider time.
func (c *ProviderChain) Commitment() [32]byte {
	return c.chain[len(c.chain)-1]
}

// ContributionFor returns the preimage depth hashes below the registered
// commitment: chain[length-depth], since H^{depth}(chain[length-depth]) ==
// chain[length]. The depth of a request is its sequence number, counted from
// the registration at sequence 0; the on-chain num_hashes then walks this
// preimage up to the provider's current_commitment at request time.
func (c *ProviderChain) ContributionFor(depth uint64) ([32]byte, error) {
	if depth > c.Len() {
		return [32]byte{}, errs.New(errs.InvalidArgument, "provider_chain: depth exceeds chain length")
	}
	return c.chain[c.Len()-depth], nil
}

// Advance updates the in-memory cursor after a reveal confirms on-chain,
// mirroring the on-chain monotonic-advance rule (spec §4.6 step 6) so the
// daemon's own bookkeeping never regresses either. idx is a depth below the
// registered commitment (the revealed request's sequence number), the same
// index space ContributionFor takes.
func (c *ProviderChain) Advance(idx uint64) {
	if idx > c.currentIndex {
		c.currentIndex = idx
	}
}
