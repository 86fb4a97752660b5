package daemon

import (
	"testing"

	"entropy.dev/node/program"
)

func seed32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

// TestProviderChain_RoundTrip is spec §8 property 5: for any 0 <= k <= L,
// H^(L-k)(chain[k]) == commitment_registered.
func TestProviderChain_RoundTrip(t *testing.T) {
	hp := program.Sha3HashProvider{}
	seed := seed32(0x07)
	const length = 6

	chain, err := NewProviderChain(hp, seed, length)
	if err != nil {
		t.Fatalf("NewProviderChain: %v", err)
	}
	if chain.Len() != length {
		t.Fatalf("Len() = %d, want %d", chain.Len(), length)
	}
	commitment := program.WalkChain(hp, seed, length)
	if chain.Commitment() != commitment {
		t.Fatalf("Commitment() = %x, want %x", chain.Commitment(), commitment)
	}

	for numHashes := uint64(0); numHashes <= length; numHashes++ {
		contribution, err := chain.ContributionFor(numHashes)
		if err != nil {
			t.Fatalf("ContributionFor(%d): %v", numHashes, err)
		}
		got := program.WalkChain(hp, contribution, numHashes)
		if got != commitment {
			t.Fatalf("num_hashes=%d: H^%d(contribution) = %x, want %x", numHashes, numHashes, got, commitment)
		}
	}
}

func TestProviderChain_ContributionForExceedsLengthRejected(t *testing.T) {
	hp := program.Sha3HashProvider{}
	chain, err := NewProviderChain(hp, seed32(0x01), 3)
	if err != nil {
		t.Fatalf("NewProviderChain: %v", err)
	}
	if _, err := chain.ContributionFor(4); err == nil {
		t.Fatal("expected error for num_hashes exceeding chain length")
	}
}

func TestProviderChain_ZeroLengthRejected(t *testing.T) {
	hp := program.Sha3HashProvider{}
	if _, err := NewProviderChain(hp, seed32(0x01), 0); err == nil {
		t.Fatal("expected error for zero-length chain")
	}
}

func TestProviderChain_AdvanceNeverRegresses(t *testing.T) {
	hp := program.Sha3HashProvider{}
	chain, err := NewProviderChain(hp, seed32(0x02), 10)
	if err != nil {
		t.Fatalf("NewProviderChain: %v", err)
	}
	chain.Advance(5)
	if chain.currentIndex != 5 {
		t.Fatalf("currentIndex = %d, want 5", chain.currentIndex)
	}
	chain.Advance(3)
	if chain.currentIndex != 5 {
		t.Fatalf("currentIndex regressed to %d, want still 5", chain.currentIndex)
	}
	chain.Advance(7)
	if chain.currentIndex != 7 {
		t.Fatalf("currentIndex = %d, want 7", chain.currentIndex)
	}
}
