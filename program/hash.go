// Package program implements the entropy on-chain state machine: the
// instruction decoder, PDA/vault lifecycle, and the five instruction
// processors (Initialize, RegisterProvider, Request, RequestWithCallback,
// RevealWithCallback). Every processor is written purely against
// runtime.Environment and runtime.AccountInfo so the same logic runs against
// a live validator or the bbolt-backed ledger simulator.
package program

import "golang.org/x/crypto/sha3"

// HashProvider is the narrow hashing interface the protocol's commitment
// scheme is built on, mirrored from the teacher's crypto.CryptoProvider
// abstraction (narrow interface, swappable implementation) so tests can
// substitute a counting/fake hasher without touching processor code.
type HashProvider interface {
	H(input []byte) [32]byte
}

// Sha3HashProvider is the production HashProvider: H = SHA3-256, the same
// hash family the teacher repo already uses for its own hash-chain
// (consensus/hash.go, crypto/devstd.go), generalized here from preimage
// verification in an HTLC to the commit-reveal randomness chain.
type Sha3HashProvider struct{}

func (Sha3HashProvider) H(input []byte) [32]byte {
	return sha3.Sum256(input)
}

// H2 concatenates a and b before hashing — the shape every two-input
// commitment in this protocol uses (user_commitment || provider_commitment,
// or user_contribution || provider_contribution || blockhash).
func H2(hp HashProvider, a, b []byte) [32]byte {
	buf := make([]byte, 0, len(a)+len(b))
	buf = append(buf, a...)
	buf = append(buf, b...)
	return hp.H(buf)
}

// H3 is H2 generalized to three inputs, for the reveal random-number hash.
func H3(hp HashProvider, a, b, c []byte) [32]byte {
	buf := make([]byte, 0, len(a)+len(b)+len(c))
	buf = append(buf, a...)
	buf = append(buf, b...)
	buf = append(buf, c...)
	return hp.H(buf)
}

// WalkChain applies H iteratively n times to seed — the hash-chain walk
// both chain generation (daemon side) and commitment verification
// (reveal processor) are built on (spec §3 invariant 4, §8 property 5).
func WalkChain(hp HashProvider, seed [32]byte, n uint64) [32]byte {
	cur := seed
	for i := uint64(0); i < n; i++ {
		cur = hp.H(cur[:])
	}
	return cur
}
