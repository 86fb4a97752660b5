package runtime

import "entropy.dev/node/account"

// AccountMeta describes one account in a CPI's account list — the signer/
// writable flags the callee will observe, independent of the flags on the
// caller's own AccountInfo for that key.
type AccountMeta struct {
	Pubkey     account.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a fully-built cross-program invocation.
type Instruction struct {
	ProgramID account.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// SignerSeeds is one PDA's seed list, used to let the program sign a CPI or
// a system-program call on behalf of a PDA it owns (e.g. entropy_signer,
// or the provider/config PDA that a CreateAccount brings into existence).
type SignerSeeds [][]byte

// Environment is the full host-chain surface the processor package is
// written against. A live implementation wraps a Solana validator's
// syscalls; ledger.Ledger wraps bbolt for tests.
type Environment interface {
	// RentExemptMinimum returns the lamport balance an account of the given
	// size must hold to be exempt from garbage collection.
	RentExemptMinimum(dataLen int) uint64

	// CreateAccount atomically funds, sizes and assigns ownership of a
	// brand-new (zero-lamport) account, signing with seeds.
	CreateAccount(payer, target account.Pubkey, lamports, space uint64, owner account.Pubkey, seeds SignerSeeds) error

	// TopUpAndAssign funds an already-funded-but-foreign account up to
	// lamports, allocates space, and assigns ownership — the second path of
	// PDA initialization (spec §4.1) for addresses that were prefunded.
	TopUpAndAssign(payer, target account.Pubkey, lamports, space uint64, owner account.Pubkey, seeds SignerSeeds) error

	// Transfer moves lamports between two accounts the program can sign for
	// (a direct lamport move, not a CPI into the system program's Transfer
	// instruction, since both paths are equivalent for lamport-only moves
	// the program already owns or a payer signed for).
	Transfer(from, to account.Pubkey, lamports uint64) error

	// CloseAccount zeroes an account's data and moves all its lamports to
	// dest, the shape RevealWithCallback's request-account close uses.
	CloseAccount(target, dest account.Pubkey) error

	// SlotHash looks up a recorded slot hash; ok is false outside the
	// sysvar's retention window (spec §4.6 step 4).
	SlotHash(slot uint64) (hash [32]byte, ok bool)

	// CurrentSlot is the slot the current instruction is executing in.
	CurrentSlot() uint64

	// Invoke performs a cross-program invocation, signing with seeds if
	// non-empty. This is the entropy program's one reentrancy surface
	// (spec §9) — callers must validate accounts before and handle the
	// lamport refund after, never inside.
	Invoke(ix Instruction, seeds SignerSeeds) error
}
