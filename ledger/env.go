package ledger

import (
	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
	bolt "go.etcd.io/bbolt"
)

// RentExemptMinimum mirrors mainnet-beta's rent formula closely enough for
// simulation: 2 years of rent at the current per-byte-year rate, plus fixed
// per-account overhead.
func (l *Ledger) RentExemptMinimum(dataLen int) uint64 {
	return uint64(dataLen+accountOverheadBytes) * rentLamportsPerByteYear * rentExemptionYears
}

func (l *Ledger) CreateAccount(payer, target account.Pubkey, lamports, space uint64, owner account.Pubkey, _ runtime.SignerSeeds) error {
	payerRec, err := l.load(payer)
	if err != nil {
		return err
	}
	targetRec, err := l.load(target)
	if err != nil {
		return err
	}
	if targetRec.lamports != 0 || len(targetRec.data) != 0 {
		return errs.New(errs.InvalidAccount, "ledger: CreateAccount: target already funded")
	}
	if payerRec.lamports < lamports {
		return errs.New(errs.InvalidArgument, "ledger: CreateAccount: payer underfunded")
	}
	payerRec.lamports -= lamports
	payerRec.dirty = true

	targetRec.lamports = lamports
	targetRec.data = make([]byte, space)
	targetRec.owner = owner
	targetRec.dirty = true
	return nil
}

func (l *Ledger) TopUpAndAssign(payer, target account.Pubkey, lamports, space uint64, owner account.Pubkey, _ runtime.SignerSeeds) error {
	payerRec, err := l.load(payer)
	if err != nil {
		return err
	}
	targetRec, err := l.load(target)
	if err != nil {
		return err
	}
	if targetRec.lamports < lamports {
		topUp := lamports - targetRec.lamports
		if payerRec.lamports < topUp {
			return errs.New(errs.InvalidArgument, "ledger: TopUpAndAssign: payer underfunded")
		}
		payerRec.lamports -= topUp
		targetRec.lamports += topUp
		payerRec.dirty = true
	}
	if len(targetRec.data) != int(space) {
		grown := make([]byte, space)
		copy(grown, targetRec.data)
		targetRec.data = grown
	}
	targetRec.owner = owner
	targetRec.dirty = true
	return nil
}

func (l *Ledger) Transfer(from, to account.Pubkey, lamports uint64) error {
	if lamports == 0 {
		return nil
	}
	fromRec, err := l.load(from)
	if err != nil {
		return err
	}
	toRec, err := l.load(to)
	if err != nil {
		return err
	}
	if fromRec.lamports < lamports {
		return errs.New(errs.InvalidArgument, "ledger: Transfer: insufficient lamports")
	}
	fromRec.lamports -= lamports
	toRec.lamports += lamports
	fromRec.dirty = true
	toRec.dirty = true
	return nil
}

func (l *Ledger) CloseAccount(target, dest account.Pubkey) error {
	targetRec, err := l.load(target)
	if err != nil {
		return err
	}
	destRec, err := l.load(dest)
	if err != nil {
		return err
	}
	destRec.lamports += targetRec.lamports
	destRec.dirty = true

	targetRec.lamports = 0
	targetRec.data = nil
	targetRec.owner = runtime.SystemProgramID
	targetRec.dirty = true
	return nil
}

func (l *Ledger) SlotHash(slot uint64) ([32]byte, bool) {
	var hash [32]byte
	found := false
	_ = l.db.View(func(tx *bolt.Tx) error {
		var key [8]byte
		putU64(key[:], slot)
		if v := tx.Bucket(bucketSlotHash).Get(key[:]); v != nil {
			copy(hash[:], v)
			found = true
		}
		return nil
	})
	return hash, found
}

// ProgramHandler simulates one other on-chain program's instruction
// processor for CPI purposes — the requester/callback side of a reveal.
type ProgramHandler func(ix runtime.Instruction, l *Ledger) error

// Invoke dispatches to a handler registered with RegisterProgram. A program
// with no registered handler fails the CPI, matching an unloaded/unknown
// program id on a real validator.
func (l *Ledger) Invoke(ix runtime.Instruction, _ runtime.SignerSeeds) error {
	h, ok := l.programs[ix.ProgramID]
	if !ok {
		return errs.Newf(errs.InvalidAccount, "ledger: Invoke: no handler registered for program %s", ix.ProgramID)
	}
	return h(ix, l)
}

// RegisterProgram installs a simulated processor for programID so tests can
// exercise RevealWithCallback's CPI dispatch end-to-end.
func (l *Ledger) RegisterProgram(programID account.Pubkey, h ProgramHandler) {
	if l.programs == nil {
		l.programs = make(map[account.Pubkey]ProgramHandler)
	}
	l.programs[programID] = h
}
