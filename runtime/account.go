// Package runtime specifies the minimal host-chain contract the entropy
// program consumes: account views, rent, the SlotHashes sysvar, the system
// program primitive, and cross-program invocation. None of this is the host
// chain itself (that is out of scope per spec §1) — it is the narrow,
// typed surface program/ is written against, so the same processor code runs
// against a live validator's accounts or against the in-memory/bbolt-backed
// simulator in ledger/.
package runtime

import "entropy.dev/node/account"

// AccountInfo is a mutable view of one account as the program sees it during
// a single instruction. Lamports and Data are shared with the caller's
// representation of the ledger so writes are visible after the instruction
// returns, mirroring how Solana's runtime hands programs a borrowed view
// rather than a copy.
type AccountInfo struct {
	Key        account.Pubkey
	Owner      account.Pubkey
	Lamports   *uint64
	Data       *[]byte
	IsSigner   bool
	IsWritable bool
}

func (a *AccountInfo) GetLamports() uint64 {
	if a == nil || a.Lamports == nil {
		return 0
	}
	return *a.Lamports
}

func (a *AccountInfo) SetLamports(v uint64) {
	if a == nil || a.Lamports == nil {
		return
	}
	*a.Lamports = v
}

func (a *AccountInfo) GetData() []byte {
	if a == nil || a.Data == nil {
		return nil
	}
	return *a.Data
}

// SetData replaces an account's stored bytes, used after CreateAccount/
// TopUpAndAssign has sized the account and the processor is ready to write
// its typed record.
func (a *AccountInfo) SetData(data []byte) {
	if a == nil || a.Data == nil {
		return
	}
	*a.Data = data
}

// SystemOwned reports whether the account is currently owned by the system
// program and carries zero bytes of data — the pre-creation state §4.1
// expects for a not-yet-initialized PDA or a lazily-created vault.
func (a *AccountInfo) SystemOwned() bool {
	return a.Owner == SystemProgramID && len(a.GetData()) == 0
}

// SystemProgramID is the well-known system program id every zero-data vault
// and not-yet-created PDA is owned by before the program takes ownership.
var SystemProgramID = account.ZeroKey
