package ledger

import (
	"entropy.dev/node/account"
	"entropy.dev/node/runtime"
)

// InstructionAccounts adapts a Ledger plus one instruction's declared
// account metas into the program.Accounts contract: account lookups need to
// know the per-instruction signer/writable flags a simulated transaction
// declared, not just what is stored in the ledger.
type InstructionAccounts struct {
	ledger *Ledger
	metas  map[account.Pubkey]runtime.AccountMeta
}

// NewInstructionAccounts builds the per-instruction view. Accounts not named
// in metas are treated as read-only, non-signer.
func NewInstructionAccounts(l *Ledger, metas []runtime.AccountMeta) *InstructionAccounts {
	byKey := make(map[account.Pubkey]runtime.AccountMeta, len(metas))
	for _, m := range metas {
		byKey[m.Pubkey] = m
	}
	return &InstructionAccounts{ledger: l, metas: byKey}
}

func (a *InstructionAccounts) Account(key account.Pubkey) (*runtime.AccountInfo, error) {
	meta := a.metas[key]
	return a.ledger.AccountInfo(key, meta.IsSigner, meta.IsWritable)
}
