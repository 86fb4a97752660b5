package daemon

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"entropy.dev/node/account"
)

const opRevealWithCallback uint64 = 5

// RevealAccounts is the fixed account prefix RevealWithCallback expects
// (spec §4.6), before the request's own declared callback accounts.
type RevealAccounts struct {
	Request        account.Pubkey
	Provider       account.Pubkey
	SlotHashes     account.Pubkey
	EntropySigner  account.Pubkey
	CallbackProgram account.Pubkey
	SystemProgram  account.Pubkey
	Payer          account.Pubkey
}

// BuildRevealInstruction assembles the top-level RevealWithCallback
// instruction the daemon submits once it has computed the provider's chain preimage for a
// request. callbackAccounts must be in the exact order and with the exact
// signer/writable flags the request declared at creation time (spec §4.6
// step 7); the daemon reads these back off the decoded Request, it never
// invents them.
func BuildRevealInstruction(programID solana.PublicKey, accs RevealAccounts, callbackAccounts []solana.AccountMeta, userContribution, providerContribution [32]byte) solana.Instruction {
	data := make([]byte, 0, 8+32+32)
	var opLE [8]byte
	binary.LittleEndian.PutUint64(opLE[:], opRevealWithCallback)
	data = append(data, opLE[:]...)
	data = append(data, userContribution[:]...)
	data = append(data, providerContribution[:]...)

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accs.Request, true, false),
		solana.NewAccountMeta(accs.Provider, true, false),
		solana.NewAccountMeta(accs.SlotHashes, false, false),
		solana.NewAccountMeta(accs.EntropySigner, false, false),
		solana.NewAccountMeta(accs.CallbackProgram, false, false),
		solana.NewAccountMeta(accs.SystemProgram, false, false),
		solana.NewAccountMeta(accs.Payer, true, false),
	}
	for _, m := range callbackAccounts {
		metas = append(metas, &m)
	}

	return solana.NewInstruction(programID, metas, data)
}
