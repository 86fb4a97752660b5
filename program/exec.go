package program

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// Accounts is the minimal account-lookup contract every processor needs: a
// way to resolve a pubkey named in the instruction's account list into the
// mutable view the processor reads and writes. ledger.InstructionAccounts
// satisfies this; a live validator host would adapt its own account slice to it.
type Accounts interface {
	Account(key account.Pubkey) (*runtime.AccountInfo, error)
}

// Execute dispatches a raw instruction to the matching processor. programID
// is the entropy program's own address — needed both to check account
// ownership and to derive this program's own PDAs.
func Execute(env runtime.Environment, accs Accounts, programID account.Pubkey, hp HashProvider, keys []account.Pubkey, data []byte) error {
	// Reserved opcodes fail with NotImplemented whatever payload they carry.
	if len(data) >= 8 {
		if raw := Opcode(binary.LittleEndian.Uint64(data[0:8])); isReserved(raw) {
			return errs.Newf(errs.NotImplemented, "instruction: opcode %d is reserved", raw)
		}
	}

	op, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch op.Opcode {
	case OpInitialize:
		return Initialize(env, accs, programID, keys, *op.Initialize)
	case OpRegisterProvider:
		return RegisterProvider(env, accs, programID, keys, *op.RegisterProvider)
	case OpRequest:
		return Request(env, accs, programID, hp, keys, *op.Request)
	case OpRequestWithCallback:
		return RequestWithCallback(env, accs, programID, hp, keys, *op.RequestWithCallback)
	case OpRevealWithCallback:
		return RevealWithCallback(env, accs, programID, hp, keys, *op.Reveal)
	}
	return errs.Newf(errs.InvalidInstruction, "instruction: unhandled opcode %d", op.Opcode)
}

func expectKeys(keys []account.Pubkey, n int) error {
	if len(keys) != n {
		return errs.Newf(errs.InvalidAccount, "instruction: expected %d accounts, got %d", n, len(keys))
	}
	return nil
}

func checkPDA(got account.Pubkey, want account.Pubkey) error {
	if got != want {
		return errs.New(errs.InvalidPda, "instruction: account does not match expected PDA")
	}
	return nil
}
