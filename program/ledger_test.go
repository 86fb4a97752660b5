package program_test

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/ledger"
	"entropy.dev/node/program"
	"entropy.dev/node/runtime"
)

// rubric: these tests exercise program/ against ledger.Ledger end to end,
// the way the teacher repo's node/miner_test.go drives a full block-apply
// through a real (in-memory) store rather than mocking it away.

const fundedLamports = 10_000_000_000

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func randomKey(t *testing.T, seed byte) account.Pubkey {
	t.Helper()
	var k account.Pubkey
	for i := range k {
		k[i] = seed + byte(i*7+1)
	}
	return k
}

func fund(t *testing.T, l *ledger.Ledger, key account.Pubkey, lamports uint64) {
	t.Helper()
	l.SetAccount(key, runtime.SystemProgramID, lamports, nil)
}

func exec(t *testing.T, l *ledger.Ledger, programID account.Pubkey, metas []runtime.AccountMeta, data []byte) error {
	t.Helper()
	accs := ledger.NewInstructionAccounts(l, metas)
	keys := make([]account.Pubkey, len(metas))
	for i, m := range metas {
		keys[i] = m.Pubkey
	}
	err := program.Execute(l, accs, programID, program.Sha3HashProvider{}, keys, data)
	if err == nil {
		if cerr := l.Commit(); cerr != nil {
			t.Fatalf("commit: %v", cerr)
		}
	} else {
		l.Discard()
	}
	return err
}

func meta(key account.Pubkey, signer, writable bool) runtime.AccountMeta {
	return runtime.AccountMeta{Pubkey: key, IsSigner: signer, IsWritable: writable}
}

func encodeInitializeIx(admin, defaultProvider account.Pubkey, pythFee uint64) []byte {
	data := make([]byte, 0, 8+32+8+32)
	data = appendOpcode(data, program.OpInitialize)
	data = append(data, admin[:]...)
	data = appendU64(data, pythFee)
	data = append(data, defaultProvider[:]...)
	return data
}

func encodeRegisterProviderIx(feeLamports uint64, commitment [32]byte, chainLength uint64) []byte {
	data := make([]byte, 0, 8+8+32+2+64+6+8+2+256+6)
	data = appendOpcode(data, program.OpRegisterProvider)
	data = appendU64(data, feeLamports)
	data = append(data, commitment[:]...)
	data = appendU16(data, 0)
	data = append(data, make([]byte, 64)...)
	data = append(data, make([]byte, 6)...)
	data = appendU64(data, chainLength)
	data = appendU16(data, 0)
	data = append(data, make([]byte, 256)...)
	data = append(data, make([]byte, 6)...)
	return data
}

func encodeRequestIx(userCommitment [32]byte, useBlockhash uint8, computeUnitLimit uint32) []byte {
	data := make([]byte, 0, 8+32+1+3+4)
	data = appendOpcode(data, program.OpRequest)
	data = append(data, userCommitment[:]...)
	data = append(data, useBlockhash, 0, 0, 0)
	data = appendU32(data, computeUnitLimit)
	return data
}

func encodeRequestWithCallbackIx(userRandomness [32]byte, computeUnitLimit uint32, accounts []account.CallbackMeta, ixData []byte) []byte {
	data := make([]byte, 0, 8+32+4+4+len(accounts)*account.CallbackMetaLen+4+len(ixData))
	data = appendOpcode(data, program.OpRequestWithCallback)
	data = append(data, userRandomness[:]...)
	data = appendU32(data, computeUnitLimit)
	data = appendU32(data, uint32(len(accounts)))
	for _, m := range accounts {
		enc := account.EncodeCallbackMeta(m)
		data = append(data, enc[:]...)
	}
	data = appendU32(data, uint32(len(ixData)))
	data = append(data, ixData...)
	return data
}

func encodeRevealIx(userContribution, providerContribution [32]byte) []byte {
	data := make([]byte, 0, 8+32+32)
	data = appendOpcode(data, program.OpRevealWithCallback)
	data = append(data, userContribution[:]...)
	data = append(data, providerContribution[:]...)
	return data
}

func appendOpcode(b []byte, op program.Opcode) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(op))
	return append(b, tmp[:]...)
}

func appendU64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func codeOf(t *testing.T, err error) errs.ErrorCode {
	t.Helper()
	code, ok := errs.CodeOf(err)
	if !ok {
		t.Fatalf("expected *errs.ProtocolError, got %T: %v", err, err)
	}
	return code
}
