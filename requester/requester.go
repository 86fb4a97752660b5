// Package requester implements the CPI contract a program must satisfy to
// call into the entropy program: deriving its requester_signer PDA,
// building the Request/RequestWithCallback CPI, and decoding the callback
// suffix its own instruction handler receives in return. It is not a
// runnable program — just the shared logic any requester (including
// cmd/entropy-request's illustrative CLI flow) is built from, grounded on
// the original simple-requester example (spec §1 scopes this to "the CPI
// contract only").
package requester

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// FindSigner derives the PDA a requester program must sign Request/
// RequestWithCallback CPIs with (spec §6): seeds ["requester_signer",
// entropyProgramID] under requesterProgramID.
func FindSigner(requesterProgramID, entropyProgramID account.Pubkey) (account.Pubkey, uint8, error) {
	return account.FindRequesterSignerPDA(requesterProgramID, entropyProgramID)
}

// RequestAccounts is the fixed account list, in order, that a Request or
// RequestWithCallback CPI needs (spec §4.4 account order).
type RequestAccounts struct {
	RequesterSigner account.Pubkey
	Payer           account.Pubkey
	RequesterProgram account.Pubkey
	Request         account.Pubkey
	Provider        account.Pubkey
	ProviderVault   account.Pubkey
	Config          account.Pubkey
	PythFeeVault    account.Pubkey
	SystemProgram   account.Pubkey
}

func (a RequestAccounts) metas() []runtime.AccountMeta {
	return []runtime.AccountMeta{
		{Pubkey: a.RequesterSigner, IsSigner: true, IsWritable: false},
		{Pubkey: a.Payer, IsSigner: true, IsWritable: true},
		{Pubkey: a.RequesterProgram, IsSigner: false, IsWritable: false},
		{Pubkey: a.Request, IsSigner: true, IsWritable: true},
		{Pubkey: a.Provider, IsSigner: false, IsWritable: true},
		{Pubkey: a.ProviderVault, IsSigner: false, IsWritable: true},
		{Pubkey: a.Config, IsSigner: false, IsWritable: false},
		{Pubkey: a.PythFeeVault, IsSigner: false, IsWritable: true},
		{Pubkey: a.SystemProgram, IsSigner: false, IsWritable: false},
	}
}

const (
	opRequest             uint64 = 2
	opRequestWithCallback uint64 = 3
)

// BuildRequest constructs the Request CPI instruction (opcode 2).
func BuildRequest(entropyProgramID account.Pubkey, accs RequestAccounts, userCommitment [32]byte, useBlockhash uint8, computeUnitLimit uint32) runtime.Instruction {
	data := make([]byte, 0, 8+32+1+3+4)
	data = appendU64LE(data, opRequest)
	data = append(data, userCommitment[:]...)
	data = append(data, useBlockhash, 0, 0, 0)
	data = appendU32LE(data, computeUnitLimit)
	return runtime.Instruction{ProgramID: entropyProgramID, Accounts: accs.metas(), Data: data}
}

// BuildRequestWithCallback constructs the RequestWithCallback CPI
// instruction (opcode 3), appending callback_program as the final account
// (readonly) the way simple-requester's process_request_with_callback does.
func BuildRequestWithCallback(entropyProgramID, callbackProgram account.Pubkey, accs RequestAccounts, userRandomness [32]byte, computeUnitLimit uint32, callbackAccounts []account.CallbackMeta, callbackIxData []byte) (runtime.Instruction, error) {
	if len(callbackAccounts) > account.MaxCallbackAccounts {
		return runtime.Instruction{}, errs.Newf(errs.InvalidArgument, "requester: callback_accounts_len %d exceeds max %d", len(callbackAccounts), account.MaxCallbackAccounts)
	}
	if len(callbackIxData) > account.MaxCallbackIxData {
		return runtime.Instruction{}, errs.Newf(errs.InvalidArgument, "requester: callback_ix_data_len %d exceeds max %d", len(callbackIxData), account.MaxCallbackIxData)
	}

	data := make([]byte, 0, 8+32+4+4+len(callbackAccounts)*account.CallbackMetaLen+4+len(callbackIxData))
	data = appendU64LE(data, opRequestWithCallback)
	data = append(data, userRandomness[:]...)
	data = appendU32LE(data, computeUnitLimit)
	data = appendU32LE(data, uint32(len(callbackAccounts)))
	for _, m := range callbackAccounts {
		enc := account.EncodeCallbackMeta(m)
		data = append(data, enc[:]...)
	}
	data = appendU32LE(data, uint32(len(callbackIxData)))
	data = append(data, callbackIxData...)

	metas := append(accs.metas(), runtime.AccountMeta{Pubkey: callbackProgram, IsSigner: false, IsWritable: false})
	return runtime.Instruction{ProgramID: entropyProgramID, Accounts: metas, Data: data}, nil
}

// CallbackPayload carries an entropy program id prefix (so the callback
// handler can derive entropy_signer for itself) ahead of the standard
// sequence_number/provider/random_number suffix — the shape simple-requester
// stores as its callback_ix_data and every deployed requester reuses.
type CallbackPayload struct {
	EntropyProgramID account.Pubkey
}

// Encode returns the callback_ix_data to store on the Request at
// RequestWithCallback time.
func (p CallbackPayload) Encode() []byte {
	return append([]byte(nil), p.EntropyProgramID[:]...)
}

// CallbackSuffix is the fixed tail every callback invocation carries,
// appended by RevealWithCallback after the requester's own prefix (spec §6
// "Callback ABI").
type CallbackSuffix struct {
	SequenceNumber uint64
	Provider       account.Pubkey
	RandomNumber   [32]byte
}

const callbackSuffixLen = 8 + 32 + 32

// DecodeCallback splits a received callback instruction's data into the
// requester's own prefix and the fixed entropy suffix.
func DecodeCallback(data []byte) (prefix []byte, suffix CallbackSuffix, err error) {
	if len(data) < callbackSuffixLen {
		return nil, CallbackSuffix{}, errs.Newf(errs.InvalidInstruction, "requester: callback data too short, need at least %d bytes, got %d", callbackSuffixLen, len(data))
	}
	split := len(data) - callbackSuffixLen
	prefix = data[:split]
	tail := data[split:]
	suffix.SequenceNumber = binary.LittleEndian.Uint64(tail[0:8])
	copy(suffix.Provider[:], tail[8:40])
	copy(suffix.RandomNumber[:], tail[40:72])
	return prefix, suffix, nil
}

// SimpleRequesterAccounts is the account list an example requester
// program's own top-level instruction expects, mirroring RequestAccounts
// but without requester_signer or requester_program (the requester program
// derives and signs for its own requester_signer PDA internally, and knows
// its own program id) and with the entropy program id appended so the
// requester program knows which program to CPI into. This is illustrative —
// the requester program itself is out of scope (spec §1) — but it is the
// one shape cmd/entropy-request needs to submit a top-level transaction,
// since requester_signer is a PDA with no private key and cannot sign
// outside a program context.
type SimpleRequesterAccounts struct {
	Payer         account.Pubkey
	Request       account.Pubkey
	Provider      account.Pubkey
	ProviderVault account.Pubkey
	Config        account.Pubkey
	PythFeeVault  account.Pubkey
	SystemProgram account.Pubkey
	EntropyProgram account.Pubkey
}

func (a SimpleRequesterAccounts) metas() []runtime.AccountMeta {
	return []runtime.AccountMeta{
		{Pubkey: a.Payer, IsSigner: true, IsWritable: true},
		{Pubkey: a.Request, IsSigner: true, IsWritable: true},
		{Pubkey: a.Provider, IsSigner: false, IsWritable: true},
		{Pubkey: a.ProviderVault, IsSigner: false, IsWritable: true},
		{Pubkey: a.Config, IsSigner: false, IsWritable: false},
		{Pubkey: a.PythFeeVault, IsSigner: false, IsWritable: true},
		{Pubkey: a.SystemProgram, IsSigner: false, IsWritable: false},
		{Pubkey: a.EntropyProgram, IsSigner: false, IsWritable: false},
	}
}

const opSimpleRequestRandomnessWithCallback uint8 = 0

// BuildSimpleRequesterInstruction builds the outer transaction instruction
// a client submits against the example requester program. The requester
// program is expected to derive its own requester_signer PDA, sign the
// nested Request/RequestWithCallback CPI with it (invoke_signed), and
// forward callbackAccounts/callbackIxData unchanged into the stored
// callback plan.
func BuildSimpleRequesterInstruction(requesterProgramID account.Pubkey, accs SimpleRequesterAccounts, userRandomness [32]byte, computeUnitLimit uint32, callbackAccounts []account.CallbackMeta, callbackIxData []byte) (runtime.Instruction, error) {
	if len(callbackAccounts) > account.MaxCallbackAccounts {
		return runtime.Instruction{}, errs.Newf(errs.InvalidArgument, "requester: callback_accounts_len %d exceeds max %d", len(callbackAccounts), account.MaxCallbackAccounts)
	}
	if len(callbackIxData) > account.MaxCallbackIxData {
		return runtime.Instruction{}, errs.Newf(errs.InvalidArgument, "requester: callback_ix_data_len %d exceeds max %d", len(callbackIxData), account.MaxCallbackIxData)
	}

	data := make([]byte, 0, 1+32+4+4+len(callbackAccounts)*account.CallbackMetaLen+4+len(callbackIxData))
	data = append(data, opSimpleRequestRandomnessWithCallback)
	data = append(data, userRandomness[:]...)
	data = appendU32LE(data, computeUnitLimit)
	data = appendU32LE(data, uint32(len(callbackAccounts)))
	for _, m := range callbackAccounts {
		enc := account.EncodeCallbackMeta(m)
		data = append(data, enc[:]...)
	}
	data = appendU32LE(data, uint32(len(callbackIxData)))
	data = append(data, callbackIxData...)

	return runtime.Instruction{ProgramID: requesterProgramID, Accounts: accs.metas(), Data: data}, nil
}

func appendU64LE(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU32LE(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
