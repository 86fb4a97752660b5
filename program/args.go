package program

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
)

// InitializeArgs is the fixed-size argument blob for opcode 0 (spec §6).
type InitializeArgs struct {
	Admin           account.Pubkey
	PythFeeLamports uint64
	DefaultProvider account.Pubkey
}

const initializeArgsLen = 32 + 8 + 32

func decodeInitializeArgs(b []byte) (InitializeArgs, error) {
	if len(b) != initializeArgsLen {
		return InitializeArgs{}, argLenErr("InitializeArgs", initializeArgsLen, len(b))
	}
	var a InitializeArgs
	copy(a.Admin[:], b[0:32])
	a.PythFeeLamports = binary.LittleEndian.Uint64(b[32:40])
	copy(a.DefaultProvider[:], b[40:72])
	return a, nil
}

// RegisterProviderArgs is the fixed-size argument blob for opcode 1.
type RegisterProviderArgs struct {
	FeeLamports           uint64
	Commitment            [32]byte
	CommitmentMetadataLen uint16
	CommitmentMetadata    [account.MaxCommitmentMetadataLen]byte
	ChainLength           uint64
	URILen                uint16
	URI                   [account.MaxURILen]byte
}

const registerProviderArgsLen = 8 + 32 + 2 + account.MaxCommitmentMetadataLen + 6 + 8 + 2 + account.MaxURILen + 6

func decodeRegisterProviderArgs(b []byte) (RegisterProviderArgs, error) {
	if len(b) != registerProviderArgsLen {
		return RegisterProviderArgs{}, argLenErr("RegisterProviderArgs", registerProviderArgsLen, len(b))
	}
	var a RegisterProviderArgs
	off := 0
	a.FeeLamports = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	copy(a.Commitment[:], b[off:off+32])
	off += 32
	a.CommitmentMetadataLen = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	copy(a.CommitmentMetadata[:], b[off:off+account.MaxCommitmentMetadataLen])
	off += account.MaxCommitmentMetadataLen
	off += 6 // _pad
	a.ChainLength = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	a.URILen = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	copy(a.URI[:], b[off:off+account.MaxURILen])
	off += account.MaxURILen
	off += 6 // _pad
	return a, nil
}

// RequestArgs is the fixed-size argument blob for opcode 2.
type RequestArgs struct {
	UserCommitment   [32]byte
	UseBlockhash     uint8
	ComputeUnitLimit uint32
}

const requestArgsLen = 32 + 1 + 3 + 4

func decodeRequestArgs(b []byte) (RequestArgs, error) {
	if len(b) != requestArgsLen {
		return RequestArgs{}, argLenErr("RequestArgs", requestArgsLen, len(b))
	}
	var a RequestArgs
	copy(a.UserCommitment[:], b[0:32])
	a.UseBlockhash = b[32]
	a.ComputeUnitLimit = binary.LittleEndian.Uint32(b[36:40])
	return a, nil
}

// RevealArgs is the fixed-size argument blob for opcode 5 (and the reserved
// opcode 4).
type RevealArgs struct {
	UserContribution     [32]byte
	ProviderContribution [32]byte
}

const revealArgsLen = 32 + 32

func decodeRevealArgs(b []byte) (RevealArgs, error) {
	if len(b) != revealArgsLen {
		return RevealArgs{}, argLenErr("RevealArgs", revealArgsLen, len(b))
	}
	var a RevealArgs
	copy(a.UserContribution[:], b[0:32])
	copy(a.ProviderContribution[:], b[32:64])
	return a, nil
}

func argLenErr(what string, want, got int) error {
	return errs.Newf(errs.InvalidInstruction, "%s: expected %d bytes, got %d", what, want, got)
}
