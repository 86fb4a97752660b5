package program

import (
	"encoding/binary"

	"entropy.dev/node/errs"
)

// Opcode is the 8-byte little-endian discriminator leading every
// instruction's data (spec §6).
type Opcode uint64

const (
	OpInitialize Opcode = 0
	OpRegisterProvider Opcode = 1
	OpRequest Opcode = 2
	OpRequestWithCallback Opcode = 3
	OpReveal Opcode = 4 // reserved: NotImplemented
	OpRevealWithCallback Opcode = 5
	// 6-9 reserved: NotImplemented.
)

func isReserved(op Opcode) bool {
	return op == OpReveal || (op >= 6 && op <= 9)
}

func isKnown(op Opcode) bool {
	switch op {
	case OpInitialize, OpRegisterProvider, OpRequest, OpRequestWithCallback, OpReveal, OpRevealWithCallback:
		return true
	}
	return isReserved(op)
}

// Operation is the decoded, closed sum type instructions dispatch on — no
// inheritance, tagged variants only (spec §9).
type Operation struct {
	Opcode                Opcode
	Initialize            *InitializeArgs
	RegisterProvider      *RegisterProviderArgs
	Request               *RequestArgs
	RequestWithCallback   *RequestWithCallbackArgs
	Reveal                *RevealArgs
}

// DecodeInstruction splits the 8-byte opcode from the payload and parses the
// payload according to that opcode. Reserved opcodes decode successfully
// (their processor returns NotImplemented) — a closed-but-unimplemented
// variant, not an absent one (SPEC_FULL.md "Reserved opcode handling").
func DecodeInstruction(data []byte) (Operation, error) {
	if len(data) < 8 {
		return Operation{}, errs.New(errs.InvalidInstruction, "instruction: truncated opcode")
	}
	op := Opcode(binary.LittleEndian.Uint64(data[0:8]))
	payload := data[8:]

	if !isKnown(op) {
		return Operation{}, errs.Newf(errs.InvalidInstruction, "instruction: unknown opcode %d", op)
	}
	if isReserved(op) && op != OpReveal {
		// Opcodes 6-9 carry no defined payload; anything arrives as opaque bytes.
		return Operation{Opcode: op}, nil
	}

	switch op {
	case OpInitialize:
		args, err := decodeInitializeArgs(payload)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Opcode: op, Initialize: &args}, nil
	case OpRegisterProvider:
		args, err := decodeRegisterProviderArgs(payload)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Opcode: op, RegisterProvider: &args}, nil
	case OpRequest:
		args, err := decodeRequestArgs(payload)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Opcode: op, Request: &args}, nil
	case OpRequestWithCallback:
		args, err := decodeRequestWithCallbackArgs(payload)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Opcode: op, RequestWithCallback: args}, nil
	case OpReveal, OpRevealWithCallback:
		args, err := decodeRevealArgs(payload)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Opcode: op, Reveal: &args}, nil
	}
	return Operation{}, errs.Newf(errs.InvalidInstruction, "instruction: unhandled opcode %d", op)
}
