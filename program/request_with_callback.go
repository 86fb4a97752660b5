package program

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
)

// RequestWithCallbackArgs is the variable-length argument payload for
// opcode 3, grounded on the original program's
// parse_request_with_callback_args: a fixed header, followed by n_accounts
// CallbackMeta entries, followed by a length-prefixed ix_data blob. Unlike
// the other opcodes' arg blobs this one carries no padding — every byte is
// significant and no trailing bytes are tolerated.
//
// Decoding does not reject a self-referencing callback account (a
// CallbackMeta.Pubkey equal to the entropy program's own id) because the
// decoder has no notion of "this program" — that check belongs to the
// RequestWithCallback processor, which knows its own program id from the
// invocation context (spec §4.3 edge case).
type RequestWithCallbackArgs struct {
	UserRandomness   [32]byte
	ComputeUnitLimit uint32
	CallbackAccounts []account.CallbackMeta
	CallbackIxData   []byte
}

const requestWithCallbackHeaderLen = 32 + 4 + 4 // user_randomness, compute_unit_limit, n_accounts

func decodeRequestWithCallbackArgs(b []byte) (*RequestWithCallbackArgs, error) {
	if len(b) < requestWithCallbackHeaderLen {
		return nil, errs.Newf(errs.InvalidInstruction,
			"RequestWithCallbackArgs: truncated header, need %d bytes, got %d", requestWithCallbackHeaderLen, len(b))
	}
	var a RequestWithCallbackArgs
	off := 0
	copy(a.UserRandomness[:], b[off:off+32])
	off += 32
	a.ComputeUnitLimit = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	nAccounts := binary.LittleEndian.Uint32(b[off : off+4])
	off += 4

	if nAccounts > account.MaxCallbackAccounts {
		return nil, errs.Newf(errs.InvalidArgument,
			"RequestWithCallbackArgs: n_accounts %d exceeds max %d", nAccounts, account.MaxCallbackAccounts)
	}

	metaBytes := int(nAccounts) * account.CallbackMetaLen
	if len(b) < off+metaBytes+4 {
		return nil, errs.New(errs.InvalidInstruction, "RequestWithCallbackArgs: truncated callback_accounts or ix_data_len")
	}
	a.CallbackAccounts = make([]account.CallbackMeta, 0, nAccounts)
	for i := uint32(0); i < nAccounts; i++ {
		m, err := account.DecodeCallbackMeta(b[off : off+account.CallbackMetaLen])
		if err != nil {
			return nil, err
		}
		a.CallbackAccounts = append(a.CallbackAccounts, m)
		off += account.CallbackMetaLen
	}

	ixDataLen := binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	if ixDataLen > account.MaxCallbackIxData {
		return nil, errs.Newf(errs.InvalidArgument,
			"RequestWithCallbackArgs: ix_data_len %d exceeds max %d", ixDataLen, account.MaxCallbackIxData)
	}
	if len(b) < off+int(ixDataLen) {
		return nil, errs.New(errs.InvalidInstruction, "RequestWithCallbackArgs: truncated ix_data")
	}
	a.CallbackIxData = append([]byte(nil), b[off:off+int(ixDataLen)]...)
	off += int(ixDataLen)

	if off != len(b) {
		return nil, errs.Newf(errs.InvalidInstruction,
			"RequestWithCallbackArgs: %d trailing bytes after ix_data", len(b)-off)
	}
	return &a, nil
}
