package account

import "entropy.dev/node/errs"

const (
	// MaxCallbackAccounts bounds Request.CallbackAccounts and the
	// RequestWithCallback payload's n_accounts field (spec §8 boundary).
	MaxCallbackAccounts = 16
	// MaxCallbackIxData bounds Request.CallbackIxData and the
	// RequestWithCallback payload's ix_data field.
	MaxCallbackIxData = 256
	// CallbackMetaLen is the wire size of one CallbackMeta: pubkey(32) ||
	// is_signer(1) || is_writable(1).
	CallbackMetaLen = 34
)

// CallbackMeta describes one account in a stored reveal-time CPI plan.
type CallbackMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

func EncodeCallbackMeta(m CallbackMeta) [CallbackMetaLen]byte {
	var out [CallbackMetaLen]byte
	copy(out[0:32], m.Pubkey[:])
	if m.IsSigner {
		out[32] = 1
	}
	if m.IsWritable {
		out[33] = 1
	}
	return out
}

func DecodeCallbackMeta(b []byte) (CallbackMeta, error) {
	if len(b) != CallbackMetaLen {
		return CallbackMeta{}, errLen("callback_meta", CallbackMetaLen, len(b))
	}
	if b[32] > 1 || b[33] > 1 {
		return CallbackMeta{}, errs.New(errs.InvalidArgument, "callback_meta: is_signer/is_writable must be 0 or 1")
	}
	var m CallbackMeta
	copy(m.Pubkey[:], b[0:32])
	m.IsSigner = b[32] == 1
	m.IsWritable = b[33] == 1
	return m, nil
}

// CallbackStatus tracks reveal-time CPI progress on a Request.
type CallbackStatus uint8

const (
	CallbackNotNecessary CallbackStatus = 0
	CallbackNotStarted   CallbackStatus = 1
	CallbackInProgress   CallbackStatus = 2
)
