package daemon

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"entropy.dev/node/errs"
	"entropy.dev/node/program"
)

// requestAccountIndex is the position of the `request` account in the fixed
// RequestWithCallback account order (spec §4.4/§4.5): requester_signer,
// payer, requester_program, request, ...
const requestAccountIndex = 3

// RequestSighting is everything the scanner can learn about a
// RequestWithCallback call purely from its own transaction, before the
// Request account itself has even been fetched. UserRandomness is the
// user's reveal-time preimage, carried in plaintext in the original
// instruction data (only its hash, user_commitment, is persisted on-chain)
// — spec §4.5's "user supplies the preimage directly so reveal can verify
// without an extra round trip" means the daemon recovers it by re-reading
// the request transaction, not via a side channel.
type RequestSighting struct {
	RequestAddr    solana.PublicKey
	UserRandomness [32]byte
}

// FindRequests scans a confirmed transaction's instructions for any call
// into programID and returns a RequestSighting for every RequestWithCallback
// it finds. This is the daemon's only window into chain activity (spec §1:
// "scans program activity"), not a general-purpose instruction decoder —
// other opcodes addressed to programID are ignored, since only
// RequestWithCallback produces something the daemon can later reveal.
func FindRequests(tx *rpc.GetTransactionResult, programID solana.PublicKey) ([]RequestSighting, error) {
	if tx == nil || tx.Transaction == nil {
		return nil, nil
	}
	decoded, err := tx.Transaction.GetTransaction()
	if err != nil {
		return nil, errs.Newf(errs.InvalidAccount, "daemon: decode transaction: %v", err)
	}
	if decoded == nil {
		return nil, nil
	}
	keys := decoded.Message.AccountKeys

	var found []RequestSighting
	for _, ix := range decoded.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(keys) || keys[ix.ProgramIDIndex] != programID {
			continue
		}
		op, err := program.DecodeInstruction(ix.Data)
		if err != nil || op.Opcode != program.OpRequestWithCallback {
			continue
		}
		if len(ix.Accounts) <= requestAccountIndex {
			continue
		}
		idx := ix.Accounts[requestAccountIndex]
		if int(idx) >= len(keys) {
			continue
		}
		found = append(found, RequestSighting{
			RequestAddr:    keys[idx],
			UserRandomness: op.RequestWithCallback.UserRandomness,
		})
	}
	return found, nil
}
