package daemon

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"entropy.dev/node/account"
)

// PendingRequest is a Request account the scanner matched against this
// provider and has not yet seen a confirmed reveal for.
type PendingRequest struct {
	Address   account.Pubkey
	Request   account.Request
	RequestTx solana.Signature
}

// Scanner pages through an address's signature history looking for Request/
// RequestWithCallback instructions addressed to one provider authority,
// mirroring the spec's framing of the daemon as "scan program activity,
// match its own requests" (spec §1) rather than running a full indexer
// (spec §1 Non-goals: "off-chain indexer fan-out").
type Scanner struct {
	rpcClient  RPCClient
	programID  solana.PublicKey
	commitment rpc.CommitmentType
	pageSize   int

	// before is the newest signature the previous scan returned; the next
	// scan asks only for signatures newer than it. The zero value means no
	// lower bound: the most recent pageSize signatures.
	before solana.Signature
}

func NewScanner(client RPCClient, programID solana.PublicKey, commitment rpc.CommitmentType, pageSize int) *Scanner {
	return &Scanner{rpcClient: client, programID: programID, commitment: commitment, pageSize: pageSize}
}

// Scan fetches signatures for the program account newer than the last scan
// and returns them oldest-first, so callers process requests in the order
// they were created. It advances the scanner's cursor to the newest
// signature seen, so a subsequent Scan only returns new activity.
func (s *Scanner) Scan(ctx context.Context) ([]*rpc.TransactionSignature, error) {
	opts := &rpc.GetSignaturesForAddressOpts{
		Limit:      &s.pageSize,
		Commitment: s.commitment,
	}
	if s.before != (solana.Signature{}) {
		opts.Until = s.before
	}
	sigs, err := s.rpcClient.GetSignaturesForAddress(ctx, s.programID, opts)
	if err != nil {
		return nil, err
	}
	if len(sigs) == 0 {
		return nil, nil
	}
	s.before = sigs[0].Signature

	out := make([]*rpc.TransactionSignature, len(sigs))
	for i, sig := range sigs {
		out[len(sigs)-1-i] = sig
	}
	return out, nil
}

// MatchProvider reports whether a decoded Request belongs to the given
// provider authority and is revealable. Only RequestWithCallback requests
// qualify: plain Request leaves callback_status NOT_NECESSARY, and the only
// reveal path this program implements is RevealWithCallback — the
// non-callback Reveal opcode is reserved (spec §6 opcode 4), so a
// NOT_NECESSARY request can never be revealed and the daemon must not try.
func MatchProvider(req account.Request, providerAuthority account.Pubkey) bool {
	return req.Provider == providerAuthority && req.CallbackStatus == account.CallbackNotStarted
}
