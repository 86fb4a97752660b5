package daemon

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCClient is the narrow surface the daemon consumes, mirrored from the
// teacher's crypto.CryptoProvider abstraction pattern (narrow interface,
// swappable implementation) so the scheduling and matching logic — the
// daemon's actual value, per spec §5 — is unit-testable without a live
// validator.
type RPCClient interface {
	GetSignaturesForAddress(ctx context.Context, addr solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
	GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// liveRPCClient adapts *rpc.Client (solana-go) to RPCClient. Every method is
// a straight passthrough; the type exists so daemon logic is never written
// directly against *rpc.Client, keeping the interface the seam tests
// substitute a fake across.
type liveRPCClient struct {
	client *rpc.Client
}

func NewLiveRPCClient(rpcURL string) RPCClient {
	return &liveRPCClient{client: rpc.New(rpcURL)}
}

func (c *liveRPCClient) GetSignaturesForAddress(ctx context.Context, addr solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error) {
	if opts != nil {
		return c.client.GetSignaturesForAddressWithOpts(ctx, addr, opts)
	}
	return c.client.GetSignaturesForAddress(ctx, addr)
}

func (c *liveRPCClient) GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error) {
	return c.client.GetTransaction(ctx, sig, opts)
}

func (c *liveRPCClient) GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	return c.client.GetSlot(ctx, commitment)
}

func (c *liveRPCClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return c.client.GetLatestBlockhash(ctx, commitment)
}

func (c *liveRPCClient) GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return c.client.GetAccountInfo(ctx, addr)
}

func (c *liveRPCClient) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	return c.client.SendTransactionWithOpts(ctx, tx, opts)
}
