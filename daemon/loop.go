package daemon

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"entropy.dev/node/account"
	"entropy.dev/node/program"
)

// Clock abstracts time.Sleep so tests can drive the loop without waiting on
// the wall clock, grounded on the teacher's pattern of injecting a nowUnix
// function var at the cmd layer (cmd/rubin-node/main.go).
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock is the production Clock.
var RealClock Clock = realClock{}

// Signer authenticates and submits reveal transactions. Narrow on purpose,
// mirroring RPCClient's "swappable abstraction" pattern, so tests can stub
// it without a real keypair or validator.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
}

type keypairSigner struct {
	key solana.PrivateKey
}

// NewKeypairSigner wraps a loaded solana-go private key.
func NewKeypairSigner(key solana.PrivateKey) Signer {
	return keypairSigner{key: key}
}

func (s keypairSigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s keypairSigner) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key == s.key.PublicKey() {
			return &s.key
		}
		return nil
	})
	return err
}

// Loop is the single-threaded cooperative provider daemon (spec §5): no
// internal concurrency, the only waits are RPC calls and a fixed sleep
// between scans, cancellation is a context checked once per iteration.
type Loop struct {
	cfg              Config
	client           RPCClient
	signer           Signer
	hashProvider     program.HashProvider
	entropyProgramID solana.PublicKey
	providerAuth     solana.PublicKey
	chain            *ProviderChain
	scanner          *Scanner
	clock            Clock
	out              io.Writer
}

// NewLoop wires a Loop from its dependencies. providerChain must already be
// built from the provider's registered seed (NewProviderChain); this
// package never reads a seed from disk.
func NewLoop(cfg Config, client RPCClient, signer Signer, hp program.HashProvider, entropyProgramID, providerAuthority solana.PublicKey, chain *ProviderChain, out io.Writer) *Loop {
	return &Loop{
		cfg:              cfg,
		client:           client,
		signer:           signer,
		hashProvider:     hp,
		entropyProgramID: entropyProgramID,
		providerAuth:     providerAuthority,
		chain:            chain,
		scanner:          NewScanner(client, entropyProgramID, cfg.CommitmentType(), cfg.SignaturesPerScan),
		clock:            RealClock,
		out:              out,
	}
}

// Run scans for and reveals outstanding requests until ctx is cancelled,
// sleeping cfg.ScanInterval between scans (spec §5 backpressure). It
// returns nil on clean cancellation.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := l.scanOnce(ctx); err != nil {
			fmt.Fprintf(l.out, "scan error: %v\n", err)
		}
		if err := l.clock.Sleep(ctx, l.cfg.ScanInterval); err != nil {
			return nil
		}
	}
}

func (l *Loop) scanOnce(ctx context.Context) error {
	sigs, err := l.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan signatures: %w", err)
	}
	for _, sigInfo := range sigs {
		if sigInfo.Err != nil {
			continue
		}
		txResult, err := l.client.GetTransaction(ctx, sigInfo.Signature, &rpc.GetTransactionOpts{
			Commitment: l.cfg.CommitmentType(),
		})
		if err != nil {
			fmt.Fprintf(l.out, "fetch tx %s: %v\n", sigInfo.Signature, err)
			continue
		}
		sightings, err := FindRequests(txResult, l.entropyProgramID)
		if err != nil {
			fmt.Fprintf(l.out, "parse tx %s: %v\n", sigInfo.Signature, err)
			continue
		}
		for _, sighting := range sightings {
			if err := l.tryReveal(ctx, sighting); err != nil {
				fmt.Fprintf(l.out, "reveal %s: %v\n", sighting.RequestAddr, err)
			}
		}
	}
	return nil
}

func (l *Loop) tryReveal(ctx context.Context, sighting RequestSighting) error {
	requestAddr := sighting.RequestAddr
	info, err := l.client.GetAccountInfo(ctx, requestAddr)
	if err != nil {
		return fmt.Errorf("get account info: %w", err)
	}
	if info == nil || info.Value == nil {
		// Already closed by a prior reveal, or not yet confirmed.
		return nil
	}
	req, err := account.DecodeRequest(info.Value.Data.GetBinary())
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if !MatchProvider(req, l.providerAuth) {
		return nil
	}

	contribution, err := l.chain.ContributionFor(req.SequenceNumber)
	if err != nil {
		return fmt.Errorf("contribution for sequence=%d: %w", req.SequenceNumber, err)
	}

	providerAddr, _, err := account.FindProviderPDA(l.entropyProgramID, l.providerAuth)
	if err != nil {
		return err
	}
	entropySigner, _, err := account.FindEntropySignerPDA(l.entropyProgramID)
	if err != nil {
		return err
	}

	callbackMetas := make([]solana.AccountMeta, 0, req.CallbackAccountsLen)
	for i := uint32(0); i < req.CallbackAccountsLen; i++ {
		m := req.CallbackAccounts[i]
		callbackMetas = append(callbackMetas, solana.AccountMeta{
			PublicKey:  m.Pubkey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}

	ix := BuildRevealInstruction(l.entropyProgramID, RevealAccounts{
		Request:         requestAddr,
		Provider:        providerAddr,
		SlotHashes:      SlotHashesSysvarID,
		EntropySigner:   entropySigner,
		CallbackProgram: req.CallbackProgramID,
		SystemProgram:   SystemProgramID,
		Payer:           req.Payer,
	}, callbackMetas, sighting.UserRandomness, contribution)

	return l.submitWithBackoff(ctx, ix, req.SequenceNumber)
}

// SlotHashesSysvarID and SystemProgramID are the well-known addresses a
// live validator reserves for the SlotHashes sysvar and the system program.
var (
	SlotHashesSysvarID = solana.MustPublicKeyFromBase58("SysvarS1otHashes111111111111111111111111111")
	SystemProgramID    = solana.SystemProgramID
)

func (l *Loop) submitWithBackoff(ctx context.Context, ix solana.Instruction, sequence uint64) error {
	delays := backoffDelays(l.cfg.RetryBaseDelay, l.cfg.RetryMaxDelay, l.cfg.RetryMaxAttempts)
	var lastErr error
	for attempt := range delays {
		if attempt > 0 {
			if err := l.clock.Sleep(ctx, delays[attempt-1]); err != nil {
				return err
			}
		}
		bh, err := l.client.GetLatestBlockhash(ctx, l.cfg.CommitmentType())
		if err != nil {
			lastErr = err
			continue
		}
		tx, err := solana.NewTransaction([]solana.Instruction{ix}, bh.Value.Blockhash, solana.TransactionPayer(l.signer.PublicKey()))
		if err != nil {
			return fmt.Errorf("build transaction: %w", err)
		}
		if err := l.signer.SignTransaction(tx); err != nil {
			return fmt.Errorf("sign transaction: %w", err)
		}
		sig, err := l.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{SkipPreflight: false})
		if err != nil {
			lastErr = err
			continue
		}
		fmt.Fprintf(l.out, "revealed sequence=%d sig=%s\n", sequence, sig)
		l.chain.Advance(sequence)
		return nil
	}
	return fmt.Errorf("reveal failed after %d attempts: %w", len(delays), lastErr)
}
