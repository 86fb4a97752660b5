// Command entropy-request is an illustrative client (spec §6 CLI surface)
// that submits a RequestWithCallback through an example requester program's
// own top-level instruction — the requester program is specified only to
// the extent needed to define the CPI contract (spec §1), so this command
// exercises that contract rather than implementing a full requester.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"entropy.dev/node/account"
	"entropy.dev/node/requester"
	"entropy.dev/node/runtime"
)

type config struct {
	RPCURL             string
	KeypairPath        string
	EntropyProgramID   string
	RequesterProgramID string
	ProviderID         string
	ComputeUnitLimit   uint64
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config{
		RPCURL:           "http://localhost:8899",
		ComputeUnitLimit: 200_000,
	}

	fs := flag.NewFlagSet("entropy-request", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.RPCURL, "rpc-url", cfg.RPCURL, "Solana RPC endpoint")
	fs.StringVar(&cfg.KeypairPath, "keypair", "", "path to the payer's keypair file")
	fs.StringVar(&cfg.ProviderID, "provider-id", "", "provider authority pubkey")
	fs.StringVar(&cfg.EntropyProgramID, "entropy-program-id", "", "entropy program id")
	fs.StringVar(&cfg.RequesterProgramID, "requester-program-id", "", "example requester program id")
	fs.Uint64Var(&cfg.ComputeUnitLimit, "compute-unit-limit", cfg.ComputeUnitLimit, "callback compute unit budget")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	applyEnv(&cfg, os.Getenv)
	if err := validate(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	payer, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.KeypairPath)
	if err != nil {
		fmt.Fprintf(stderr, "load keypair: %v\n", err)
		return 2
	}
	entropyProgramID, err := solana.PublicKeyFromBase58(cfg.EntropyProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "invalid entropy-program-id: %v\n", err)
		return 2
	}
	requesterProgramID, err := solana.PublicKeyFromBase58(cfg.RequesterProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "invalid requester-program-id: %v\n", err)
		return 2
	}
	providerAuth, err := solana.PublicKeyFromBase58(cfg.ProviderID)
	if err != nil {
		fmt.Fprintf(stderr, "invalid provider-id: %v\n", err)
		return 2
	}

	provider, _, err := account.FindProviderPDA(entropyProgramID, providerAuth)
	if err != nil {
		fmt.Fprintf(stderr, "derive provider pda: %v\n", err)
		return 1
	}
	providerVault, _, err := account.FindProviderVaultPDA(entropyProgramID, providerAuth)
	if err != nil {
		fmt.Fprintf(stderr, "derive provider vault pda: %v\n", err)
		return 1
	}
	configPDA, _, err := account.FindConfigPDA(entropyProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "derive config pda: %v\n", err)
		return 1
	}
	pythFeeVault, _, err := account.FindPythFeeVaultPDA(entropyProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "derive pyth fee vault pda: %v\n", err)
		return 1
	}

	requestKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		fmt.Fprintf(stderr, "generate request keypair: %v\n", err)
		return 1
	}

	var userRandomness [32]byte
	if _, err := rand.Read(userRandomness[:]); err != nil {
		fmt.Fprintf(stderr, "generate user randomness: %v\n", err)
		return 1
	}

	accs := requester.SimpleRequesterAccounts{
		Payer:          payer.PublicKey(),
		Request:        requestKey.PublicKey(),
		Provider:       provider,
		ProviderVault:  providerVault,
		Config:         configPDA,
		PythFeeVault:   pythFeeVault,
		SystemProgram:  solana.SystemProgramID,
		EntropyProgram: entropyProgramID,
	}

	runtimeIx, err := requester.BuildSimpleRequesterInstruction(requesterProgramID, accs, userRandomness, uint32(cfg.ComputeUnitLimit), nil, nil)
	if err != nil {
		fmt.Fprintf(stderr, "build instruction: %v\n", err)
		return 1
	}
	ix := toSolanaInstruction(runtimeIx)

	client := rpc.New(cfg.RPCURL)
	ctx := context.Background()
	bh, err := client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		fmt.Fprintf(stderr, "get latest blockhash: %v\n", err)
		return 1
	}
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, bh.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		fmt.Fprintf(stderr, "build transaction: %v\n", err)
		return 1
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch key {
		case payer.PublicKey():
			return &payer
		case requestKey.PublicKey():
			return &requestKey
		default:
			return nil
		}
	}); err != nil {
		fmt.Fprintf(stderr, "sign transaction: %v\n", err)
		return 1
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{})
	if err != nil {
		fmt.Fprintf(stderr, "send transaction: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "submitted request: sig=%s request=%s\n", sig, requestKey.PublicKey())
	return 0
}

func applyEnv(cfg *config, getenv func(string) string) {
	if v := getenv("SOLANA_RPC_URL"); v != "" {
		cfg.RPCURL = v
	}
	if v := getenv("SOLANA_KEYPAIR"); v != "" {
		cfg.KeypairPath = v
	}
	if v := getenv("ENTROPY_PROGRAM_ID"); v != "" {
		cfg.EntropyProgramID = v
	}
	if v := getenv("SIMPLE_REQUESTER_PROGRAM_ID"); v != "" {
		cfg.RequesterProgramID = v
	}
}

func validate(cfg config) error {
	if cfg.KeypairPath == "" {
		return fmt.Errorf("keypair is required")
	}
	if cfg.EntropyProgramID == "" {
		return fmt.Errorf("entropy-program-id is required")
	}
	if cfg.RequesterProgramID == "" {
		return fmt.Errorf("requester-program-id is required")
	}
	if cfg.ProviderID == "" {
		return fmt.Errorf("provider-id is required")
	}
	return nil
}

// toSolanaInstruction adapts our host-chain-agnostic runtime.Instruction
// into the concrete solana-go instruction type this CLI needs to actually
// submit a transaction.
func toSolanaInstruction(ix runtime.Instruction) solana.Instruction {
	metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	for _, m := range ix.Accounts {
		metas = append(metas, solana.NewAccountMeta(m.Pubkey, m.IsWritable, m.IsSigner))
	}
	return solana.NewInstruction(ix.ProgramID, metas, ix.Data)
}
