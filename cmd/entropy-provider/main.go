// Command entropy-provider runs the provider daemon's `provide` loop (spec
// §6 CLI surface): it pre-generates a provider's hash chain from a local
// seed, scans the entropy program for outstanding RequestWithCallback calls
// addressed to this provider, and submits RevealWithCallback transactions
// as they're found. Flag parsing and startup plumbing mirror
// cmd/rubin-node/main.go in the teacher repo: a run(args, stdout, stderr)
// entrypoint, a --dry-run flag, and signal-driven graceful shutdown.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"

	"entropy.dev/node/daemon"
	"entropy.dev/node/program"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := daemon.DefaultConfig()
	cfg := defaults

	fs := flag.NewFlagSet("entropy-provider", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.RPCURL, "rpc-url", defaults.RPCURL, "Solana RPC endpoint")
	fs.StringVar(&cfg.KeypairPath, "keypair", defaults.KeypairPath, "path to the provider's keypair file")
	fs.StringVar(&cfg.Commitment, "commitment", defaults.Commitment, "commitment level: processed|confirmed|finalized")
	fs.StringVar(&cfg.EntropyProgramID, "entropy-program-id", defaults.EntropyProgramID, "entropy program id")
	seedHex := fs.String("seed-hex", "", "hex-encoded 32-byte chain seed (required unless --dry-run)")
	chainLength := fs.Uint64("chain-length", 0, "chain length registered at RegisterProvider time (required unless --dry-run)")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.ApplyEnv(os.Getenv)
	if err := daemon.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	if err := printConfig(stdout, cfg); err != nil {
		fmt.Fprintf(stderr, "config encode failed: %v\n", err)
		return 1
	}
	if *dryRun {
		return 0
	}

	if *chainLength == 0 {
		fmt.Fprintln(stderr, "--chain-length is required")
		return 2
	}
	seed, err := decodeSeed(*seedHex)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --seed-hex: %v\n", err)
		return 2
	}

	key, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.KeypairPath)
	if err != nil {
		fmt.Fprintf(stderr, "load keypair: %v\n", err)
		return 2
	}
	entropyProgramID, err := solana.PublicKeyFromBase58(cfg.EntropyProgramID)
	if err != nil {
		fmt.Fprintf(stderr, "invalid entropy-program-id: %v\n", err)
		return 2
	}

	hp := program.Sha3HashProvider{}
	chain, err := daemon.NewProviderChain(hp, seed, *chainLength)
	if err != nil {
		fmt.Fprintf(stderr, "build provider chain: %v\n", err)
		return 2
	}

	client := daemon.NewLiveRPCClient(cfg.RPCURL)
	signer := daemon.NewKeypairSigner(key)
	loop := daemon.NewLoop(cfg, client, signer, hp, entropyProgramID, key.PublicKey(), chain, stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(stdout, "entropy-provider: running")
	if err := loop.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "provider loop failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "entropy-provider: stopped")
	return 0
}

func decodeSeed(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func printConfig(w io.Writer, cfg daemon.Config) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
