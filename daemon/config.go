// Package daemon implements the provider daemon (spec §4.7, §5, §6): chain
// pre-generation, scanning the entropy program for outstanding requests
// against this provider, and submitting RevealWithCallback with bounded
// retry. It is a single-threaded cooperative loop — no internal concurrency,
// mirroring the teacher's SyncEngine/Miner shape (node/sync.go, node/miner.go)
// more than any one file of it.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// Config is the provider daemon's full runtime configuration, mirrored from
// the teacher's node.Config: a typed struct, a DefaultConfig constructor,
// and a free ValidateConfig function, with env var overrides layered over
// flag defaults (spec §6).
type Config struct {
	RPCURL               string        `json:"rpc_url"`
	KeypairPath          string        `json:"keypair_path"`
	Commitment           string        `json:"commitment"`
	EntropyProgramID     string        `json:"entropy_program_id"`
	RequesterProgramID   string        `json:"requester_program_id,omitempty"`
	ScanInterval         time.Duration `json:"scan_interval"`
	RetryBaseDelay       time.Duration `json:"retry_base_delay"`
	RetryMaxDelay        time.Duration `json:"retry_max_delay"`
	RetryMaxAttempts     int           `json:"retry_max_attempts"`
	SignaturesPerScan    int           `json:"signatures_per_scan"`
}

func DefaultConfig() Config {
	return Config{
		RPCURL:            "http://localhost:8899",
		KeypairPath:        defaultKeypairPath(),
		Commitment:        "confirmed",
		ScanInterval:      2 * time.Second,
		RetryBaseDelay:    500 * time.Millisecond,
		RetryMaxDelay:     8 * time.Second,
		RetryMaxAttempts:  6,
		SignaturesPerScan: 200,
	}
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "~/.config/solana/id.json"
	}
	return home + "/.config/solana/id.json"
}

// ApplyEnv layers SOLANA_RPC_URL, SOLANA_KEYPAIR, ENTROPY_PROGRAM_ID and
// SIMPLE_REQUESTER_PROGRAM_ID over whatever flags already set (spec §6).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SOLANA_RPC_URL"); v != "" {
		c.RPCURL = v
	}
	if v := getenv("SOLANA_KEYPAIR"); v != "" {
		c.KeypairPath = v
	}
	if v := getenv("ENTROPY_PROGRAM_ID"); v != "" {
		c.EntropyProgramID = v
	}
	if v := getenv("SIMPLE_REQUESTER_PROGRAM_ID"); v != "" {
		c.RequesterProgramID = v
	}
}

var allowedCommitments = map[string]rpc.CommitmentType{
	"processed": rpc.CommitmentProcessed,
	"confirmed": rpc.CommitmentConfirmed,
	"finalized": rpc.CommitmentFinalized,
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return errors.New("rpc_url is required")
	}
	if strings.TrimSpace(cfg.KeypairPath) == "" {
		return errors.New("keypair_path is required")
	}
	if _, ok := allowedCommitments[strings.ToLower(strings.TrimSpace(cfg.Commitment))]; !ok {
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if strings.TrimSpace(cfg.EntropyProgramID) == "" {
		return errors.New("entropy_program_id is required")
	}
	if cfg.ScanInterval <= 0 {
		return errors.New("scan_interval must be > 0")
	}
	if cfg.RetryBaseDelay <= 0 || cfg.RetryMaxDelay <= 0 || cfg.RetryBaseDelay > cfg.RetryMaxDelay {
		return errors.New("retry_base_delay must be > 0 and <= retry_max_delay")
	}
	if cfg.RetryMaxAttempts <= 0 {
		return errors.New("retry_max_attempts must be > 0")
	}
	if cfg.SignaturesPerScan <= 0 {
		return errors.New("signatures_per_scan must be > 0")
	}
	return nil
}

// CommitmentType resolves the validated commitment string to solana-go's type.
func (c Config) CommitmentType() rpc.CommitmentType {
	return allowedCommitments[strings.ToLower(strings.TrimSpace(c.Commitment))]
}
