package daemon

import "testing"

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EntropyProgramID = "11111111111111111111111111111111111111111"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig(DefaultConfig()): %v", err)
	}
}

func TestApplyEnv_OverridesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	env := map[string]string{
		"SOLANA_RPC_URL":              "https://example.invalid",
		"SOLANA_KEYPAIR":              "/tmp/id.json",
		"ENTROPY_PROGRAM_ID":          "22222222222222222222222222222222222222222",
		"SIMPLE_REQUESTER_PROGRAM_ID": "33333333333333333333333333333333333333333",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.RPCURL != env["SOLANA_RPC_URL"] {
		t.Fatalf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.KeypairPath != env["SOLANA_KEYPAIR"] {
		t.Fatalf("KeypairPath = %q", cfg.KeypairPath)
	}
	if cfg.EntropyProgramID != env["ENTROPY_PROGRAM_ID"] {
		t.Fatalf("EntropyProgramID = %q", cfg.EntropyProgramID)
	}
	if cfg.RequesterProgramID != env["SIMPLE_REQUESTER_PROGRAM_ID"] {
		t.Fatalf("RequesterProgramID = %q", cfg.RequesterProgramID)
	}
}

func TestApplyEnv_LeavesUnsetVarsAlone(t *testing.T) {
	cfg := DefaultConfig()
	want := cfg
	cfg.ApplyEnv(func(string) string { return "" })
	if cfg != want {
		t.Fatalf("ApplyEnv with no env vars changed config: got=%+v want=%+v", cfg, want)
	}
}

func TestValidateConfig_RejectsMissingFields(t *testing.T) {
	base := DefaultConfig()
	base.EntropyProgramID = "11111111111111111111111111111111111111111"

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty rpc_url", func(c *Config) { c.RPCURL = "" }},
		{"empty keypair_path", func(c *Config) { c.KeypairPath = "" }},
		{"bad commitment", func(c *Config) { c.Commitment = "nonsense" }},
		{"empty entropy_program_id", func(c *Config) { c.EntropyProgramID = "" }},
		{"zero scan_interval", func(c *Config) { c.ScanInterval = 0 }},
		{"base delay exceeds max delay", func(c *Config) { c.RetryBaseDelay = c.RetryMaxDelay * 2 }},
		{"zero retry_max_attempts", func(c *Config) { c.RetryMaxAttempts = 0 }},
		{"zero signatures_per_scan", func(c *Config) { c.SignaturesPerScan = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := ValidateConfig(cfg); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestConfig_CommitmentType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Commitment = "finalized"
	if got := cfg.CommitmentType(); got != allowedCommitments["finalized"] {
		t.Fatalf("CommitmentType() = %v, want %v", got, allowedCommitments["finalized"])
	}
}
