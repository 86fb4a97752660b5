package program

import (
	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// Initialize creates the singleton config PDA and pyth fee vault (spec §4.2).
// Accounts in order: payer (signer, writable), config (writable),
// pyth_fee_vault (writable), system program.
func Initialize(env runtime.Environment, accs Accounts, programID account.Pubkey, keys []account.Pubkey, args InitializeArgs) error {
	if err := expectKeys(keys, 4); err != nil {
		return err
	}
	payerKey, configKey, vaultKey := keys[0], keys[1], keys[2]

	if args.Admin == account.ZeroKey || args.DefaultProvider == account.ZeroKey {
		return errs.New(errs.InvalidArgument, "initialize: admin and default_provider must be non-zero")
	}

	wantConfig, configBump, err := account.FindConfigPDA(programID)
	if err != nil {
		return err
	}
	if err := checkPDA(configKey, wantConfig); err != nil {
		return err
	}
	wantVault, _, err := account.FindPythFeeVaultPDA(programID)
	if err != nil {
		return err
	}
	if err := checkPDA(vaultKey, wantVault); err != nil {
		return err
	}

	payer, err := accs.Account(payerKey)
	if err != nil {
		return err
	}
	if !payer.IsSigner || !payer.IsWritable {
		return errs.New(errs.InvalidAccount, "initialize: payer must be a writable signer")
	}

	config, err := accs.Account(configKey)
	if err != nil {
		return err
	}
	if !config.SystemOwned() {
		return errs.New(errs.InvalidAccount, "initialize: config account must be system-owned with zero data")
	}

	vault, err := accs.Account(vaultKey)
	if err != nil {
		return err
	}

	seeds := runtime.SignerSeeds{account.SeedConfig, []byte{configBump}}
	if err := InitProgramOwnedPDA(env, payerKey, configKey, config.GetLamports(), account.ConfigLen, programID, seeds); err != nil {
		return err
	}
	if err := InitVault(env, payerKey, vaultKey, vault.GetLamports()); err != nil {
		return err
	}

	cfg := account.Config{
		Admin:           args.Admin,
		ProposedAdmin:   account.ZeroKey,
		PythFeeLamports: args.PythFeeLamports,
		DefaultProvider: args.DefaultProvider,
		Seed:            [32]byte{},
		Bump:            configBump,
	}
	encoded := account.EncodeConfig(cfg)
	config, err = accs.Account(configKey)
	if err != nil {
		return err
	}
	config.SetData(encoded)
	return nil
}
