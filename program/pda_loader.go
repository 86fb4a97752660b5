package program

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

func checkAccountShape(info *runtime.AccountInfo, programID account.Pubkey, wantLen int, wantDisc account.Discriminator) error {
	if info.Owner != programID {
		return errs.Newf(errs.InvalidAccount, "account %s: not owned by this program", info.Key)
	}
	data := info.GetData()
	if len(data) != wantLen {
		return errs.Newf(errs.InvalidAccount, "account %s: expected %d bytes, got %d", info.Key, wantLen, len(data))
	}
	if len(data) < 8 || account.Discriminator(binary.LittleEndian.Uint64(data[0:8])) != wantDisc {
		return errs.Newf(errs.InvalidAccount, "account %s: discriminator mismatch", info.Key)
	}
	return nil
}

// TypedLoadConfig checks ownership, length and discriminator and decodes a
// Config account — the Go analog of the original program's load_account
// generic over bytemuck::Pod types (pda_loader.rs).
func TypedLoadConfig(info *runtime.AccountInfo, programID account.Pubkey) (account.Config, error) {
	if err := checkAccountShape(info, programID, account.ConfigLen, account.DiscriminatorConfig); err != nil {
		return account.Config{}, err
	}
	return account.DecodeConfig(info.GetData())
}

func TypedLoadProvider(info *runtime.AccountInfo, programID account.Pubkey) (account.Provider, error) {
	if err := checkAccountShape(info, programID, account.ProviderLen, account.DiscriminatorProvider); err != nil {
		return account.Provider{}, err
	}
	return account.DecodeProvider(info.GetData())
}

func TypedLoadRequest(info *runtime.AccountInfo, programID account.Pubkey) (account.Request, error) {
	if err := checkAccountShape(info, programID, account.RequestLen, account.DiscriminatorRequest); err != nil {
		return account.Request{}, err
	}
	return account.DecodeRequest(info.GetData())
}

// InitProgramOwnedPDA brings a not-yet-created PDA into existence as a
// fixed-size, program-owned account, grounded on pda_loader.rs's
// init_pda_mut: if the account has zero lamports it is created outright via
// Environment.CreateAccount; if it was prefunded (lamports > 0 but still
// system-owned, e.g. a request PDA a user sent rent to ahead of time) it is
// topped up, resized and assigned instead. Both paths are idempotent given
// the same seeds and are the only way program/ ever brings a PDA to life.
func InitProgramOwnedPDA(env runtime.Environment, payer, target account.Pubkey, currentLamports uint64, space int, owner account.Pubkey, seeds runtime.SignerSeeds) error {
	required := env.RentExemptMinimum(space)
	if currentLamports == 0 {
		return env.CreateAccount(payer, target, required, uint64(space), owner, seeds)
	}
	return env.TopUpAndAssign(payer, target, required, uint64(space), owner, seeds)
}

// InitVault funds a zero-data, system-owned vault PDA (pyth_fee_vault,
// provider vault) up to rent exemption without assigning it to this
// program — vaults intentionally stay system-owned so lamports can be
// withdrawn by a direct Transfer rather than a CPI (vault.rs: init_vault_pda
// never calls assign).
func InitVault(env runtime.Environment, payer, vault account.Pubkey, currentLamports uint64) error {
	required := env.RentExemptMinimum(0)
	if currentLamports >= required {
		return nil
	}
	return env.Transfer(payer, vault, required-currentLamports)
}
