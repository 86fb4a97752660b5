package program

import (
	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// RegisterProvider creates or re-registers a provider's hash chain (spec
// §4.3). Accounts: provider_authority (signer, writable), provider
// (writable), provider_vault (writable), system program.
func RegisterProvider(env runtime.Environment, accs Accounts, programID account.Pubkey, keys []account.Pubkey, args RegisterProviderArgs) error {
	if err := expectKeys(keys, 4); err != nil {
		return err
	}
	authorityKey, providerKey, vaultKey := keys[0], keys[1], keys[2]

	if args.ChainLength == 0 {
		return errs.New(errs.InvalidArgument, "register_provider: chain_length must be non-zero")
	}
	if args.CommitmentMetadataLen > account.MaxCommitmentMetadataLen {
		return errs.Newf(errs.InvalidArgument, "register_provider: commitment_metadata_len %d exceeds max %d", args.CommitmentMetadataLen, account.MaxCommitmentMetadataLen)
	}
	if args.URILen > account.MaxURILen {
		return errs.Newf(errs.InvalidArgument, "register_provider: uri_len %d exceeds max %d", args.URILen, account.MaxURILen)
	}

	wantProvider, providerBump, err := account.FindProviderPDA(programID, authorityKey)
	if err != nil {
		return err
	}
	if err := checkPDA(providerKey, wantProvider); err != nil {
		return err
	}
	wantVault, _, err := account.FindProviderVaultPDA(programID, authorityKey)
	if err != nil {
		return err
	}
	if err := checkPDA(vaultKey, wantVault); err != nil {
		return err
	}

	authority, err := accs.Account(authorityKey)
	if err != nil {
		return err
	}
	if !authority.IsSigner || !authority.IsWritable {
		return errs.New(errs.InvalidAccount, "register_provider: provider_authority must be a writable signer")
	}

	providerInfo, err := accs.Account(providerKey)
	if err != nil {
		return err
	}

	var p account.Provider
	firstRegistration := providerInfo.SystemOwned()
	if firstRegistration {
		seeds := runtime.SignerSeeds{account.SeedProvider, authorityKey[:], []byte{providerBump}}
		if err := InitProgramOwnedPDA(env, authorityKey, providerKey, providerInfo.GetLamports(), account.ProviderLen, programID, seeds); err != nil {
			return err
		}
		providerInfo, err = accs.Account(providerKey)
		if err != nil {
			return err
		}
		p = account.Provider{ProviderAuthority: authorityKey, SequenceNumber: 0, Bump: providerBump}
	} else {
		p, err = TypedLoadProvider(providerInfo, programID)
		if err != nil {
			return err
		}
		if p.ProviderAuthority != authorityKey {
			return errs.New(errs.InvalidAccount, "register_provider: provider_authority does not match stored authority")
		}
	}

	vaultInfo, err := accs.Account(vaultKey)
	if err != nil {
		return err
	}
	if err := InitVault(env, authorityKey, vaultKey, vaultInfo.GetLamports()); err != nil {
		return err
	}

	p.FeeLamports = args.FeeLamports
	p.MaxNumHashes = 0
	p.CommitmentMetadataLen = args.CommitmentMetadataLen
	p.CommitmentMetadata = args.CommitmentMetadata
	p.URILen = args.URILen
	p.URI = args.URI

	seq := p.SequenceNumber
	end, ok := checkedAddU64(seq, args.ChainLength)
	if !ok {
		return errs.New(errs.InvalidArgument, "register_provider: end_sequence_number overflow")
	}
	p.EndSequenceNumber = end
	p.OriginalCommitment = args.Commitment
	p.OriginalCommitmentSequenceNumber = seq
	p.CurrentCommitment = args.Commitment
	p.CurrentCommitmentSequenceNumber = seq
	p.SequenceNumber = seq + 1

	providerInfo.SetData(account.EncodeProvider(p))
	return nil
}

func checkedAddU64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
