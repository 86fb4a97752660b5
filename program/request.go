package program

import (
	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// requestCommon runs the part of Request and RequestWithCallback that is
// identical between them (spec §4.5 "Same as Request with these changes"):
// PDA checks, sequence assignment, fee transfer, and request account
// creation. plan configures the fields that differ.
type callbackPlan struct {
	status   account.CallbackStatus
	accounts []account.CallbackMeta
	ixData   []byte
}

func requestCommon(
	env runtime.Environment,
	accs Accounts,
	programID account.Pubkey,
	hp HashProvider,
	keys []account.Pubkey,
	userCommitment [32]byte,
	useBlockhash uint8,
	computeUnitLimit uint32,
	plan callbackPlan,
) error {
	if useBlockhash > 1 {
		return errs.New(errs.InvalidArgument, "request: use_blockhash must be 0 or 1")
	}
	if err := expectKeys(keys, 9); err != nil {
		return err
	}
	requesterSignerKey := keys[0]
	payerKey := keys[1]
	requesterProgramKey := keys[2]
	requestKey := keys[3]
	providerKey := keys[4]
	providerVaultKey := keys[5]
	configKey := keys[6]
	pythFeeVaultKey := keys[7]

	wantSigner, _, err := account.FindRequesterSignerPDA(requesterProgramKey, programID)
	if err != nil {
		return err
	}
	if err := checkPDA(requesterSignerKey, wantSigner); err != nil {
		return err
	}

	requesterSigner, err := accs.Account(requesterSignerKey)
	if err != nil {
		return err
	}
	payer, err := accs.Account(payerKey)
	if err != nil {
		return err
	}
	requestInfo, err := accs.Account(requestKey)
	if err != nil {
		return err
	}
	if !requesterSigner.IsSigner || !payer.IsSigner || !requestInfo.IsSigner {
		return errs.New(errs.InvalidAccount, "request: requester_signer, payer and request must all sign")
	}
	if !payer.IsWritable || !requestInfo.IsWritable {
		return errs.New(errs.InvalidAccount, "request: payer and request must be writable")
	}
	if !requestInfo.SystemOwned() {
		return errs.New(errs.InvalidAccount, "request: request account must be system-owned with zero data")
	}

	wantConfig, _, err := account.FindConfigPDA(programID)
	if err != nil {
		return err
	}
	if err := checkPDA(configKey, wantConfig); err != nil {
		return err
	}
	wantPythVault, _, err := account.FindPythFeeVaultPDA(programID)
	if err != nil {
		return err
	}
	if err := checkPDA(pythFeeVaultKey, wantPythVault); err != nil {
		return err
	}

	configInfo, err := accs.Account(configKey)
	if err != nil {
		return err
	}
	cfg, err := TypedLoadConfig(configInfo, programID)
	if err != nil {
		return err
	}

	providerInfo, err := accs.Account(providerKey)
	if err != nil {
		return err
	}
	if !providerInfo.IsWritable {
		return errs.New(errs.InvalidAccount, "request: provider must be writable")
	}
	provider, err := TypedLoadProvider(providerInfo, programID)
	if err != nil {
		return err
	}
	wantProvider, _, err := account.FindProviderPDA(programID, provider.ProviderAuthority)
	if err != nil {
		return err
	}
	if err := checkPDA(providerKey, wantProvider); err != nil {
		return err
	}

	wantProviderVault, _, err := account.FindProviderVaultPDA(programID, provider.ProviderAuthority)
	if err != nil {
		return err
	}
	if err := checkPDA(providerVaultKey, wantProviderVault); err != nil {
		return err
	}
	providerVaultInfo, err := accs.Account(providerVaultKey)
	if err != nil {
		return err
	}
	if !providerVaultInfo.SystemOwned() {
		return errs.New(errs.InvalidAccount, "request: provider_vault must be system-owned with zero data")
	}
	pythFeeVaultInfo, err := accs.Account(pythFeeVaultKey)
	if err != nil {
		return err
	}
	if !pythFeeVaultInfo.SystemOwned() {
		return errs.New(errs.InvalidAccount, "request: pyth_fee_vault must be system-owned with zero data")
	}

	seq := provider.SequenceNumber
	if seq >= provider.EndSequenceNumber {
		return errs.New(errs.OutOfRandomness, "request: provider sequence exhausted")
	}
	provider.SequenceNumber = seq + 1

	numHashes, ok := checkedSubU64(seq, provider.CurrentCommitmentSequenceNumber)
	if !ok {
		return errs.New(errs.InvalidArgument, "request: num_hashes underflow")
	}
	if provider.MaxNumHashes != 0 && numHashes > uint64(provider.MaxNumHashes) {
		return errs.New(errs.LastRevealedTooOld, "request: num_hashes exceeds provider max_num_hashes")
	}

	providerFee, err := CalculateProviderFee(provider.FeeLamports, provider.DefaultComputeUnitLimit, computeUnitLimit)
	if err != nil {
		return err
	}
	if providerFee > 0 {
		if err := env.Transfer(payerKey, providerVaultKey, providerFee); err != nil {
			return err
		}
	}
	if cfg.PythFeeLamports > 0 {
		if err := env.Transfer(payerKey, pythFeeVaultKey, cfg.PythFeeLamports); err != nil {
			return err
		}
	}

	if err := InitProgramOwnedPDA(env, payerKey, requestKey, requestInfo.GetLamports(), account.RequestLen, programID, nil); err != nil {
		return err
	}

	effectiveComputeUnitLimit := computeUnitLimit
	if effectiveComputeUnitLimit < provider.DefaultComputeUnitLimit {
		effectiveComputeUnitLimit = provider.DefaultComputeUnitLimit
	}

	req := account.Request{
		Provider:            provider.ProviderAuthority,
		SequenceNumber:      seq,
		NumHashes:           numHashes,
		Commitment:          H2(hp, userCommitment[:], provider.CurrentCommitment[:]),
		RequestSlot:         env.CurrentSlot(),
		RequesterProgramID:  requesterProgramKey,
		RequesterSigner:     requesterSignerKey,
		Payer:               payerKey,
		UseBlockhash:        useBlockhash == 1,
		CallbackStatus:      plan.status,
		ComputeUnitLimit:    effectiveComputeUnitLimit,
		CallbackProgramID:   requesterProgramKey,
		CallbackAccountsLen: uint32(len(plan.accounts)),
		CallbackIxDataLen:   uint32(len(plan.ixData)),
	}
	for i, m := range plan.accounts {
		req.CallbackAccounts[i] = m
	}
	copy(req.CallbackIxData[:], plan.ixData)

	providerInfo.SetData(account.EncodeProvider(provider))
	requestInfo, err = accs.Account(requestKey)
	if err != nil {
		return err
	}
	requestInfo.SetData(account.EncodeRequest(req))
	return nil
}

func checkedSubU64(a, b uint64) (uint64, bool) {
	if a < b {
		return 0, false
	}
	return a - b, true
}

// Request implements opcode 2 (spec §4.4).
func Request(env runtime.Environment, accs Accounts, programID account.Pubkey, hp HashProvider, keys []account.Pubkey, args RequestArgs) error {
	return requestCommon(env, accs, programID, hp, keys, args.UserCommitment, args.UseBlockhash, args.ComputeUnitLimit,
		callbackPlan{status: account.CallbackNotNecessary})
}

// RequestWithCallback implements opcode 3 (spec §4.5): same as Request but
// derives user_commitment = H(user_randomness) and stores a callback plan.
// The payload carries no use_blockhash field, so callback requests never mix
// in a slot hash at reveal time.
func RequestWithCallback(env runtime.Environment, accs Accounts, programID account.Pubkey, hp HashProvider, keys []account.Pubkey, args *RequestWithCallbackArgs) error {
	for _, m := range args.CallbackAccounts {
		if m.Pubkey == programID {
			return errs.New(errs.InvalidAccount, "request_with_callback: callback_accounts must not self-reference the entropy program")
		}
	}
	userCommitment := hp.H(args.UserRandomness[:])
	return requestCommon(env, accs, programID, hp, keys, userCommitment, 0, args.ComputeUnitLimit, callbackPlan{
		status:   account.CallbackNotStarted,
		accounts: args.CallbackAccounts,
		ixData:   args.CallbackIxData,
	})
}
