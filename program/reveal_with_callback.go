package program

import (
	"encoding/binary"

	"entropy.dev/node/account"
	"entropy.dev/node/errs"
	"entropy.dev/node/runtime"
)

// RevealWithCallback implements opcode 5 (spec §4.6). Accounts (fixed
// prefix): request (writable), provider (writable), slot_hashes sysvar,
// entropy_signer PDA, callback_program, system program, payer (writable),
// then exactly request.callback_accounts_len additional accounts matching
// the stored plan.
func RevealWithCallback(env runtime.Environment, accs Accounts, programID account.Pubkey, hp HashProvider, keys []account.Pubkey, args RevealArgs) error {
	if len(keys) < 7 {
		return errs.Newf(errs.InvalidAccount, "reveal_with_callback: expected at least 7 accounts, got %d", len(keys))
	}
	requestKey := keys[0]
	providerKey := keys[1]
	entropySignerKey := keys[3]
	callbackProgramKey := keys[4]
	payerKey := keys[6]
	remainingKeys := keys[7:]

	requestInfo, err := accs.Account(requestKey)
	if err != nil {
		return err
	}
	if !requestInfo.IsWritable {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: request must be writable")
	}
	req, err := TypedLoadRequest(requestInfo, programID)
	if err != nil {
		return err
	}
	if req.CallbackStatus != account.CallbackNotStarted {
		return errs.New(errs.InvalidRevealCall, "reveal_with_callback: request is not awaiting reveal")
	}

	wantProvider, _, err := account.FindProviderPDA(programID, req.Provider)
	if err != nil {
		return err
	}
	if err := checkPDA(providerKey, wantProvider); err != nil {
		return err
	}
	providerInfo, err := accs.Account(providerKey)
	if err != nil {
		return err
	}
	if !providerInfo.IsWritable {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: provider must be writable")
	}
	provider, err := TypedLoadProvider(providerInfo, programID)
	if err != nil {
		return err
	}

	providerCommitment := WalkChain(hp, args.ProviderContribution, req.NumHashes)
	userCommitment := hp.H(args.UserContribution[:])
	recomputed := H2(hp, userCommitment[:], providerCommitment[:])
	if recomputed != req.Commitment {
		return errs.New(errs.IncorrectRevelation, "reveal_with_callback: commitment mismatch")
	}

	var blockhash [32]byte
	if req.UseBlockhash {
		h, ok := env.SlotHash(req.RequestSlot)
		if !ok {
			return errs.New(errs.BlockhashUnavailable, "reveal_with_callback: slot hash not available")
		}
		blockhash = h
	}
	randomNumber := H3(hp, args.UserContribution[:], args.ProviderContribution[:], blockhash[:])

	if provider.CurrentCommitmentSequenceNumber < req.SequenceNumber {
		provider.CurrentCommitmentSequenceNumber = req.SequenceNumber
		provider.CurrentCommitment = args.ProviderContribution
	}

	if callbackProgramKey != req.RequesterProgramID {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: callback_program does not match request's requester_program_id")
	}

	wantSigner, signerBump, err := account.FindEntropySignerPDA(programID)
	if err != nil {
		return err
	}
	if err := checkPDA(entropySignerKey, wantSigner); err != nil {
		return err
	}

	if req.CallbackAccountsLen > account.MaxCallbackAccounts {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: stored callback_accounts_len exceeds max")
	}
	if uint32(len(remainingKeys)) != req.CallbackAccountsLen {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: callback account count does not match the stored plan")
	}
	declared := remainingKeys[:req.CallbackAccountsLen]

	callbackMetas := make([]runtime.AccountMeta, 0, req.CallbackAccountsLen)
	for i, key := range declared {
		expected := req.CallbackAccounts[i]
		if key != expected.Pubkey {
			return errs.New(errs.InvalidAccount, "reveal_with_callback: callback account pubkey mismatch")
		}
		info, err := accs.Account(key)
		if err != nil {
			return err
		}
		if info.IsSigner != expected.IsSigner || info.IsWritable != expected.IsWritable {
			return errs.New(errs.InvalidAccount, "reveal_with_callback: callback account signer/writable flags mismatch")
		}
		callbackMetas = append(callbackMetas, runtime.AccountMeta{Pubkey: key, IsSigner: info.IsSigner, IsWritable: info.IsWritable})
	}

	ixData := make([]byte, 0, int(req.CallbackIxDataLen)+8+32+32)
	ixData = append(ixData, req.CallbackIxData[:req.CallbackIxDataLen]...)
	var seqLE [8]byte
	binary.LittleEndian.PutUint64(seqLE[:], req.SequenceNumber)
	ixData = append(ixData, seqLE[:]...)
	ixData = append(ixData, req.Provider[:]...)
	ixData = append(ixData, randomNumber[:]...)

	ixAccounts := make([]runtime.AccountMeta, 0, len(callbackMetas)+1)
	ixAccounts = append(ixAccounts, runtime.AccountMeta{Pubkey: entropySignerKey, IsSigner: true, IsWritable: false})
	ixAccounts = append(ixAccounts, callbackMetas...)

	ix := runtime.Instruction{ProgramID: callbackProgramKey, Accounts: ixAccounts, Data: ixData}
	seeds := runtime.SignerSeeds{account.SeedEntropySigner, []byte{signerBump}}
	if err := env.Invoke(ix, seeds); err != nil {
		return err
	}

	payerInfo, err := accs.Account(payerKey)
	if err != nil {
		return err
	}
	if payerKey != req.Payer || !payerInfo.IsWritable {
		return errs.New(errs.InvalidAccount, "reveal_with_callback: payer does not match request.payer or is not writable")
	}

	providerInfo.SetData(account.EncodeProvider(provider))
	if err := env.CloseAccount(requestKey, payerKey); err != nil {
		return err
	}
	return nil
}
