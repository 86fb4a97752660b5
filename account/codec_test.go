package account

import (
	"testing"

	"entropy.dev/node/errs"
	"github.com/gagliardetto/solana-go"
)

func randKey(seed byte) Pubkey {
	var k Pubkey
	for i := range k {
		k[i] = seed + byte(i)
	}
	return k
}

func TestConfig_RoundTrip(t *testing.T) {
	c := Config{
		Admin:           randKey(1),
		ProposedAdmin:   ZeroKey,
		PythFeeLamports: 321,
		DefaultProvider: randKey(2),
		Bump:            255,
	}
	c.Seed[0] = 0x07

	b := EncodeConfig(c)
	if len(b) != ConfigLen {
		t.Fatalf("encoded len = %d, want %d", len(b), ConfigLen)
	}
	got, err := DecodeConfig(b)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if got != c {
		t.Fatalf("roundtrip mismatch: got=%+v want=%+v", got, c)
	}

	if _, err := DecodeConfig(b[:10]); err == nil {
		t.Fatalf("expected length error")
	}

	bad := append([]byte(nil), b...)
	bad[0] ^= 0xff
	if _, err := DecodeConfig(bad); err == nil {
		t.Fatalf("expected discriminator mismatch error")
	} else if code, ok := errs.CodeOf(err); !ok || code != errs.InvalidAccount {
		t.Fatalf("expected InvalidAccount code, got %v", err)
	}
}

func TestProvider_RoundTrip(t *testing.T) {
	p := Provider{
		ProviderAuthority:                randKey(3),
		FeeLamports:                      1000,
		DefaultComputeUnitLimit:          200_000,
		MaxNumHashes:                     10,
		OriginalCommitmentSequenceNumber: 0,
		SequenceNumber:                   1,
		EndSequenceNumber:                3,
		CommitmentMetadataLen:            4,
		URILen:                           3,
		FeeManager:                       ZeroKey,
		Bump:                             254,
	}
	p.OriginalCommitment[0] = 0xaa
	p.CurrentCommitment[0] = 0xaa
	copy(p.CommitmentMetadata[:], []byte{1, 2, 3, 4})
	copy(p.URI[:], []byte("abc"))

	b := EncodeProvider(p)
	if len(b) != ProviderLen {
		t.Fatalf("encoded len = %d, want %d", len(b), ProviderLen)
	}
	got, err := DecodeProvider(b)
	if err != nil {
		t.Fatalf("DecodeProvider: %v", err)
	}
	if got != p {
		t.Fatalf("roundtrip mismatch: got=%+v want=%+v", got, p)
	}
}

func TestRequest_RoundTrip(t *testing.T) {
	r := Request{
		Provider:            randKey(4),
		SequenceNumber:      5,
		NumHashes:           2,
		RequestSlot:         1000,
		RequesterProgramID:  randKey(5),
		RequesterSigner:     randKey(6),
		Payer:               randKey(7),
		UseBlockhash:        true,
		CallbackStatus:      CallbackNotStarted,
		ComputeUnitLimit:    200_000,
		CallbackProgramID:   randKey(8),
		CallbackAccountsLen: 2,
		CallbackIxDataLen:   3,
		Bump:                1,
	}
	r.Commitment[0] = 0x11
	r.CallbackAccounts[0] = CallbackMeta{Pubkey: randKey(9), IsSigner: true, IsWritable: false}
	r.CallbackAccounts[1] = CallbackMeta{Pubkey: randKey(10), IsSigner: false, IsWritable: true}
	copy(r.CallbackIxData[:], []byte{9, 8, 7})

	b := EncodeRequest(r)
	if len(b) != RequestLen {
		t.Fatalf("encoded len = %d, want %d", len(b), RequestLen)
	}
	got, err := DecodeRequest(b)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if got != r {
		t.Fatalf("roundtrip mismatch: got=%+v want=%+v", got, r)
	}

	if _, err := DecodeRequest(b[:RequestLen-1]); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestCallbackMeta_RejectsNonBooleanFlags(t *testing.T) {
	var raw [CallbackMetaLen]byte
	raw[32] = 2
	if _, err := DecodeCallbackMeta(raw[:]); err == nil {
		t.Fatalf("expected error for non-boolean is_signer")
	}
}

func TestPDADerivation_IsDeterministic(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	a1, bump1, err := FindConfigPDA(programID)
	if err != nil {
		t.Fatalf("FindConfigPDA: %v", err)
	}
	a2, bump2, err := FindConfigPDA(programID)
	if err != nil {
		t.Fatalf("FindConfigPDA: %v", err)
	}
	if a1 != a2 || bump1 != bump2 {
		t.Fatalf("FindConfigPDA not deterministic")
	}
}
