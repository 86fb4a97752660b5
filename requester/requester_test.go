package requester

import (
	"bytes"
	"testing"

	"entropy.dev/node/account"
)

func key(b byte) (k account.Pubkey) {
	for i := range k {
		k[i] = b
	}
	return k
}

func testAccounts() RequestAccounts {
	return RequestAccounts{
		RequesterSigner:  key(1),
		Payer:            key(2),
		RequesterProgram: key(3),
		Request:          key(4),
		Provider:         key(5),
		ProviderVault:    key(6),
		Config:           key(7),
		PythFeeVault:     key(8),
		SystemProgram:    key(9),
	}
}

func TestBuildRequest_EncodesFieldsInOrder(t *testing.T) {
	entropyProgramID := key(0xaa)
	var commitment [32]byte
	commitment[0] = 0x11

	ix := BuildRequest(entropyProgramID, testAccounts(), commitment, 1, 200_000)

	if ix.ProgramID != entropyProgramID {
		t.Fatalf("ProgramID = %x, want %x", ix.ProgramID, entropyProgramID)
	}
	if len(ix.Accounts) != 9 {
		t.Fatalf("len(Accounts) = %d, want 9", len(ix.Accounts))
	}
	if ix.Accounts[0].Pubkey != testAccounts().RequesterSigner || !ix.Accounts[0].IsSigner || ix.Accounts[0].IsWritable {
		t.Fatalf("account[0] (requester_signer) meta wrong: %+v", ix.Accounts[0])
	}
	if ix.Accounts[3].Pubkey != testAccounts().Request || !ix.Accounts[3].IsSigner || !ix.Accounts[3].IsWritable {
		t.Fatalf("account[3] (request) meta wrong: %+v", ix.Accounts[3])
	}

	wantLen := 8 + 32 + 1 + 3 + 4
	if len(ix.Data) != wantLen {
		t.Fatalf("len(Data) = %d, want %d", len(ix.Data), wantLen)
	}
	if ix.Data[0] != byte(opRequest) {
		t.Fatalf("opcode byte = %d, want %d", ix.Data[0], opRequest)
	}
	if !bytes.Equal(ix.Data[8:40], commitment[:]) {
		t.Fatalf("user_commitment mismatch")
	}
	if ix.Data[40] != 1 {
		t.Fatalf("use_blockhash = %d, want 1", ix.Data[40])
	}
}

func TestBuildRequestWithCallback_AppendsCallbackProgramAccount(t *testing.T) {
	entropyProgramID := key(0xaa)
	callbackProgram := key(0xbb)
	var userRandomness [32]byte
	userRandomness[0] = 0x01
	cbAccounts := []account.CallbackMeta{{Pubkey: key(0xcc), IsSigner: false, IsWritable: true}}

	ix, err := BuildRequestWithCallback(entropyProgramID, callbackProgram, testAccounts(), userRandomness, 300_000, cbAccounts, []byte{9, 9, 9})
	if err != nil {
		t.Fatalf("BuildRequestWithCallback: %v", err)
	}
	if len(ix.Accounts) != 10 {
		t.Fatalf("len(Accounts) = %d, want 10 (9 fixed + callback_program)", len(ix.Accounts))
	}
	last := ix.Accounts[9]
	if last.Pubkey != callbackProgram || last.IsSigner || last.IsWritable {
		t.Fatalf("trailing callback_program meta wrong: %+v", last)
	}
}

func TestBuildRequestWithCallback_RejectsOversizedCallbackAccounts(t *testing.T) {
	accs := testAccounts()
	cbAccounts := make([]account.CallbackMeta, account.MaxCallbackAccounts+1)
	_, err := BuildRequestWithCallback(key(0xaa), key(0xbb), accs, [32]byte{}, 0, cbAccounts, nil)
	if err == nil {
		t.Fatal("expected error for callback_accounts exceeding max")
	}
}

func TestBuildRequestWithCallback_RejectsOversizedIxData(t *testing.T) {
	accs := testAccounts()
	_, err := BuildRequestWithCallback(key(0xaa), key(0xbb), accs, [32]byte{}, 0, nil, make([]byte, account.MaxCallbackIxData+1))
	if err == nil {
		t.Fatal("expected error for callback_ix_data exceeding max")
	}
}

func TestCallbackPayload_EncodeRoundTrip(t *testing.T) {
	entropyProgramID := key(0x42)
	prefix := CallbackPayload{EntropyProgramID: entropyProgramID}.Encode()

	var seqBytes [8]byte
	seqBytes[0] = 7
	data := append(append([]byte(nil), prefix...), seqBytes[:]...)
	data = append(data, key(0x55)[:]...)
	var random [32]byte
	random[0] = 0x77
	data = append(data, random[:]...)

	gotPrefix, suffix, err := DecodeCallback(data)
	if err != nil {
		t.Fatalf("DecodeCallback: %v", err)
	}
	if !bytes.Equal(gotPrefix, prefix) {
		t.Fatalf("prefix mismatch: got %x want %x", gotPrefix, prefix)
	}
	if suffix.SequenceNumber != 7 {
		t.Fatalf("SequenceNumber = %d, want 7", suffix.SequenceNumber)
	}
	if suffix.Provider != key(0x55) {
		t.Fatalf("Provider mismatch")
	}
	if suffix.RandomNumber != random {
		t.Fatalf("RandomNumber mismatch")
	}
}

func TestDecodeCallback_TooShortRejected(t *testing.T) {
	_, _, err := DecodeCallback(make([]byte, callbackSuffixLen-1))
	if err == nil {
		t.Fatal("expected error for data shorter than the fixed callback suffix")
	}
}

func TestDecodeCallback_EmptyPrefixAllowed(t *testing.T) {
	data := make([]byte, callbackSuffixLen)
	prefix, _, err := DecodeCallback(data)
	if err != nil {
		t.Fatalf("DecodeCallback: %v", err)
	}
	if len(prefix) != 0 {
		t.Fatalf("len(prefix) = %d, want 0", len(prefix))
	}
}

func TestBuildSimpleRequesterInstruction_AccountOrderAndOpcode(t *testing.T) {
	accs := SimpleRequesterAccounts{
		Payer: key(1), Request: key(2), Provider: key(3), ProviderVault: key(4),
		Config: key(5), PythFeeVault: key(6), SystemProgram: key(7), EntropyProgram: key(8),
	}
	ix, err := BuildSimpleRequesterInstruction(key(0x99), accs, [32]byte{}, 100_000, nil, nil)
	if err != nil {
		t.Fatalf("BuildSimpleRequesterInstruction: %v", err)
	}
	if ix.Data[0] != opSimpleRequestRandomnessWithCallback {
		t.Fatalf("opcode byte = %d, want %d", ix.Data[0], opSimpleRequestRandomnessWithCallback)
	}
	if len(ix.Accounts) != 8 {
		t.Fatalf("len(Accounts) = %d, want 8", len(ix.Accounts))
	}
	if ix.Accounts[7].Pubkey != accs.EntropyProgram {
		t.Fatalf("account[7] should be entropy_program")
	}
}

func TestBuildSimpleRequesterInstruction_RejectsOversizedCallbackAccounts(t *testing.T) {
	accs := SimpleRequesterAccounts{}
	cbAccounts := make([]account.CallbackMeta, account.MaxCallbackAccounts+1)
	_, err := BuildSimpleRequesterInstruction(key(0x99), accs, [32]byte{}, 0, cbAccounts, nil)
	if err == nil {
		t.Fatal("expected error for callback_accounts exceeding max")
	}
}
