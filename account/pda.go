package account

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Seed prefixes, all under the entropy program id unless noted (spec §6).
var (
	SeedConfig         = []byte("config")
	SeedPythFeeVault   = []byte("pyth_fee_vault")
	SeedEntropySigner  = []byte("entropy_signer")
	SeedProvider       = []byte("provider")
	SeedProviderVault  = []byte("provider_vault")
	SeedRequesterSigner = []byte("requester_signer")
	SeedRequest        = []byte("request")
)

// FindConfigPDA derives the singleton Config PDA.
func FindConfigPDA(programID Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedConfig}, programID)
}

// FindPythFeeVaultPDA derives the singleton protocol fee vault PDA.
func FindPythFeeVaultPDA(programID Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedPythFeeVault}, programID)
}

// FindEntropySignerPDA derives the signer the program uses to authenticate
// its own CPI into a callback program.
func FindEntropySignerPDA(programID Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedEntropySigner}, programID)
}

// FindProviderPDA derives a provider's account PDA.
func FindProviderPDA(programID Pubkey, authority Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedProvider, authority[:]}, programID)
}

// FindProviderVaultPDA derives a provider's fee vault PDA.
func FindProviderVaultPDA(programID Pubkey, authority Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedProviderVault, authority[:]}, programID)
}

// FindRequesterSignerPDA derives the PDA a requester program must sign with
// on CPI into Request/RequestWithCallback — the sole gate on who may request
// (spec §6). Seeds are ["requester_signer", entropyProgramID], derived under
// the requester program's own id.
func FindRequesterSignerPDA(requesterProgramID, entropyProgramID Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedRequesterSigner, entropyProgramID[:]}, requesterProgramID)
}

// FindRequestPDA derives the reserved per-sequence request PDA. The current
// implementation uses ephemeral signer accounts instead (spec §6), but this
// helper is kept so a future implementation can switch without inventing the
// seed scheme from scratch.
func FindRequestPDA(programID Pubkey, authority Pubkey, sequence uint64) (Pubkey, uint8, error) {
	var seqLE [8]byte
	binary.LittleEndian.PutUint64(seqLE[:], sequence)
	return solana.FindProgramAddress([][]byte{SeedRequest, authority[:], seqLE[:]}, programID)
}
