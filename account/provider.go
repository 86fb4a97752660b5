package account

import "encoding/binary"

const (
	MaxCommitmentMetadataLen = 64
	MaxURILen                = 256
)

// Provider is the PDA (seeds "provider" || authority) describing a
// registered randomness provider's hash chain and pricing (spec §3).
type Provider struct {
	ProviderAuthority Pubkey

	FeeLamports              uint64
	DefaultComputeUnitLimit  uint32
	MaxNumHashes             uint32

	OriginalCommitment               [32]byte
	OriginalCommitmentSequenceNumber uint64

	CurrentCommitment               [32]byte
	CurrentCommitmentSequenceNumber uint64

	SequenceNumber    uint64
	EndSequenceNumber uint64

	CommitmentMetadataLen uint16
	CommitmentMetadata    [MaxCommitmentMetadataLen]byte
	URILen                uint16
	URI                   [MaxURILen]byte

	FeeManager Pubkey
	Bump       uint8
}

// ProviderLen is the exact on-chain size of a Provider account.
const ProviderLen = 8 + 32 + 8 + 4 + 4 + 32 + 8 + 32 + 8 + 8 + 8 + 2 + MaxCommitmentMetadataLen + 2 + MaxURILen + 32 + 1

func EncodeProvider(p Provider) []byte {
	out := make([]byte, 0, ProviderLen)
	disc := DiscriminatorProvider.Bytes()
	out = append(out, disc[:]...)
	out = append(out, p.ProviderAuthority[:]...)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.LittleEndian.PutUint64(u8[:], p.FeeLamports)
	out = append(out, u8[:]...)
	binary.LittleEndian.PutUint32(u4[:], p.DefaultComputeUnitLimit)
	out = append(out, u4[:]...)
	binary.LittleEndian.PutUint32(u4[:], p.MaxNumHashes)
	out = append(out, u4[:]...)

	out = append(out, p.OriginalCommitment[:]...)
	binary.LittleEndian.PutUint64(u8[:], p.OriginalCommitmentSequenceNumber)
	out = append(out, u8[:]...)

	out = append(out, p.CurrentCommitment[:]...)
	binary.LittleEndian.PutUint64(u8[:], p.CurrentCommitmentSequenceNumber)
	out = append(out, u8[:]...)

	binary.LittleEndian.PutUint64(u8[:], p.SequenceNumber)
	out = append(out, u8[:]...)
	binary.LittleEndian.PutUint64(u8[:], p.EndSequenceNumber)
	out = append(out, u8[:]...)

	binary.LittleEndian.PutUint16(u2[:], p.CommitmentMetadataLen)
	out = append(out, u2[:]...)
	out = append(out, p.CommitmentMetadata[:]...)
	binary.LittleEndian.PutUint16(u2[:], p.URILen)
	out = append(out, u2[:]...)
	out = append(out, p.URI[:]...)

	out = append(out, p.FeeManager[:]...)
	out = append(out, p.Bump)
	return out
}

func DecodeProvider(b []byte) (Provider, error) {
	if len(b) != ProviderLen {
		return Provider{}, errLen("provider", ProviderLen, len(b))
	}
	disc, err := readDiscriminator(b)
	if err != nil {
		return Provider{}, err
	}
	if disc != DiscriminatorProvider {
		return Provider{}, errDiscMismatch("provider", DiscriminatorProvider, disc)
	}

	var p Provider
	off := 8
	copy(p.ProviderAuthority[:], b[off:off+32])
	off += 32

	p.FeeLamports = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	p.DefaultComputeUnitLimit = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	p.MaxNumHashes = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4

	copy(p.OriginalCommitment[:], b[off:off+32])
	off += 32
	p.OriginalCommitmentSequenceNumber = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8

	copy(p.CurrentCommitment[:], b[off:off+32])
	off += 32
	p.CurrentCommitmentSequenceNumber = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8

	p.SequenceNumber = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	p.EndSequenceNumber = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8

	p.CommitmentMetadataLen = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	copy(p.CommitmentMetadata[:], b[off:off+MaxCommitmentMetadataLen])
	off += MaxCommitmentMetadataLen
	p.URILen = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	copy(p.URI[:], b[off:off+MaxURILen])
	off += MaxURILen

	copy(p.FeeManager[:], b[off:off+32])
	off += 32
	p.Bump = b[off]

	return p, nil
}
