package account

import "encoding/binary"

// Request is the PDA-or-ephemeral program-owned account created at
// Request/RequestWithCallback and destroyed at RevealWithCallback (spec §3).
type Request struct {
	Provider       Pubkey
	SequenceNumber uint64
	NumHashes      uint64
	Commitment     [32]byte
	RequestSlot    uint64

	RequesterProgramID Pubkey
	RequesterSigner    Pubkey
	Payer              Pubkey

	UseBlockhash bool

	CallbackStatus    CallbackStatus
	ComputeUnitLimit  uint32
	CallbackProgramID Pubkey

	CallbackAccountsLen uint32
	CallbackAccounts    [MaxCallbackAccounts]CallbackMeta

	CallbackIxDataLen uint32
	CallbackIxData    [MaxCallbackIxData]byte

	Bump uint8
}

// RequestLen is the exact on-chain size of a Request account.
const RequestLen = 8 + 32 + 8 + 8 + 32 + 8 +
	32 + 32 + 32 +
	1 + 1 + 4 + 32 +
	4 + MaxCallbackAccounts*CallbackMetaLen +
	4 + MaxCallbackIxData +
	1

func EncodeRequest(r Request) []byte {
	out := make([]byte, 0, RequestLen)
	disc := DiscriminatorRequest.Bytes()
	out = append(out, disc[:]...)
	out = append(out, r.Provider[:]...)

	var u8 [8]byte
	var u4 [4]byte

	binary.LittleEndian.PutUint64(u8[:], r.SequenceNumber)
	out = append(out, u8[:]...)
	binary.LittleEndian.PutUint64(u8[:], r.NumHashes)
	out = append(out, u8[:]...)
	out = append(out, r.Commitment[:]...)
	binary.LittleEndian.PutUint64(u8[:], r.RequestSlot)
	out = append(out, u8[:]...)

	out = append(out, r.RequesterProgramID[:]...)
	out = append(out, r.RequesterSigner[:]...)
	out = append(out, r.Payer[:]...)

	var flag byte
	if r.UseBlockhash {
		flag = 1
	}
	out = append(out, flag)
	out = append(out, byte(r.CallbackStatus))

	binary.LittleEndian.PutUint32(u4[:], r.ComputeUnitLimit)
	out = append(out, u4[:]...)
	out = append(out, r.CallbackProgramID[:]...)

	binary.LittleEndian.PutUint32(u4[:], r.CallbackAccountsLen)
	out = append(out, u4[:]...)
	for _, meta := range r.CallbackAccounts {
		enc := EncodeCallbackMeta(meta)
		out = append(out, enc[:]...)
	}

	binary.LittleEndian.PutUint32(u4[:], r.CallbackIxDataLen)
	out = append(out, u4[:]...)
	out = append(out, r.CallbackIxData[:]...)

	out = append(out, r.Bump)
	return out
}

func DecodeRequest(b []byte) (Request, error) {
	if len(b) != RequestLen {
		return Request{}, errLen("request", RequestLen, len(b))
	}
	disc, err := readDiscriminator(b)
	if err != nil {
		return Request{}, err
	}
	if disc != DiscriminatorRequest {
		return Request{}, errDiscMismatch("request", DiscriminatorRequest, disc)
	}

	var r Request
	off := 8
	copy(r.Provider[:], b[off:off+32])
	off += 32

	r.SequenceNumber = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	r.NumHashes = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	copy(r.Commitment[:], b[off:off+32])
	off += 32
	r.RequestSlot = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8

	copy(r.RequesterProgramID[:], b[off:off+32])
	off += 32
	copy(r.RequesterSigner[:], b[off:off+32])
	off += 32
	copy(r.Payer[:], b[off:off+32])
	off += 32

	r.UseBlockhash = b[off] == 1
	off++
	r.CallbackStatus = CallbackStatus(b[off])
	off++

	r.ComputeUnitLimit = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	copy(r.CallbackProgramID[:], b[off:off+32])
	off += 32

	r.CallbackAccountsLen = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	for i := 0; i < MaxCallbackAccounts; i++ {
		meta, derr := DecodeCallbackMeta(b[off : off+CallbackMetaLen])
		if derr != nil {
			return Request{}, derr
		}
		r.CallbackAccounts[i] = meta
		off += CallbackMetaLen
	}

	r.CallbackIxDataLen = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	copy(r.CallbackIxData[:], b[off:off+MaxCallbackIxData])
	off += MaxCallbackIxData

	r.Bump = b[off]
	return r, nil
}
