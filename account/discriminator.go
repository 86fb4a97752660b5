package account

import "encoding/binary"

// Discriminator is the leading 8 bytes of every persisted account blob. A
// load that finds a mismatched discriminator fails with InvalidAccount
// (spec §3: "any load that finds a mismatched discriminator fails").
type Discriminator uint64

const (
	DiscriminatorConfig   Discriminator = 1
	DiscriminatorProvider Discriminator = 2
	DiscriminatorRequest  Discriminator = 3
)

func (d Discriminator) Bytes() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(d))
	return b
}

func readDiscriminator(b []byte) (Discriminator, error) {
	if len(b) < 8 {
		return 0, errShortDiscriminator
	}
	return Discriminator(binary.LittleEndian.Uint64(b[0:8])), nil
}
