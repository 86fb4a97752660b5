package account

import "encoding/binary"

// Config is the singleton PDA (seed "config") holding protocol-level
// parameters. Created once at Initialize; never destroyed (spec §3).
type Config struct {
	Admin            Pubkey
	ProposedAdmin    Pubkey
	PythFeeLamports  uint64
	DefaultProvider  Pubkey
	Seed             [32]byte
	Bump             uint8
}

// ConfigLen is the exact on-chain size of a Config account, discriminator
// included. program/pda_loader.go rejects any Config-typed account whose length
// differs (spec §4.1 "must have the exact expected size").
const ConfigLen = 8 + 32 + 32 + 8 + 32 + 32 + 1

func EncodeConfig(c Config) []byte {
	out := make([]byte, 0, ConfigLen)
	disc := DiscriminatorConfig.Bytes()
	out = append(out, disc[:]...)
	out = append(out, c.Admin[:]...)
	out = append(out, c.ProposedAdmin[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], c.PythFeeLamports)
	out = append(out, tmp8[:]...)
	out = append(out, c.DefaultProvider[:]...)
	out = append(out, c.Seed[:]...)
	out = append(out, c.Bump)
	return out
}

func DecodeConfig(b []byte) (Config, error) {
	if len(b) != ConfigLen {
		return Config{}, errLen("config", ConfigLen, len(b))
	}
	disc, err := readDiscriminator(b)
	if err != nil {
		return Config{}, err
	}
	if disc != DiscriminatorConfig {
		return Config{}, errDiscMismatch("config", DiscriminatorConfig, disc)
	}
	var c Config
	off := 8
	copy(c.Admin[:], b[off:off+32])
	off += 32
	copy(c.ProposedAdmin[:], b[off:off+32])
	off += 32
	c.PythFeeLamports = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	copy(c.DefaultProvider[:], b[off:off+32])
	off += 32
	copy(c.Seed[:], b[off:off+32])
	off += 32
	c.Bump = b[off]
	return c, nil
}
