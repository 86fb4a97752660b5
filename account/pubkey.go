// Package account defines the fixed-layout records persisted in program-owned
// accounts (Config, Provider, Request), their discriminators, and PDA
// derivation — the account model & codecs component of the entropy program.
package account

import (
	"github.com/gagliardetto/solana-go"
)

// Pubkey is the 32-byte account identity used throughout the protocol. It is
// solana.PublicKey directly rather than a wrapper type: every PDA derivation,
// signer check and CPI account list in this repo ultimately has to hand a
// real solana.PublicKey to the RPC/transaction layer, so aliasing avoids a
// conversion at every boundary.
type Pubkey = solana.PublicKey

// Zero reports whether k is the all-zero key, the sentinel the protocol uses
// for "unset" (e.g. a rejected zero-valued admin at Initialize).
func Zero(k Pubkey) bool {
	return k == Pubkey{}
}

var zero Pubkey

// ZeroKey is the canonical zero-valued Pubkey.
var ZeroKey = zero
