package account

import "entropy.dev/node/errs"

var errShortDiscriminator = errs.New(errs.InvalidAccount, "account: truncated discriminator")

func errLen(what string, want, got int) error {
	return errs.Newf(errs.InvalidAccount, "%s: expected %d bytes, got %d", what, want, got)
}

func errDiscMismatch(what string, want, got Discriminator) error {
	return errs.Newf(errs.InvalidAccount, "%s: discriminator mismatch: want %d got %d", what, want, got)
}
