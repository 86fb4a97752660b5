package program

import "entropy.dev/node/errs"

// CalculateProviderFee implements spec §4.4's fee formula. A
// defaultComputeUnitLimit of 0 disables the additive term entirely — do not
// infer a default (spec §9 Open Question c).
func CalculateProviderFee(feeLamports uint64, defaultComputeUnitLimit, computeUnitLimit uint32) (uint64, error) {
	if defaultComputeUnitLimit == 0 || computeUnitLimit <= defaultComputeUnitLimit {
		return feeLamports, nil
	}
	extra := uint64(computeUnitLimit - defaultComputeUnitLimit)
	additional, overflow := mulDivChecked(extra, feeLamports, uint64(defaultComputeUnitLimit))
	if overflow {
		return 0, errs.New(errs.InvalidArgument, "fee: additional fee computation overflowed")
	}
	total := feeLamports + additional
	if total < feeLamports {
		return 0, errs.New(errs.InvalidArgument, "fee: provider fee overflowed")
	}
	return total, nil
}

// mulDivChecked computes (a*b)/c in uint64 arithmetic and reports overflow
// if a*b does not fit in a uint64 before the division would have reduced it.
func mulDivChecked(a, b, c uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	// Overflow check for a*b without risking wraparound: a*b overflows a
	// uint64 iff a > MaxUint64/b.
	const maxUint64 = ^uint64(0)
	if a > maxUint64/b {
		return 0, true
	}
	return (a * b) / c, false
}
