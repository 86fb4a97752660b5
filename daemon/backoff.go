package daemon

import "time"

// backoffDelays yields the fixed bounded-exponential sequence the reveal
// submitter retries transient RPC errors with: base, 2*base, 4*base, ...
// capped at max, for up to maxAttempts total tries (spec §5: "500 ms -> 8 s
// cap, <=6 attempts per logical reveal").
func backoffDelays(base, max time.Duration, maxAttempts int) []time.Duration {
	if maxAttempts <= 0 {
		return nil
	}
	out := make([]time.Duration, maxAttempts)
	d := base
	for i := range out {
		if d > max {
			d = max
		}
		out[i] = d
		d *= 2
	}
	return out
}
