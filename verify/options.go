// Package verify implements the verification tree: a depth-first walk of an
// election record, rooted at Election, emitting named predicate outcomes to
// a recorder.Recorder.
package verify

// Options configures optional, non-default verification behavior.
type Options struct {
	// SpoiledSelectionProofs, when true, also verifies per-selection
	// encryption proofs on spoiled ballots when the record includes them.
	// Default off, since most records in the wild predate producers
	// emitting them.
	SpoiledSelectionProofs bool

	// FullEnumeration, when true, asks Sigma-OR verification to evaluate
	// every subproof for diagnostics instead of short-circuiting on the
	// first failure.
	FullEnumeration bool

	// Parallel, when true, verifies independent cast-ballot and
	// contest-tally subtrees on a bounded worker pool and merges their
	// recorders back in stable (input) order. Default off so output
	// ordering is trivially deterministic without a merge step.
	Parallel bool

	// Workers bounds the pool size when Parallel is set. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Progress, when non-nil, is called once after every cast ballot,
	// contest tally, and spoiled ballot finishes verifying: done is a
	// running count, total is fixed for the whole walk (ballots + tallies +
	// spoiled ballots) and known before the walk starts. Under Parallel,
	// calls arrive out of item order; each call gets a distinct done value,
	// but concurrent calls may arrive with those values out of order.
	Progress func(done, total int)
}

// WithSpoiledSelectionProofs returns opts with SpoiledSelectionProofs set.
func WithSpoiledSelectionProofs(opts Options) Options {
	opts.SpoiledSelectionProofs = true
	return opts
}
