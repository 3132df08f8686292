package verify

// Fiat-Shamir domain-separation labels. The wire format does not name these
// explicitly; each Sigma proof already binds its challenge to its own
// instance and commitment byte-trees, so a label only needs to keep the
// proof kinds from colliding with each other, not to be index-specific.
var (
	labelCoefficient    = []byte("coefficient-commitment")
	labelSelectionLimit = []byte("ballot-selection-limit")
	labelZeroOrOne      = []byte("selection-zero-or-one")
	labelShare          = []byte("decryption-share")
)
