package verify

import (
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/record"
)

// ciphertext is a decoded ElGamal ciphertext (alpha, beta) = (g^r, K^r*g^m).
type ciphertext struct {
	alpha, beta *group.Elt
}

func decodeCiphertext(grp *group.ModPGroup, w record.CiphertextWire, code record.Code) (*ciphertext, error) {
	alpha, err := parseGroupElt(grp, w.Alpha, code, "alpha")
	if err != nil {
		return nil, err
	}
	beta, err := parseGroupElt(grp, w.Beta, code, "beta")
	if err != nil {
		return nil, err
	}
	return &ciphertext{alpha: alpha, beta: beta}, nil
}

func parseGroupElt(grp *group.ModPGroup, s string, code record.Code, what string) (*group.Elt, error) {
	v, err := record.ParseBigInt(s)
	if err != nil {
		return nil, record.NewFault(code, "parsing "+what, err)
	}
	e, err := grp.Elem(v)
	if err != nil {
		return nil, record.NewFault(code, what+" is not a canonical group element", err)
	}
	return e, nil
}

// mulCiphertexts returns the homomorphic sum (componentwise product) of a
// sequence of ciphertexts, the operation that turns a list of encrypted
// selections into an encrypted tally. An empty sequence returns the
// encryption-of-nothing identity (1, 1), not an error: a contest with zero
// selections is degenerate but not malformed.
func mulCiphertexts(grp *group.ModPGroup, cs []*ciphertext) (*ciphertext, error) {
	if len(cs) == 0 {
		id := grp.Identity()
		return &ciphertext{alpha: id, beta: id}, nil
	}
	alpha, beta := cs[0].alpha, cs[0].beta
	var err error
	for _, c := range cs[1:] {
		alpha, err = alpha.Mul(c.alpha)
		if err != nil {
			return nil, err
		}
		beta, err = beta.Mul(c.beta)
		if err != nil {
			return nil, err
		}
	}
	return &ciphertext{alpha: alpha, beta: beta}, nil
}

func (c *ciphertext) equal(o *ciphertext) bool {
	return c.alpha.Equal(o.alpha) && c.beta.Equal(o.beta)
}
