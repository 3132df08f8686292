// Package sigma implements the three-message Sigma-protocol verifiers the
// proof layer adapts on-wire proof shapes onto: Schnorr (single-base
// knowledge), and Sigma-OR (Cramer-Damgaard-Schoenmakers disjunction). Each
// verifier checks one non-interactive proof made so via Fiat-Shamir.
package sigma

import (
	"crypto/sha256"
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/bytetree"
	"github.com/nvotes/juvenal-lib/exphom"
	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
)

// Challenge derives the Fiat-Shamir challenge for (label, instance,
// commitment): the three are packed as children of a node in that order,
// serialized, hashed with SHA-256, and the digest reduced into fq. This
// layering is exact; any reordering or reframing fails verification against
// any existing record.
func Challenge(fq *field.Field, label []byte, instance, commitment bytetree.Tree) (*field.Elt, error) {
	node := bytetree.NewNode(bytetree.NewLeaf(label), instance, commitment)
	digest := sha256.Sum256(node.Encode())
	return fq.Elem(bigint.FromBytes(digest[:]))
}

// Verify checks a single Schnorr proof (commitment A, challenge c, response
// z) for knowledge of x such that instance Y = hom(x): accept iff
// Y^c * A == hom(z).
func Verify(hom *exphom.Hom, instance, commitment *group.Elt, challenge, response *field.Elt) (bool, error) {
	yc, err := instance.Exp(challenge)
	if err != nil {
		return false, fmt.Errorf("sigma: Y^c: %w", err)
	}
	lhs, err := yc.Mul(commitment)
	if err != nil {
		return false, fmt.Errorf("sigma: Y^c * A: %w", err)
	}
	rhs, err := hom.EvalElt(response)
	if err != nil {
		return false, fmt.Errorf("sigma: hom(z): %w", err)
	}
	return lhs.Equal(rhs), nil
}

// VerifyFiatShamir checks a Schnorr proof and additionally that challenge
// equals the Fiat-Shamir challenge recomputed from (label, instance,
// commitment), the binding step a bare Verify call cannot perform because
// it has no notion of the proof's label.
func VerifyFiatShamir(fq *field.Field, hom *exphom.Hom, label []byte, instance, commitment *group.Elt, challenge, response *field.Elt) (bool, error) {
	ok, err := Verify(hom, instance, commitment, challenge, response)
	if err != nil || !ok {
		return false, err
	}
	recomputed, err := Challenge(fq, label, instance.ByteTree(), commitment.ByteTree())
	if err != nil {
		return false, fmt.Errorf("sigma: recomputing challenge: %w", err)
	}
	return recomputed.Equal(challenge), nil
}

// ORSubproof is one (commitment, challenge, response) triple of a Sigma-OR
// disjunction.
type ORSubproof struct {
	Commitment *group.Elt
	Challenge  *field.Elt
	Response   *field.Elt
}

// VerifyOR checks a Cramer-Damgaard-Schoenmakers disjunctive proof: a vector
// of homomorphisms sharing the challenge space fq, a vector of instances,
// and one subproof per instance, paired positionally. It accepts iff every
// subproof verifies under its own challenge and the sum of subchallenges in
// Fq equals the Fiat-Shamir challenge derived from (label, instance vector,
// commitment vector). Verification visits subproofs in index order and
// short-circuits on the first failure unless full is true, in which case it
// evaluates every subproof (for diagnostics) before reporting failure.
func VerifyOR(fq *field.Field, homs []*exphom.Hom, label []byte, instances []*group.Elt, subproofs []*ORSubproof, full bool) (bool, error) {
	if len(homs) != len(instances) || len(instances) != len(subproofs) {
		return false, fmt.Errorf("sigma: VerifyOR vector length mismatch: %d homs, %d instances, %d subproofs", len(homs), len(instances), len(subproofs))
	}
	allOK := true
	for i := range homs {
		ok, err := Verify(homs[i], instances[i], subproofs[i].Commitment, subproofs[i].Challenge, subproofs[i].Response)
		if err != nil {
			return false, fmt.Errorf("sigma: subproof %d: %w", i, err)
		}
		if !ok {
			allOK = false
			if !full {
				return false, nil
			}
		}
	}
	if !allOK {
		return false, nil
	}

	instanceChildren := make([]bytetree.Tree, len(instances))
	commitmentChildren := make([]bytetree.Tree, len(subproofs))
	for i := range instances {
		instanceChildren[i] = instances[i].ByteTree()
		commitmentChildren[i] = subproofs[i].Commitment.ByteTree()
	}
	derived, err := Challenge(fq, label, bytetree.NewNode(instanceChildren...), bytetree.NewNode(commitmentChildren...))
	if err != nil {
		return false, fmt.Errorf("sigma: deriving OR challenge: %w", err)
	}

	sum, err := fq.ElemFromUint64(0)
	if err != nil {
		return false, err
	}
	for i, sp := range subproofs {
		sum, err = sum.Add(sp.Challenge)
		if err != nil {
			return false, fmt.Errorf("sigma: summing subchallenge %d: %w", i, err)
		}
	}
	return sum.Equal(derived), nil
}
