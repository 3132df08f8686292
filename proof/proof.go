// Package proof adapts the decimal-string on-wire proof shapes of an
// election record onto the Sigma verifiers in package sigma. Each function
// here parses its wire arguments, builds the appropriate instance and
// homomorphism, and reports either success or a typed record.Fault
// describing the parse or verification failure encountered.
package proof

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/bytetree"
	"github.com/nvotes/juvenal-lib/exphom"
	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/sigma"
)

func parseGroupElt(grp *group.ModPGroup, s string, code record.Code, what string) (*group.Elt, error) {
	v, err := record.ParseBigInt(s)
	if err != nil {
		return nil, record.NewFault(code, fmt.Sprintf("parsing %s", what), err)
	}
	e, err := grp.Elem(v)
	if err != nil {
		return nil, record.NewFault(code, fmt.Sprintf("%s is not a canonical group element", what), err)
	}
	return e, nil
}

func parseFieldElt(fq *field.Field, s string, code record.Code, what string) (*field.Elt, error) {
	v, err := record.ParseBigInt(s)
	if err != nil {
		return nil, record.NewFault(code, fmt.Sprintf("parsing %s", what), err)
	}
	e, err := fq.Elem(v)
	if err != nil {
		return nil, record.NewFault(code, fmt.Sprintf("reducing %s", what), err)
	}
	return e, nil
}

// VerifySchnorr parses a record.SchnorrProofWire and checks it proves
// knowledge of the discrete log of instance under hom, binding the proof to
// label via Fiat-Shamir. It returns (true, nil) on success, (false, nil) on
// a clean verification failure, and (false, fault) when the wire shape
// itself could not be parsed.
func VerifySchnorr(fq *field.Field, hom *exphom.Hom, label []byte, instance *group.Elt, wire record.SchnorrProofWire) (bool, error) {
	grp := instance.Group()
	commitment, err := parseGroupElt(grp, wire.Commitment, record.SchnorrProof, "Schnorr commitment")
	if err != nil {
		return false, err
	}
	challenge, err := parseFieldElt(fq, wire.Challenge, record.SchnorrProof, "Schnorr challenge")
	if err != nil {
		return false, err
	}
	response, err := parseFieldElt(fq, wire.Response, record.SchnorrProof, "Schnorr response")
	if err != nil {
		return false, err
	}
	ok, err := sigma.VerifyFiatShamir(fq, hom, label, instance, commitment, challenge, response)
	if err != nil {
		return false, record.NewFault(record.SchnorrProof, "evaluating Schnorr verifier", err)
	}
	return ok, nil
}

// VerifyChaumPedersen parses a record.ChaumPedersenProofWire proving that
// (A, B) share a common discrete-log witness with bases (g, K), i.e. that
// the ElGamal ciphertext (A, B) encrypts a specified value. basis and
// instance are paired product-group elements built by the caller (e.g.
// basis = (g, K), instance = (A, B) or (A, B*g^-1)).
func VerifyChaumPedersen(fq *field.Field, basis *group.PPElt, label []byte, instance *group.PPElt, wire record.ChaumPedersenProofWire) (bool, error) {
	grp := basis.Group().Base()
	commitA, err := parseGroupElt(grp, wire.CommitmentA, record.ChaumPedersenProof, "Chaum-Pedersen commitment A")
	if err != nil {
		return false, err
	}
	commitB, err := parseGroupElt(grp, wire.CommitmentB, record.ChaumPedersenProof, "Chaum-Pedersen commitment B")
	if err != nil {
		return false, err
	}
	commitment, err := basis.Group().Prod([]*group.Elt{commitA, commitB})
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "pairing Chaum-Pedersen commitment", err)
	}
	challenge, err := parseFieldElt(fq, wire.Challenge, record.ChaumPedersenProof, "Chaum-Pedersen challenge")
	if err != nil {
		return false, err
	}
	response, err := parseFieldElt(fq, wire.Response, record.ChaumPedersenProof, "Chaum-Pedersen response")
	if err != nil {
		return false, err
	}

	hom, err := exphom.New(basis)
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "building homomorphism", err)
	}

	yc, err := instance.Exp(challenge)
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "Y^c", err)
	}
	lhs, err := yc.Mul(commitment)
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "Y^c * A", err)
	}
	rhs, err := hom.EvalPP(response)
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "hom(z)", err)
	}
	if !lhs.Equal(rhs) {
		return false, nil
	}

	recomputed, err := sigma.Challenge(fq, label, instance.ByteTree(), commitment.ByteTree())
	if err != nil {
		return false, record.NewFault(record.ChaumPedersenProof, "recomputing challenge", err)
	}
	return recomputed.Equal(challenge), nil
}

// VerifyZeroOrOne parses a record.ZeroOrOneProofWire and checks that the
// ciphertext (A, B) encrypts 0 or 1 under public key K: it builds the
// two-branch instance vector [(A, B), (A, B*g^-1)] over basis (g, K) and
// invokes the Sigma-OR verifier with two Schnorr verifiers sharing that
// basis. full requests full enumeration of both branches for diagnostics
// instead of short-circuiting on the first failing branch.
func VerifyZeroOrOne(fq *field.Field, g, K, A, B *group.Elt, label []byte, wire record.ZeroOrOneProofWire, full bool) (bool, error) {
	grp := g.Group()
	pg, err := group.NewPPGroup(grp, 2)
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "building product group", err)
	}
	basis, err := pg.Prod([]*group.Elt{g, K})
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "pairing basis", err)
	}
	instanceZero, err := pg.Prod([]*group.Elt{A, B})
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "pairing zero-branch instance", err)
	}
	gInv, err := g.Inv()
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "inverting generator", err)
	}
	bShifted, err := B.Mul(gInv)
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "B * g^-1", err)
	}
	instanceOne, err := pg.Prod([]*group.Elt{A, bShifted})
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "pairing one-branch instance", err)
	}

	hom, err := exphom.New(basis)
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "building homomorphism", err)
	}

	zeroCommitA, err := parseGroupElt(grp, wire.ZeroProof.CommitmentA, record.ZeroOrOneProof, "zero-branch commitment A")
	if err != nil {
		return false, err
	}
	zeroCommitB, err := parseGroupElt(grp, wire.ZeroProof.CommitmentB, record.ZeroOrOneProof, "zero-branch commitment B")
	if err != nil {
		return false, err
	}
	zeroCommit, err := pg.Prod([]*group.Elt{zeroCommitA, zeroCommitB})
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "pairing zero-branch commitment", err)
	}
	zeroChallenge, err := parseFieldElt(fq, wire.ZeroProof.Challenge, record.ZeroOrOneProof, "zero-branch challenge")
	if err != nil {
		return false, err
	}
	zeroResponse, err := parseFieldElt(fq, wire.ZeroProof.Response, record.ZeroOrOneProof, "zero-branch response")
	if err != nil {
		return false, err
	}

	oneCommitA, err := parseGroupElt(grp, wire.OneProof.CommitmentA, record.ZeroOrOneProof, "one-branch commitment A")
	if err != nil {
		return false, err
	}
	oneCommitB, err := parseGroupElt(grp, wire.OneProof.CommitmentB, record.ZeroOrOneProof, "one-branch commitment B")
	if err != nil {
		return false, err
	}
	oneCommit, err := pg.Prod([]*group.Elt{oneCommitA, oneCommitB})
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "pairing one-branch commitment", err)
	}
	oneChallenge, err := parseFieldElt(fq, wire.OneProof.Challenge, record.ZeroOrOneProof, "one-branch challenge")
	if err != nil {
		return false, err
	}
	oneResponse, err := parseFieldElt(fq, wire.OneProof.Response, record.ZeroOrOneProof, "one-branch response")
	if err != nil {
		return false, err
	}

	ok, err := verifyORProductGroup(fq, hom, label,
		[]*group.PPElt{instanceZero, instanceOne},
		[]ppSubproof{
			{commitment: zeroCommit, challenge: zeroChallenge, response: zeroResponse},
			{commitment: oneCommit, challenge: oneChallenge, response: oneResponse},
		}, full)
	if err != nil {
		return false, record.NewFault(record.ZeroOrOneProof, "evaluating Sigma-OR verifier", err)
	}
	return ok, nil
}

type ppSubproof struct {
	commitment *group.PPElt
	challenge  *field.Elt
	response   *field.Elt
}

// verifyORProductGroup is sigma.VerifyOR generalized to a product-group
// homomorphism shared by every branch, since sigma.VerifyOR itself is typed
// over scalar group elements only. Verification visits branches in index
// order and short-circuits on the first failing branch unless full is true,
// in which case every branch is evaluated (for diagnostics) before the
// overall failure is reported.
func verifyORProductGroup(fq *field.Field, hom *exphom.Hom, label []byte, instances []*group.PPElt, subproofs []ppSubproof, full bool) (bool, error) {
	if len(instances) != len(subproofs) {
		return false, fmt.Errorf("proof: instance/subproof count mismatch")
	}
	allOK := true
	for i := range instances {
		yc, err := instances[i].Exp(subproofs[i].challenge)
		if err != nil {
			return false, fmt.Errorf("proof: subproof %d: Y^c: %w", i, err)
		}
		lhs, err := yc.Mul(subproofs[i].commitment)
		if err != nil {
			return false, fmt.Errorf("proof: subproof %d: Y^c * A: %w", i, err)
		}
		rhs, err := hom.EvalPP(subproofs[i].response)
		if err != nil {
			return false, fmt.Errorf("proof: subproof %d: hom(z): %w", i, err)
		}
		if !lhs.Equal(rhs) {
			allOK = false
			if !full {
				return false, nil
			}
		}
	}
	if !allOK {
		return false, nil
	}

	instTrees := make([]bytetree.Tree, len(instances))
	commitTrees := make([]bytetree.Tree, len(subproofs))
	for i := range instances {
		instTrees[i] = instances[i].ByteTree()
		commitTrees[i] = subproofs[i].commitment.ByteTree()
	}
	derived, err := sigma.Challenge(fq, label, bytetree.NewNode(instTrees...), bytetree.NewNode(commitTrees...))
	if err != nil {
		return false, fmt.Errorf("proof: deriving OR challenge: %w", err)
	}

	sum, err := fq.ElemFromUint64(0)
	if err != nil {
		return false, err
	}
	for i := range subproofs {
		sum, err = sum.Add(subproofs[i].challenge)
		if err != nil {
			return false, fmt.Errorf("proof: summing subchallenge %d: %w", i, err)
		}
	}
	return sum.Equal(derived), nil
}
