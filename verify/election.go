package verify

import (
	"encoding/hex"
	"fmt"

	"github.com/nvotes/juvenal-lib/baseline"
	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/exphom"
	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/proof"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// Election is one election record ready to be walked by Verify. SchemaValid
// carries the outcome of a prior package recordschema check; nil means the
// caller skipped that check (e.g. --strict-schema was passed) rather than that
// it passed.
type Election struct {
	Wire        *record.Wire
	Opts        Options
	SchemaValid *bool

	// grp overrides the baseline group, used only by this package's own
	// tests to exercise the walk over a small toy group instead of the
	// 4096-bit baseline parameters.
	grp *group.ModPGroup
}

// NewElection wraps a parsed record for verification.
func NewElection(wire *record.Wire, opts Options) *Election {
	return &Election{Wire: wire, Opts: opts}
}

func (e *Election) group() (*group.ModPGroup, error) {
	if e.grp != nil {
		return e.grp, nil
	}
	return baseline.Group()
}

func decodeHash(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("verify: decoding hash %q: %w", s, err)
	}
	return b, nil
}

func ctxPush(ctx []string, child string) []string {
	out := make([]string, len(ctx)+1)
	copy(out, ctx)
	out[len(ctx)] = child
	return out
}

// Verify walks the election record depth-first, rooted at Election, emitting
// one named predicate outcome per node to rec. It returns an error only for
// conditions that make the walk itself impossible to continue (a baseline
// parameter failing to construct, which cannot happen with the embedded
// constants); every other problem is reported as a failed predicate and the
// walk continues into siblings.
func (e *Election) Verify(rec recorder.Recorder) error {
	ctx := []string{"Election"}

	grp, err := e.group()
	if err != nil {
		return fmt.Errorf("verify: building baseline group: %w", err)
	}
	fq := grp.Field()

	if e.SchemaValid != nil {
		rec.Record(*e.SchemaValid, ctx, "Schema", "election record matches the declared schema")
	}

	n := e.Wire.Parameters.NumTrustees
	t := e.Wire.Parameters.Threshold
	rec.Record(t >= 1 && t <= n, ctx, "ThresholdTrustees",
		fmt.Sprintf("threshold %d, trustees %d", t, n))
	rec.Record(len(e.Wire.TrusteePublicKeys) == n, ctx, "NumPubKeys",
		fmt.Sprintf("%d trustee key rows declared, expected %d", len(e.Wire.TrusteePublicKeys), n))

	declaredP, errP := record.ParseBigInt(e.Wire.Parameters.Prime)
	rec.Record(errP == nil && declaredP.Equal(baseline.P()), ctx, "BaselineEncryptionModulus",
		"declared prime matches the baseline modulus")

	declaredG, errG := record.ParseBigInt(e.Wire.Parameters.Generator)
	rec.Record(errG == nil && declaredG.Equal(baseline.G()), ctx, "BaselineEncryptionGenerator",
		"declared generator matches the baseline generator")

	baseHash, errBH := decodeHash(e.Wire.BaseHash)
	rec.Record(errBH == nil && baseline.CheckBaseHash(baseHash, baseline.P(), baseline.Q(), baseline.G()),
		ctx, "ElectionBaseHash", "declared base hash matches H(p, q, g)")

	jointPK, errJPK := record.ParseBigInt(e.Wire.JointPublicKey)

	commitMatrix := make([][]*bigint.Int, len(e.Wire.TrusteePublicKeys))
	matrixParseOK := true
	for i, row := range e.Wire.TrusteePublicKeys {
		vals := make([]*bigint.Int, len(row))
		for j, c := range row {
			v, err := record.ParseBigInt(c.Commitment)
			if err != nil {
				matrixParseOK = false
				v = bigint.Zero()
			}
			vals[j] = v
		}
		commitMatrix[i] = vals
	}

	extHash, errEH := decodeHash(e.Wire.ExtendedBaseHash)
	rec.Record(errEH == nil && errBH == nil && errJPK == nil && matrixParseOK &&
		baseline.CheckExtendedBaseHash(extHash, baseHash, n, t, jointPK, commitMatrix),
		ctx, "ElectionExtendedBaseHash", "declared extended base hash matches H(base, n, t, K, commitments)")

	jointKeyForProofs, _ := e.jointPublicKey(rec, ctx, grp, fq)

	total := len(e.Wire.CastBallots) + len(e.Wire.ContestTallies) + len(e.Wire.SpoiledBallots)
	done := 0
	tick := func() {
		if e.Opts.Progress != nil {
			done++
			e.Opts.Progress(done, total)
		}
	}

	for i, ballot := range e.Wire.CastBallots {
		ballotCtx := ctxPush(ctx, fmt.Sprintf("Cast Ballot #%d", i))
		verifyCastBallot(rec, ballotCtx, grp, fq, jointKeyForProofs, ballot, e.Wire.ContestTallies, e.Opts)
		tick()
	}

	for j, contest := range e.Wire.ContestTallies {
		contestCtx := ctxPush(ctx, fmt.Sprintf("Tally, contest #%d", j))
		verifyTallyContest(rec, contestCtx, grp, fq, contest, e.Wire.TrusteePublicKeys, e.Wire.CastBallots, j)
		tick()
	}

	for i, spoiled := range e.Wire.SpoiledBallots {
		spoiledCtx := ctxPush(ctx, fmt.Sprintf("Spoiled ballot #%d", i))
		verifySpoiledBallot(rec, spoiledCtx, grp, fq, spoiled, e.Wire.TrusteePublicKeys, jointKeyForProofs, e.Opts)
		tick()
	}

	return nil
}

// verifyTrusteePublicKeys walks one trustee's declared coefficient
// commitments, verifying each one's Schnorr proof of knowledge, and returns
// the trustee's public key share (the coefficient-0 commitment) when it
// could be parsed, regardless of whether its proof verified.
func verifyTrusteePublicKeys(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, row []record.CoefficientWire, threshold int) (*group.Elt, bool) {
	rec.Record(len(row) == threshold, ctx, "NumberOfCoefficients",
		fmt.Sprintf("%d coefficients declared, expected %d", len(row), threshold))

	hom, err := exphom.New(grp.Generator())
	if err != nil {
		rec.Record(false, ctx, "CoefficientCommitmentLoading", err.Error())
		return nil, false
	}

	ok := true
	var share *group.Elt
	for k, c := range row {
		coeffCtx := ctxPush(ctx, fmt.Sprintf("Coefficient #%d", k))
		y, err := record.ParseBigInt(c.Commitment)
		if err != nil {
			rec.Record(false, coeffCtx, "CoefficientCommitmentLoading", err.Error())
			ok = false
			continue
		}
		yElt, err := grp.Elem(y)
		if err != nil {
			rec.Record(false, coeffCtx, "CoefficientCommitmentLoading", err.Error())
			ok = false
			continue
		}
		if k == 0 {
			share = yElt
		}
		valid, verr := proof.VerifySchnorr(fq, hom, labelCoefficient, yElt, c.Proof)
		if verr != nil {
			rec.Record(false, coeffCtx, "CoefficientCommitment", verr.Error())
			ok = false
			continue
		}
		rec.Record(valid, coeffCtx, "CoefficientCommitment", "proof of knowledge of the coefficient exponent")
		if !valid {
			ok = false
		}
	}
	return share, ok
}
