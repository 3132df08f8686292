package verify

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/proof"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// verifyCastBallot walks one cast ballot's contests and selections. K is the
// joint public key, nil when it could not be parsed (in which case every
// ciphertext-dependent proof below is reported as failed rather than
// evaluated against a bogus key).
func verifyCastBallot(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, K *group.Elt, ballot record.CastBallotWire, tallies []record.TallyContestWire, opts Options) {
	rec.Record(len(ballot.Contests) == len(tallies), ctx, "CastBallotNumberOfContests",
		fmt.Sprintf("%d contests on ballot, %d declared in the tally", len(ballot.Contests), len(tallies)))

	g := grp.Generator()

	for j, contest := range ballot.Contests {
		contestCtx := ctxPush(ctx, fmt.Sprintf("Contest #%d", j))
		expectedSelections := -1
		if j < len(tallies) {
			expectedSelections = len(tallies[j].Selections)
		}
		verifyCastContest(rec, contestCtx, grp, fq, g, K, contest, expectedSelections, opts)
	}
}

func verifyCastContest(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, g, K *group.Elt, contest record.ContestWire, expectedSelections int, opts Options) {
	rec.Record(expectedSelections < 0 || len(contest.Selections) == expectedSelections, ctx, "CastBallotNumberOfSelections",
		fmt.Sprintf("%d selections, expected %d", len(contest.Selections), expectedSelections))
	rec.Record(contest.MaxSelections >= 0 && contest.MaxSelections <= len(contest.Selections), ctx, "CastBallotMaxSelections",
		fmt.Sprintf("max selections %d within %d selections", contest.MaxSelections, len(contest.Selections)))

	if K == nil {
		rec.Record(false, ctx, "ChaumPedersenProof", "ballot max selections (joint public key unavailable)")
		for i := range contest.Selections {
			rec.Record(false, ctxPush(ctx, fmt.Sprintf("Selection #%d", i)), "ZeroOrOneProof", "joint public key unavailable")
		}
		return
	}

	cts := make([]*ciphertext, len(contest.Selections))
	decodeOK := true
	for i, sel := range contest.Selections {
		c, err := decodeCiphertext(grp, sel.Ciphertext, record.AlphaLoading)
		if err != nil {
			rec.Record(false, ctxPush(ctx, fmt.Sprintf("Selection #%d", i)), string(record.AlphaLoading), err.Error())
			decodeOK = false
			continue
		}
		cts[i] = c
	}

	if decodeOK {
		sum, err := mulCiphertexts(grp, cts)
		if err != nil {
			rec.Record(false, ctx, "ChaumPedersenProof", "ballot max selections: "+err.Error())
		} else {
			ok, verr := verifySelectionLimit(fq, grp, g, K, sum, contest.MaxSelections, contest.SumProof)
			if verr != nil {
				rec.Record(false, ctx, "ChaumPedersenProof", "ballot max selections: "+verr.Error())
			} else {
				rec.Record(ok, ctx, "ChaumPedersenProof", "ballot max selections")
			}
		}
	} else {
		rec.Record(false, ctx, "ChaumPedersenProof", "ballot max selections (a selection failed to load)")
	}

	for i, sel := range contest.Selections {
		selCtx := ctxPush(ctx, fmt.Sprintf("Selection #%d", i))
		c := cts[i]
		if c == nil {
			rec.Record(false, selCtx, "ZeroOrOneProof", "selection ciphertext failed to load")
			continue
		}
		ok, err := proof.VerifyZeroOrOne(fq, g, K, c.alpha, c.beta, labelZeroOrOne, sel.Proof, opts.FullEnumeration)
		if err != nil {
			rec.Record(false, selCtx, "ZeroOrOneProof", err.Error())
			continue
		}
		rec.Record(ok, selCtx, "ZeroOrOneProof", "selection encrypts 0 or 1")
	}
}

// verifySelectionLimit checks that sum/(1, g^max) encrypts zero under (g, K),
// i.e. that the ballot's declared selections (including any placeholders)
// sum to exactly the contest's selection limit.
func verifySelectionLimit(fq *field.Field, grp *group.ModPGroup, g, K *group.Elt, sum *ciphertext, max int, wire record.ChaumPedersenProofWire) (bool, error) {
	pg, err := group.NewPPGroup(grp, 2)
	if err != nil {
		return false, err
	}
	basis, err := pg.Prod([]*group.Elt{g, K})
	if err != nil {
		return false, err
	}
	gMax, err := g.Exp(bigint.FromUint64(uint64(max)))
	if err != nil {
		return false, err
	}
	gMaxInv, err := gMax.Inv()
	if err != nil {
		return false, err
	}
	shiftedBeta, err := sum.beta.Mul(gMaxInv)
	if err != nil {
		return false, err
	}
	instance, err := pg.Prod([]*group.Elt{sum.alpha, shiftedBeta})
	if err != nil {
		return false, err
	}
	return proof.VerifyChaumPedersen(fq, basis, labelSelectionLimit, instance, wire)
}
