package verify

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/proof"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// verifySpoiledBallot walks a ballot decrypted selection-wise for audit: the
// same per-share and decryption checks as a tally contest, minus TallySum
// (a spoiled ballot's encrypted_tally is its own single encryption, not a
// sum across ballots), plus SumOfPlaintexts.
func verifySpoiledBallot(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, ballot record.SpoiledBallotWire, trusteeKeys [][]record.CoefficientWire, K *group.Elt, opts Options) {
	g := grp.Generator()
	publicKeys := publicKeysByTrustee(grp, trusteeKeys)

	for j, contest := range ballot.Contests {
		contestCtx := ctxPush(ctx, fmt.Sprintf("Contest #%d", j))
		verifySpoiledContest(rec, contestCtx, grp, fq, g, K, publicKeys, contest, opts)
	}
}

func verifySpoiledContest(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, g, K *group.Elt, publicKeys []*group.Elt, contest record.SpoiledContestWire, opts Options) {
	var sum int64

	for i, sel := range contest.Selections {
		selCtx := ctxPush(ctx, fmt.Sprintf("Selection #%d", i))

		alphaC, err := decodeCiphertext(grp, sel.EncryptedTally, record.AlphaLoading)
		if err != nil {
			rec.Record(false, selCtx, string(record.AlphaLoading), err.Error())
			continue
		}

		combined, loaded := verifySelectionShares(rec, selCtx, grp, fq, g, publicKeys, alphaC.alpha, sel.Shares)
		if !loaded {
			rec.Record(false, selCtx, string(record.SharesLoading), "one or more decryption shares failed to load")
			continue
		}

		declared, err := record.ParseBigInt(sel.DecryptedTally)
		var declaredElt *group.Elt
		if err == nil {
			declaredElt, err = grp.Elem(declared)
		}
		if err != nil {
			rec.Record(false, selCtx, string(record.DecryptionData), err.Error())
			continue
		}

		match, err := decryptionMatches(alphaC.beta, combined, declaredElt)
		if err != nil {
			rec.Record(false, selCtx, string(record.DecryptionData), err.Error())
		} else {
			rec.Record(match, selCtx, "DecryptionMatches",
				"beta * (combined shares)^-1 matches the declared decrypted tally")
		}

		cm, err := cleartextMatches(g, sel.Cleartext, declaredElt)
		if err != nil {
			rec.Record(false, selCtx, string(record.CleartextMatches), err.Error())
		} else {
			rec.Record(cm, selCtx, "CleartextMatches",
				"g^cleartext matches the declared decrypted tally")
		}
		sum += sel.Cleartext

		if opts.SpoiledSelectionProofs && sel.EncryptionProof != nil {
			if K == nil {
				rec.Record(false, selCtx, "ZeroOrOneProof", "joint public key unavailable")
			} else {
				ok, err := proof.VerifyZeroOrOne(fq, g, K, alphaC.alpha, alphaC.beta, labelZeroOrOne, *sel.EncryptionProof, opts.FullEnumeration)
				if err != nil {
					rec.Record(false, selCtx, "ZeroOrOneProof", err.Error())
				} else {
					rec.Record(ok, selCtx, "ZeroOrOneProof", "selection encrypts 0 or 1")
				}
			}
		}
	}

	rec.Record(sum == int64(contest.MaxSelections), ctx, "SumOfPlaintexts",
		fmt.Sprintf("sum of selection cleartexts %d matches max selections %d", sum, contest.MaxSelections))
}
