package verify

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// verifyTallyContest walks one contest's aggregate tally: per selection, the
// trustees' decryption shares, the combined decryption, the sum of the
// matching selection across every cast ballot, and the declared cleartext.
func verifyTallyContest(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, contest record.TallyContestWire, trusteeKeys [][]record.CoefficientWire, ballots []record.CastBallotWire, contestIndex int) {
	g := grp.Generator()
	publicKeys := publicKeysByTrustee(grp, trusteeKeys)

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

		ballotSum, err := sumBallotSelections(grp, ballots, contestIndex, i)
		if err != nil {
			rec.Record(false, selCtx, string(record.TallySum), err.Error())
			continue
		}
		rec.Record(ballotSum.equal(alphaC), selCtx, "TallySum",
			"product of cast-ballot selection ciphertexts matches the declared encrypted tally")

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
	}
}

// sumBallotSelections sums the ciphertext at (contestIndex, selectionIndex)
// across every cast ballot that declares that many contests/selections.
func sumBallotSelections(grp *group.ModPGroup, ballots []record.CastBallotWire, contestIndex, selectionIndex int) (*ciphertext, error) {
	var cts []*ciphertext
	for _, b := range ballots {
		if contestIndex >= len(b.Contests) {
			return nil, fmt.Errorf("verify: ballot is missing contest #%d", contestIndex)
		}
		contest := b.Contests[contestIndex]
		if selectionIndex >= len(contest.Selections) {
			return nil, fmt.Errorf("verify: ballot contest #%d is missing selection #%d", contestIndex, selectionIndex)
		}
		c, err := decodeCiphertext(grp, contest.Selections[selectionIndex].Ciphertext, record.AlphaLoading)
		if err != nil {
			return nil, err
		}
		cts = append(cts, c)
	}
	if len(cts) == 0 {
		return nil, fmt.Errorf("verify: no cast ballots to sum")
	}
	return mulCiphertexts(grp, cts)
}
