package verify

import (
	"testing"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// toyGroup matches the p=167/q=83/g=4 group used throughout package sigma
// and package group's own tests: small enough to hand-derive genuine proofs
// for, too small for real security.
func toyGroup(t *testing.T) *group.ModPGroup {
	p, _ := bigint.FromDecimalString("167")
	q, _ := bigint.FromDecimalString("83")
	g, _ := bigint.FromDecimalString("4")
	grp, err := group.New(p, q, g, group.SafePrime)
	if err != nil {
		t.Fatalf("group.New: %s", err)
	}
	return grp
}

func d(n int) string { return bigint.FromUint64(uint64(n)).DecimalString() }

// buildGenuineRecord constructs a one-trustee, one-ballot, one-contest,
// one-selection election record over the toy group, with every proof
// genuinely computed (not copied from elsewhere), so that a correct verifier
// accepts it end to end. The constants below come from an out-of-band
// derivation of each proof's Fiat-Shamir challenge over the exact byte-tree
// framing package sigma uses, not from running this code.
func buildGenuineRecord() *record.Wire {
	return &record.Wire{
		Parameters: record.ParametersWire{
			NumTrustees: 1,
			Threshold:   1,
			Prime:       d(167),
			Generator:   d(4),
		},
		TrusteePublicKeys: [][]record.CoefficientWire{
			{
				{
					Commitment: d(18),
					Proof: record.SchnorrProofWire{
						Commitment: d(99),
						Challenge:  d(81),
						Response:   d(80),
					},
				},
			},
		},
		JointPublicKey: d(18),
		CastBallots: []record.CastBallotWire{
			{
				Contests: []record.ContestWire{
					{
						MaxSelections: 1,
						Selections: []record.SelectionWire{
							{
								Ciphertext: record.CiphertextWire{Alpha: d(99), Beta: d(38)},
								Proof: record.ZeroOrOneProofWire{
									ZeroProof: record.ChaumPedersenProofWire{
										CommitmentA: d(50),
										CommitmentB: d(36),
										Challenge:   d(19),
										Response:    d(29),
									},
									OneProof: record.ChaumPedersenProofWire{
										CommitmentA: d(81),
										CommitmentB: d(72),
										Challenge:   d(75),
										Response:    d(8),
									},
								},
							},
						},
						SumProof: record.ChaumPedersenProofWire{
							CommitmentA: d(28),
							CommitmentB: d(19),
							Challenge:   d(77),
							Response:    d(34),
						},
					},
				},
			},
		},
		ContestTallies: []record.TallyContestWire{
			{
				Selections: []record.TallySelectionWire{
					{
						EncryptedTally: record.CiphertextWire{Alpha: d(99), Beta: d(38)},
						DecryptedTally: d(4),
						Cleartext:      1,
						Shares: []record.ShareWire{
							{
								Share: d(93),
								Proof: record.ChaumPedersenProofWire{
									CommitmentA: d(126),
									CommitmentB: d(89),
									Challenge:   d(82),
									Response:    d(16),
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestVerifyAcceptsGenuineRecord(t *testing.T) {
	grp := toyGroup(t)
	e := NewElection(buildGenuineRecord(), Options{})
	e.grp = grp
	rec := recorder.NewCollectingRecorder()
	if err := e.Verify(rec); err != nil {
		t.Fatalf("Verify: %s", err)
	}
	for _, f := range rec.Failures() {
		// BaselineEncryptionModulus/Generator and the two hash checks are
		// expected to fail against the toy group; everything else derived
		// from the record's own proofs must pass.
		switch f.Name {
		case "BaselineEncryptionModulus", "BaselineEncryptionGenerator",
			"ElectionBaseHash", "ElectionExtendedBaseHash":
			continue
		default:
			t.Errorf("unexpected failure: %s", f.String())
		}
	}
}

func TestVerifyRejectsTamperedShareProof(t *testing.T) {
	grp := toyGroup(t)
	w := buildGenuineRecord()
	w.ContestTallies[0].Selections[0].Shares[0].Proof.Response = d(17)
	e := NewElection(w, Options{})
	e.grp = grp
	rec := recorder.NewCollectingRecorder()
	if err := e.Verify(rec); err != nil {
		t.Fatalf("Verify: %s", err)
	}

	const selCtx = "Election / Tally, contest #0 / Selection #0"

	found := false
	for _, f := range rec.Failures() {
		if f.Name == "ChaumPedersenProof" && f.ContextPath() == selCtx+" / Share #0" {
			found = true
		}
		// A bad proof is not a load failure: it must not also trip the
		// SharesLoading umbrella, and it must not suppress the downstream
		// tally predicates for this selection.
		if f.Name == string(record.SharesLoading) {
			t.Errorf("unexpected SharesLoading failure from a tampered (but parseable) share proof: %+v", f)
		}
	}
	if !found {
		t.Fatalf("expected a ChaumPedersenProof failure at the tampered share, got: %+v", rec.Failures())
	}

	var sawDecryptionMatches, sawCleartextMatches bool
	for _, e := range rec.Entries {
		if e.ContextPath() != selCtx {
			continue
		}
		switch e.Name {
		case "DecryptionMatches":
			sawDecryptionMatches = true
		case "CleartextMatches":
			sawCleartextMatches = true
		}
	}
	if !sawDecryptionMatches || !sawCleartextMatches {
		t.Fatalf("expected DecryptionMatches and CleartextMatches to still run despite the tampered proof, got: %+v", rec.Entries)
	}
}

func TestVerifyRejectsWrongNumberOfCoefficients(t *testing.T) {
	grp := toyGroup(t)
	w := buildGenuineRecord()
	w.Parameters.Threshold = 2
	e := NewElection(w, Options{})
	e.grp = grp
	rec := recorder.NewCollectingRecorder()
	if err := e.Verify(rec); err != nil {
		t.Fatalf("Verify: %s", err)
	}
	found := false
	for _, f := range rec.Failures() {
		if f.Name == "NumberOfCoefficients" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a NumberOfCoefficients failure")
	}
}

func TestVerifyRejectsUnparsableShare(t *testing.T) {
	grp := toyGroup(t)
	w := buildGenuineRecord()
	w.ContestTallies[0].Selections[0].Shares[0].Share = "not-a-number"
	e := NewElection(w, Options{})
	e.grp = grp
	rec := recorder.NewCollectingRecorder()
	if err := e.Verify(rec); err != nil {
		t.Fatalf("Verify: %s", err)
	}
	var sawShareLoading, sawSharesLoading bool
	for _, f := range rec.Failures() {
		if f.Name == string(record.ShareLoading) {
			sawShareLoading = true
		}
		if f.Name == string(record.SharesLoading) {
			sawSharesLoading = true
		}
	}
	if !sawShareLoading || !sawSharesLoading {
		t.Fatalf("expected both ShareLoading and SharesLoading failures, got: %+v", rec.Failures())
	}
}
