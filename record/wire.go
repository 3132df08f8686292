package record

import (
	"encoding/json"
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
)

// ParseBigInt parses a decimal string from the wire into a non-negative
// BigInt. Every large natural number in an election record is a decimal
// string, never hex or base64.
func ParseBigInt(s string) (*bigint.Int, error) {
	v, err := bigint.FromDecimalString(s)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return v, nil
}

// SchnorrProofWire is a Schnorr proof's wire shape: commitment in G,
// challenge and response in Fq.
type SchnorrProofWire struct {
	Commitment string `json:"commitment"`
	Challenge  string `json:"challenge"`
	Response   string `json:"response"`
}

// ChaumPedersenProofWire is a Chaum-Pedersen proof's wire shape: the
// commitment lies in G x G, so it is split into two fields.
type ChaumPedersenProofWire struct {
	CommitmentA string `json:"commitment_a"`
	CommitmentB string `json:"commitment_b"`
	Challenge   string `json:"challenge"`
	Response    string `json:"response"`
}

// ZeroOrOneProofWire is a pair of Chaum-Pedersen triples sharing structure,
// proving an encrypted selection is 0 or 1.
type ZeroOrOneProofWire struct {
	ZeroProof ChaumPedersenProofWire `json:"zero_proof"`
	OneProof  ChaumPedersenProofWire `json:"one_proof"`
}

// CiphertextWire is an ElGamal ciphertext (alpha, beta) = (g^r, K^r * g^m).
type CiphertextWire struct {
	Alpha string `json:"alpha"`
	Beta  string `json:"beta"`
}

// SelectionWire is one cast selection: its ciphertext and zero-or-one proof.
type SelectionWire struct {
	Ciphertext CiphertextWire    `json:"ciphertext"`
	Proof      ZeroOrOneProofWire `json:"proof"`
}

// ContestWire is one contest on a cast ballot.
type ContestWire struct {
	Selections    []SelectionWire        `json:"selections"`
	MaxSelections int                    `json:"max_selections"`
	SumProof      ChaumPedersenProofWire `json:"sum_proof"`
}

// CastBallotWire is a single cast, encrypted ballot.
type CastBallotWire struct {
	Contests []ContestWire `json:"contests"`
}

// ShareWire is one trustee's decryption share and its correctness proof.
type ShareWire struct {
	Share string                 `json:"share"`
	Proof ChaumPedersenProofWire `json:"proof"`
}

// TallySelectionWire is a tallied or spoiled selection: the homomorphically
// combined ciphertext, its claimed plaintext exponentiation, the trustees'
// decryption shares, and the cleartext. EncryptionProof is only present on
// spoiled-ballot selections, which encrypt a single ballot's choice rather
// than a sum; it is nil for tally selections.
type TallySelectionWire struct {
	EncryptedTally  CiphertextWire      `json:"encrypted_tally"`
	DecryptedTally  string              `json:"decrypted_tally"`
	Shares          []ShareWire         `json:"shares"`
	Cleartext       int64               `json:"cleartext"`
	EncryptionProof *ZeroOrOneProofWire `json:"encryption_proof,omitempty"`
}

// TallyContestWire is one contest's aggregate tally, one entry per selection.
type TallyContestWire struct {
	Selections []TallySelectionWire `json:"selections"`
}

// SpoiledContestWire is one contest of a spoiled ballot: structured like a
// tally contest but without ballot-level aggregation, plus its own
// max-selections bound for the cleartext-sum check.
type SpoiledContestWire struct {
	MaxSelections int                  `json:"max_selections"`
	Selections    []TallySelectionWire `json:"selections"`
}

// SpoiledBallotWire is a ballot decrypted selection-wise for audit.
type SpoiledBallotWire struct {
	Contests []SpoiledContestWire `json:"contests"`
}

// CoefficientWire is one trustee's polynomial coefficient commitment and its
// Schnorr proof of knowledge of the exponent.
type CoefficientWire struct {
	Commitment string           `json:"commitment"`
	Proof      SchnorrProofWire `json:"proof"`
}

// ParametersWire is the election's declared public parameters.
type ParametersWire struct {
	NumTrustees int    `json:"num_trustees"`
	Threshold   int    `json:"threshold"`
	Prime       string `json:"prime"`
	Generator   string `json:"generator"`
	Date        string `json:"date"`
}

// Wire is the top-level election record document.
type Wire struct {
	Parameters        ParametersWire      `json:"parameters"`
	TrusteePublicKeys [][]CoefficientWire `json:"trustee_public_keys"`
	JointPublicKey    string              `json:"joint_public_key"`
	BaseHash          string              `json:"base_hash"`
	ExtendedBaseHash  string              `json:"extended_base_hash"`
	CastBallots       []CastBallotWire    `json:"cast_ballots"`
	ContestTallies    []TallyContestWire  `json:"contest_tallies"`
	SpoiledBallots    []SpoiledBallotWire `json:"spoiled_ballots"`
}

// Parse unmarshals a raw election record document. A structural failure
// here (invalid JSON, or the document does not even resemble the schema's
// shape) is a structural fatal per the error-handling design: it terminates
// at the record-loading boundary rather than becoming a predicate failure.
func Parse(data []byte) (*Wire, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("record: parsing election record: %w", err)
	}
	return &w, nil
}
