// Package record holds the on-wire JSON shapes of an ElectionGuard v0.85
// election record and the typed failures raised while loading them. It does
// not itself know about groups or fields: it exposes raw decimal strings and
// a BigInt parser, leaving field/group construction to the verify and proof
// layers once the record's own parameters have been read.
package record

import "fmt"

// Code is a stable, test-observable identifier for a loading failure.
type Code string

const (
	AlphaLoading                 Code = "AlphaLoading"
	ShareLoading                 Code = "ShareLoading"
	SharesLoading                Code = "SharesLoading"
	LoadingBallots                Code = "LoadingBallots"
	DecryptionData                Code = "DecryptionData"
	CleartextMatches              Code = "CleartextMatches"
	TallySum                      Code = "TallySum"
	ChaumPedersenProof            Code = "ChaumPedersenProof"
	ZeroOrOneProof                Code = "ZeroOrOneProof"
	SchnorrProof                  Code = "SchnorrProof"
	CoefficientCommitmentLoading  Code = "CoefficientCommitmentLoading"
	CastBallot                    Code = "CastBallot"
)

// Fault is a tagged-variant failure: a stable Code plus an advisory message.
// It is always a predicate failure or a loading error, never a panic path.
type Fault struct {
	Code    Code
	Message string
	Err     error
}

// NewFault builds a Fault, optionally wrapping an underlying error.
func NewFault(code Code, message string, err error) *Fault {
	return &Fault{Code: code, Message: message, Err: err}
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %s", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }
