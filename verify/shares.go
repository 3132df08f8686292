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

// publicKeysByTrustee returns each trustee's public key share (coefficient-0
// commitment), in trustee order, or nil for any trustee whose commitment
// could not be parsed.
func publicKeysByTrustee(grp *group.ModPGroup, keys [][]record.CoefficientWire) []*group.Elt {
	out := make([]*group.Elt, len(keys))
	for i, row := range keys {
		if len(row) == 0 {
			continue
		}
		v, err := record.ParseBigInt(row[0].Commitment)
		if err != nil {
			continue
		}
		e, err := grp.Elem(v)
		if err != nil {
			continue
		}
		out[i] = e
	}
	return out
}

// verifySelectionShares walks one selection's per-trustee decryption shares.
// A share M_k = alpha^s_k and its trustee's public key Y_k = g^s_k share the
// same secret exponent s_k, so its Chaum-Pedersen proof is checked against
// basis (g, alpha) and instance (Y_k, M_k). Returns the combined decryption
// factor M = product of shares.
//
// loaded is false only when a share's own value failed to parse or construct
// (the SharesLoading umbrella failure recorded by the caller); combined is
// then the product of the shares that did load. A cryptographically invalid Chaum-Pedersen proof is a separate,
// per-share ChaumPedersenProof failure that still contributes its share to
// combined and leaves loaded true, so the caller can still proceed to
// TallySum/DecryptionMatches/CleartextMatches.
func verifySelectionShares(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field, g *group.Elt, publicKeys []*group.Elt, alpha *group.Elt, shares []record.ShareWire) (combined *group.Elt, loaded bool) {
	pg, err := group.NewPPGroup(grp, 2)
	if err != nil {
		return nil, false
	}

	loaded = true
	combined = grp.Identity()
	for k, sh := range shares {
		shareCtx := ctxPush(ctx, fmt.Sprintf("Share #%d", k))
		v, err := record.ParseBigInt(sh.Share)
		if err != nil {
			rec.Record(false, shareCtx, string(record.ShareLoading), err.Error())
			loaded = false
			continue
		}
		M, err := grp.Elem(v)
		if err != nil {
			rec.Record(false, shareCtx, string(record.ShareLoading), err.Error())
			loaded = false
			continue
		}

		// M parsed: it contributes to the decryption factor regardless of
		// whether its proof checks out below.
		combined, err = combined.Mul(M)
		if err != nil {
			loaded = false
			continue
		}

		var pubKey *group.Elt
		if k < len(publicKeys) {
			pubKey = publicKeys[k]
		}
		if pubKey == nil {
			rec.Record(false, shareCtx, "ChaumPedersenProof", "share correctness (trustee public key unavailable)")
			continue
		}

		basis, err := pg.Prod([]*group.Elt{g, alpha})
		if err != nil {
			rec.Record(false, shareCtx, "ChaumPedersenProof", err.Error())
			continue
		}
		instance, err := pg.Prod([]*group.Elt{pubKey, M})
		if err != nil {
			rec.Record(false, shareCtx, "ChaumPedersenProof", err.Error())
			continue
		}
		valid, verr := proof.VerifyChaumPedersen(fq, basis, labelShare, instance, sh.Proof)
		if verr != nil {
			rec.Record(false, shareCtx, "ChaumPedersenProof", verr.Error())
			continue
		}
		rec.Record(valid, shareCtx, "ChaumPedersenProof", "share correctness")
	}
	return combined, loaded
}

// decryptionMatches reports whether beta * combined^-1 equals the declared
// decrypted-tally group element.
func decryptionMatches(beta, combined, declared *group.Elt) (bool, error) {
	inv, err := combined.Inv()
	if err != nil {
		return false, err
	}
	lhs, err := beta.Mul(inv)
	if err != nil {
		return false, err
	}
	return lhs.Equal(declared), nil
}

// cleartextMatches reports whether g^cleartext equals the declared
// decrypted-tally group element.
func cleartextMatches(g *group.Elt, cleartext int64, declared *group.Elt) (bool, error) {
	if cleartext < 0 {
		return false, fmt.Errorf("verify: cleartext %d is negative", cleartext)
	}
	gm, err := g.Exp(bigint.FromUint64(uint64(cleartext)))
	if err != nil {
		return false, err
	}
	return gm.Equal(declared), nil
}
