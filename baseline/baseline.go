// Package baseline holds the fixed ElectionGuard v0.85 parameters every
// verified record is checked against, and computes the base-hash and
// extended-base-hash chain a record's declared hashes must match.
package baseline

import (
	"crypto/sha256"
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/bytetree"
	"github.com/nvotes/juvenal-lib/group"
)

// decimal literals for q = 2^256 - 189, p = 2^4096 - 69*q -
// 2650872664557734482243044168410288960 (the largest 4096-bit prime congruent
// to 1 mod q), and g = 2^((p-1)/q) mod p.
const (
	qDecimal = "115792089237316195423570985008687907853269984665640564039457584007913129639747"
	pDecimal = "1044388881413152506691752710716624382579964249047383780384233483283953907971557456848826811934997558340890106714439262837987573438185793607263236087851365277945956976543709998340361590134383718314428070011855946226376318839397712745672334684344586617496807908705803704071284048740118609114467977783598029006686938976881787785946905630190260940599579453432823469303026696443059025015972399867714215541693835559885291486318237914434496734087811872639496475100189041349008417061675093668333850551032972088269550769983616369411933015213796825837188091833656751221318492846368125550225998300412344784862595674492194617023806505913245610825731835380087608622102834270197698202313169017678006675195485079921636419370285375124784014907159135459982790513399611551794271106831134090584272884279791554849782954323534517065223269061394905987693002122963395687782878948440616007412945674919823050571642377154816321380631045902916136926708342856440730447899971901781465763473223850267253059899795996090799469201774624817718449867455659250178329070473119433165550807568221846571746373296884912819520317457002440926616910874148385078411929804522981857338977648103126085895011648256092372242446818525911665961045150145231572613786749168750228798758833"
	gDecimal = "633902738424928856783669360417409461352724866437176267937054971987929518113968311572018846775440350331394872441420725806863767569147521628581387346133794141162759618915434384470928048515684966754389921404728037087585951549298706749491681316440418023335644037157549668734734747234193236480208211700649047792505290394509276323498712019417085994608675098219625068478389802372911974790447602798848267203035795626948013815751746314708193865142515067213438779931341448784231764283922931059803394647357407601820746377200693540251395985610151207325893305136968984729108604308872514815118245429658506703427331797397729626291989388778680839647127066755635696870257359738766274560298982571341199340105150191282665463341766016615086716556537263439886148093374656225718217401337340651580107886515914073965138178083420939392671278560530056147682312589783964279302141118430614587577025403023718516789910534505871873011436491653121601912717709648600938567837813521742472036386528727473354399846339619270536399678071529700504925046483796750809603796528358402843506478188359404393987635666119244256746743854126114174948922250715011664059118382465474343042744744366613138372697678748514832068141362891787033831013749278870696574778057534613154041019988"
)

// Q, P, G return freshly cloned copies of the baseline parameters.
func Q() *bigint.Int { return mustDecimal(qDecimal) }
func P() *bigint.Int { return mustDecimal(pDecimal) }
func G() *bigint.Int { return mustDecimal(gDecimal) }

func mustDecimal(s string) *bigint.Int {
	v, err := bigint.FromDecimalString(s)
	if err != nil {
		panic(fmt.Sprintf("baseline: invalid embedded constant: %s", err))
	}
	return v
}

// Group builds the ModPGroup for the baseline parameters.
func Group() (*group.ModPGroup, error) {
	return group.New(P(), Q(), G(), group.SafePrime)
}

// hashNode hashes a bytetree node with SHA-256, returning the raw digest
// rather than a reduced field element: base-hash chaining operates on raw
// 32-byte digests, not Fq elements, unlike Fiat-Shamir challenges.
func hashNode(children ...bytetree.Tree) []byte {
	digest := sha256.Sum256(bytetree.NewNode(children...).Encode())
	return digest[:]
}

// BaseHash computes Q = H(p, q, g), chaining the three baseline parameters
// through the same byte-tree framing used everywhere else in this verifier
// for canonical hash input, rather than a bespoke wire format.
func BaseHash(p, q, g *bigint.Int) []byte {
	return hashNode(
		bytetree.NewLeaf(p.Bytes()),
		bytetree.NewLeaf(q.Bytes()),
		bytetree.NewLeaf(g.Bytes()),
	)
}

// ExtendedBaseHash computes Q-bar = H(Q, n, t, jointPublicKey, commitments),
// chaining the base hash together with the election-specific parameters and
// every trustee's declared coefficient commitments, so that changing any
// trustee's declared public material changes the extended base hash.
func ExtendedBaseHash(baseHash []byte, numTrustees, threshold int, jointPublicKey *bigint.Int, commitments [][]*bigint.Int) []byte {
	rows := make([]bytetree.Tree, len(commitments))
	for i, row := range commitments {
		cells := make([]bytetree.Tree, len(row))
		for j, c := range row {
			cells[j] = bytetree.NewLeaf(c.Bytes())
		}
		rows[i] = bytetree.NewNode(cells...)
	}
	return hashNode(
		bytetree.NewLeaf(baseHash),
		bytetree.NewLeaf(bigint.FromUint64(uint64(numTrustees)).Bytes()),
		bytetree.NewLeaf(bigint.FromUint64(uint64(threshold)).Bytes()),
		bytetree.NewLeaf(jointPublicKey.Bytes()),
		bytetree.NewNode(rows...),
	)
}

// CheckBaseHash reports whether declared matches the freshly computed base
// hash for (p, q, g).
func CheckBaseHash(declared []byte, p, q, g *bigint.Int) bool {
	computed := BaseHash(p, q, g)
	return equalBytes(declared, computed)
}

// CheckExtendedBaseHash reports whether declared matches the freshly
// computed extended base hash.
func CheckExtendedBaseHash(declared, baseHash []byte, numTrustees, threshold int, jointPublicKey *bigint.Int, commitments [][]*bigint.Int) bool {
	computed := ExtendedBaseHash(baseHash, numTrustees, threshold, jointPublicKey, commitments)
	return equalBytes(declared, computed)
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
