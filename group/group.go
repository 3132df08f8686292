// Package group implements the order-q subgroup of Z*p (ModPGroup) and the
// product group G^k (PPGroup) the ElGamal layer and its Chaum-Pedersen/CDS
// proofs are expressed over.
package group

import (
	"encoding/binary"
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/bytetree"
	"github.com/nvotes/juvenal-lib/field"
)

// Encoding names the supported message<->element mapping. SafePrime is the
// only one the wire format names; any other value is rejected when
// parameters arrive on the wire.
type Encoding string

const SafePrime Encoding = "safe-prime"

// ModPGroup is the order-q subgroup of Z*p generated by g.
type ModPGroup struct {
	p, q, g *bigint.Int
	modulus *bigint.Modulus
	enc     Encoding
	byteLen int
}

// New constructs a ModPGroup from (p, q, g, encoding). It does not itself
// verify g^q = 1 mod p; callers parsing untrusted parameters must call
// CheckGenerator first.
func New(p, q, g *bigint.Int, enc Encoding) (*ModPGroup, error) {
	if enc != SafePrime {
		return nil, fmt.Errorf("group: unsupported encoding %q", enc)
	}
	byteLen := (p.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	return &ModPGroup{
		p: p.Clone(), q: q.Clone(), g: g.Clone(),
		modulus: bigint.NewModulus(p),
		enc:     enc,
		byteLen: byteLen,
	}, nil
}

// CheckGenerator verifies g^q = 1 mod p, the membership test the core
// assumes holds for named baseline parameters but must perform for any
// parameters arriving on the wire.
func (grp *ModPGroup) CheckGenerator() error {
	r, err := bigint.ModPow(grp.g, grp.q, grp.modulus)
	if err != nil {
		return fmt.Errorf("group: checking generator order: %w", err)
	}
	if !r.Equal(bigint.FromUint64(1)) {
		return fmt.Errorf("group: g^q != 1 mod p, generator does not have order q")
	}
	return nil
}

// P, Q, G return the group's defining parameters.
func (grp *ModPGroup) P() *bigint.Int { return grp.p }
func (grp *ModPGroup) Q() *bigint.Int { return grp.q }
func (grp *ModPGroup) G() *bigint.Int { return grp.g }

// ByteLen returns B_G = ceil(bitlen(p)/8).
func (grp *ModPGroup) ByteLen() int { return grp.byteLen }

// Field returns the scalar field Fq this group's exponents live in.
func (grp *ModPGroup) Field() *field.Field { return field.New(grp.q) }

// Generator returns the generator as a group element.
func (grp *ModPGroup) Generator() *Elt {
	return &Elt{g: grp, v: grp.g.Clone()}
}

// Identity returns the group identity, 1.
func (grp *ModPGroup) Identity() *Elt {
	return &Elt{g: grp, v: bigint.FromUint64(1)}
}

// Elem constructs an element from a BigInt magnitude, requiring
// 1 <= v < p and legendre(v, p) = 1 under the safe-prime encoding (the
// membership test for the order-q subgroup).
func (grp *ModPGroup) Elem(v *bigint.Int) (*Elt, error) {
	one := bigint.FromUint64(1)
	if v.Cmp(one) < 0 || v.Cmp(grp.p) >= 0 {
		return nil, fmt.Errorf("group: element value out of range [1, p)")
	}
	if grp.enc == SafePrime {
		if bigint.Legendre(v, grp.p) != 1 {
			return nil, fmt.Errorf("group: element is not a quadratic residue mod p")
		}
	}
	return &Elt{g: grp, v: v.Clone()}, nil
}

// Elt is a ModPGroup element.
type Elt struct {
	g *ModPGroup
	v *bigint.Int

	fixedBase []*bigint.Int // precomputed powers when Fix has been called
	fixedWidth uint
}

// Group returns the owning group.
func (e *Elt) Group() *ModPGroup { return e.g }

// Value returns the underlying residue, 1 <= v < p.
func (e *Elt) Value() *bigint.Int { return e.v }

func (e *Elt) sameGroup(o *Elt) error {
	if e.g != o.g {
		return fmt.Errorf("group: elements belong to different groups")
	}
	return nil
}

// Mul returns e*o mod p.
func (e *Elt) Mul(o *Elt) (*Elt, error) {
	if err := e.sameGroup(o); err != nil {
		return nil, err
	}
	prod := bigint.Mul(e.v, o.v)
	return &Elt{g: e.g, v: e.g.modulus.Reduce(prod)}, nil
}

// Inv returns e^-1 mod p.
func (e *Elt) Inv() (*Elt, error) {
	inv, err := bigint.ModInv(e.v, e.g.p)
	if err != nil {
		return nil, fmt.Errorf("group: inverting element: %w", err)
	}
	return &Elt{g: e.g, v: inv}, nil
}

// Equal reports value equality within the same group.
func (e *Elt) Equal(o *Elt) bool {
	return e.g == o.g && e.v.Equal(o.v)
}

// Exp raises e to a scalar exponent, which may be a *field.Elt from Fq or a
// raw *bigint.Int.
func (e *Elt) Exp(x interface{}) (*Elt, error) {
	exp, err := exponent(x)
	if err != nil {
		return nil, err
	}
	r, err := bigint.ModPow(e.v, exp, e.g.modulus)
	if err != nil {
		return nil, fmt.Errorf("group: exponentiating: %w", err)
	}
	return &Elt{g: e.g, v: r}, nil
}

func exponent(x interface{}) (*bigint.Int, error) {
	switch v := x.(type) {
	case *field.Elt:
		return v.Value(), nil
	case *bigint.Int:
		return v, nil
	default:
		return nil, fmt.Errorf("group: exponent must be a field element or BigInt, got %T", x)
	}
}

// Fix precomputes a product table enabling fast repeated exponentiation with
// e as a fixed base, amortized over n subsequent ExpFixed calls (Exp does not
// use the table). Width is chosen from the modulus bit length and n: wider
// as n grows (more calls justify a wider, more expensive table).
func (e *Elt) Fix(n int) {
	bits := e.g.p.BitLen()
	width := uint(2)
	switch {
	case bits >= 2048 && n >= 64:
		width = 6
	case bits >= 1024 && n >= 32:
		width = 5
	case n >= 16:
		width = 4
	case n >= 4:
		width = 3
	}
	table := make([]*bigint.Int, 1<<(width-1))
	// table[i] = e^(2i+1), the odd powers a windowed exponentiation needs.
	cur := e.v.Clone()
	sq, _ := bigint.ModPow(e.v, bigint.FromUint64(2), e.g.modulus)
	for i := range table {
		table[i] = cur
		cur = e.g.modulus.Reduce(bigint.Mul(cur, sq))
	}
	e.fixedBase = table
	e.fixedWidth = width
}

// ExpFixed exponentiates using the table built by Fix, if one exists, via
// left-to-right windowed exponentiation over the precomputed odd powers;
// it falls back to plain Exp when Fix has not been called.
func (e *Elt) ExpFixed(x interface{}) (*Elt, error) {
	if e.fixedBase == nil {
		return e.Exp(x)
	}
	exp, err := exponent(x)
	if err != nil {
		return nil, err
	}
	k := int(e.fixedWidth)
	result := bigint.FromUint64(1)
	bits := exp.BitLen()
	i := bits - 1
	for i >= 0 {
		if exp.Bit(i) == 0 {
			result = e.g.modulus.Reduce(bigint.Mul(result, result))
			i--
			continue
		}
		// find the window [j, i] of length <= k ending with a 1 bit at i
		j := i - k + 1
		if j < 0 {
			j = 0
		}
		for exp.Bit(j) == 0 {
			j++
		}
		for b := 0; b < i-j+1; b++ {
			result = e.g.modulus.Reduce(bigint.Mul(result, result))
		}
		windowVal := 0
		for b := i; b >= j; b-- {
			windowVal <<= 1
			windowVal |= int(exp.Bit(b))
		}
		result = e.g.modulus.Reduce(bigint.Mul(result, e.fixedBase[(windowVal-1)/2]))
		i = j - 1
	}
	return &Elt{g: e.g, v: result}, nil
}

// EncodeMessage maps an arbitrary byte payload into a group element: a
// 4-byte big-endian length prefix is prepended to the payload, left-aligned
// into a B_G-1-byte buffer and zero-padded on the right, the result
// interpreted mod p as a big-endian BigInt, and flipped to its additive
// inverse when it is not a quadratic residue (the residue/non-residue pair
// covers every coset representative of the order-q subgroup). A zero-length
// payload's buffer would otherwise be all zero bytes, so it gets one
// nonzero trailing padding byte to avoid encoding zero.
func (grp *ModPGroup) EncodeMessage(payload []byte) (*Elt, error) {
	bufLen := grp.byteLen - 1
	maxPayload := bufLen - 4
	if maxPayload < 0 {
		return nil, fmt.Errorf("group: group modulus too small to encode a length prefix")
	}
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("group: payload of %d bytes exceeds max encode length %d", len(payload), maxPayload)
	}
	buf := make([]byte, bufLen)
	binary.BigEndian.PutUint32(buf[:4], uint32(len(payload)))
	copy(buf[4:], payload)
	if len(payload) == 0 {
		buf[bufLen-1] = 0x01
	}

	v, err := bigint.Mod(bigint.FromBytes(buf), grp.p)
	if err != nil {
		return nil, err
	}
	if bigint.Legendre(v, grp.p) != 1 {
		v, err = bigint.Sub(grp.p, v)
		if err != nil {
			return nil, err
		}
	}
	return &Elt{g: grp, v: v}, nil
}

// DecodeMessage reads the 4-byte length prefix out of an element encoded by
// EncodeMessage (or its additive-inverse twin) and returns the payload.
func (e *Elt) DecodeMessage() ([]byte, error) {
	if p, err := decodeMessageFrom(e.v, e.g); err == nil {
		return p, nil
	}
	inv, err := bigint.Sub(e.g.p, e.v)
	if err != nil {
		return nil, fmt.Errorf("group: value not decodable as a message")
	}
	return decodeMessageFrom(inv, e.g)
}

func decodeMessageFrom(v *bigint.Int, grp *ModPGroup) ([]byte, error) {
	bufLen := grp.byteLen - 1
	raw := v.Bytes()
	if len(raw) > bufLen {
		return nil, fmt.Errorf("group: element too large to be a padded message")
	}
	buf := make([]byte, bufLen)
	copy(buf[bufLen-len(raw):], raw)
	if bufLen < 4 {
		return nil, fmt.Errorf("group: buffer shorter than length prefix")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	maxPayload := bufLen - 4
	if int(n) > maxPayload {
		return nil, fmt.Errorf("group: declared payload length %d exceeds buffer", n)
	}
	payload := make([]byte, n)
	copy(payload, buf[4:4+int(n)])
	return payload, nil
}

// EltFromBytes decodes a fixed-width, B_G-byte encoding into a group
// element, requiring it to satisfy the same range and residue constraints
// as Elem.
func (grp *ModPGroup) EltFromBytes(b []byte) (*Elt, error) {
	if len(b) != grp.byteLen {
		return nil, fmt.Errorf("group: element encoding must be %d bytes, got %d", grp.byteLen, len(b))
	}
	v := bigint.FromBytes(b)
	return grp.Elem(v)
}

// Bytes encodes e as a fixed-width, B_G-byte big-endian string.
func (e *Elt) Bytes() []byte {
	raw := e.v.Bytes()
	out := make([]byte, e.g.byteLen)
	copy(out[e.g.byteLen-len(raw):], raw)
	return out
}

// ByteTree returns e's Fiat-Shamir hash-input leaf.
func (e *Elt) ByteTree() bytetree.Tree {
	return bytetree.NewLeaf(e.Bytes())
}
