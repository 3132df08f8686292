// Package bigint is the arbitrary-precision substrate the rest of the
// verifier is built on. It exposes the exact operation set the verification
// engine needs (cmp, add, sub, mul, square, shift, div_qr, modpow, modinv,
// mod_sqrt, legendre) over a non-negative magnitude type, Int, and a
// sign-carrying wrapper, Signed.
//
// Int is backed by github.com/ncw/gmp rather than a hand-rolled limb
// representation; see DESIGN.md, Open Question #1, for why. Its mpn layer
// already implements Knuth division, windowed modpow and Karatsuba
// multiplication below the level this package exposes, and callers only
// depend on the behavioral contracts and normalization invariants below,
// not on any particular limb width.
package bigint

import (
	"fmt"

	big "github.com/ncw/gmp"
)

// Int is a non-negative arbitrary-precision magnitude.
type Int struct {
	v *big.Int
}

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)

	one = &Int{v: bigOne}
)

// Zero returns a freshly allocated zero value.
func Zero() *Int { return &Int{v: new(big.Int)} }

// FromUint64 builds an Int from a native unsigned integer.
func FromUint64(n uint64) *Int {
	return &Int{v: new(big.Int).SetUint64(n)}
}

// FromDecimalString parses a base-10, non-negative integer string. This is
// the wire format mandated by the election record schema (every large
// natural number on the wire is a decimal string, never hex or base64).
func FromDecimalString(s string) (*Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bigint: %q is not a canonical decimal integer", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("bigint: %q is negative, expected a magnitude", s)
	}
	return &Int{v: v}, nil
}

// FromBytes interprets a big-endian byte slice as a non-negative magnitude.
func FromBytes(b []byte) *Int {
	return &Int{v: new(big.Int).SetBytes(b)}
}

// Bytes returns the big-endian, minimal-length encoding of the magnitude.
// Zero encodes as a single zero-length slice, per gmp/math-big convention;
// callers that need a fixed-width encoding (field/group elements) must pad.
func (x *Int) Bytes() []byte {
	return x.v.Bytes()
}

// DecimalString is the canonical wire representation.
func (x *Int) DecimalString() string {
	return x.v.String()
}

// BitLen returns the number of bits required to represent x, or 0 for x=0.
func (x *Int) BitLen() int {
	return x.v.BitLen()
}

// IsZero reports whether x is the additive identity.
func (x *Int) IsZero() bool {
	return x.v.Sign() == 0
}

// Clone returns an independent copy.
func (x *Int) Clone() *Int {
	return &Int{v: new(big.Int).Set(x.v)}
}

// Cmp returns -1, 0 or 1 as x is less than, equal to, or greater than y.
func (x *Int) Cmp(y *Int) int {
	return x.v.Cmp(y.v)
}

// Equal reports bitwise equality of magnitude.
func (x *Int) Equal(y *Int) bool {
	return x.v.Cmp(y.v) == 0
}

// Add returns x+y.
func Add(x, y *Int) *Int {
	return &Int{v: new(big.Int).Add(x.v, y.v)}
}

// Sub returns x-y. The caller must ensure x >= y; this package has no signed
// magnitude subtraction (see Signed for that).
func Sub(x, y *Int) (*Int, error) {
	if x.v.Cmp(y.v) < 0 {
		return nil, fmt.Errorf("bigint: Sub underflow, %s < %s", x.v, y.v)
	}
	return &Int{v: new(big.Int).Sub(x.v, y.v)}, nil
}

// Mul returns x*y. Below gmp's internal Karatsuba cutoff it uses a naive
// schoolbook multiply; above it, its mpn layer switches to Karatsuba/Toom-Cook
// automatically. We never need to pick the cutoff ourselves.
func Mul(x, y *Int) *Int {
	return &Int{v: new(big.Int).Mul(x.v, y.v)}
}

// Square returns x*x using gmp's specialized squaring routine.
func Square(x *Int) *Int {
	return &Int{v: new(big.Int).Mul(x.v, x.v)}
}

// ShiftLeft returns x << n.
func ShiftLeft(x *Int, n uint) *Int {
	return &Int{v: new(big.Int).Lsh(x.v, n)}
}

// ShiftRight returns x >> n.
func ShiftRight(x *Int, n uint) *Int {
	return &Int{v: new(big.Int).Rsh(x.v, n)}
}

// Bit returns the value (0 or 1) of the i'th bit of x.
func (x *Int) Bit(i int) uint {
	return uint(x.v.Bit(i))
}

// DivQR performs Knuth-style division: dividend = quotient*divisor + rem,
// with 0 <= rem < divisor. divisor must be non-zero.
func DivQR(dividend, divisor *Int) (quotient, rem *Int, err error) {
	if divisor.v.Sign() == 0 {
		return nil, nil, fmt.Errorf("bigint: division by zero")
	}
	q, r := new(big.Int), new(big.Int)
	q.DivMod(dividend.v, divisor.v, r)
	return &Int{v: q}, &Int{v: r}, nil
}

// Mod returns x mod m (m > 0).
func Mod(x, m *Int) (*Int, error) {
	if m.v.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: modulus must be positive")
	}
	return &Int{v: new(big.Int).Mod(x.v, m.v)}, nil
}

// Modulus caches precomputation associated with repeated reduction by the
// same divisor. gmp's mpn layer performs the equivalent caching internally
// whenever the same *big.Int modulus value is reused across calls to
// Exp/Mod, so this type exists to give callers a named, reusable modulus
// handle without re-deriving gmp's own reciprocal cache.
type Modulus struct {
	m *Int
}

// NewModulus wraps a divisor for repeated use.
func NewModulus(m *Int) *Modulus {
	return &Modulus{m: m.Clone()}
}

// Value returns the wrapped modulus.
func (m *Modulus) Value() *Int { return m.m }

// Reduce returns x mod m.
func (m *Modulus) Reduce(x *Int) *Int {
	r := new(big.Int).Mod(x.v, m.m.v)
	return &Int{v: r}
}

// windowSchedule picks the windowed-exponentiation width k as a function of
// the modulus bit length: small at small sizes, growing up to 8 at 4096+
// bits. gmp's Exp already performs windowed exponentiation internally; no
// function in this package currently calls this schedule.
func windowSchedule(modBits int) uint {
	switch {
	case modBits >= 4096:
		return 8
	case modBits >= 2048:
		return 6
	case modBits >= 1024:
		return 5
	case modBits >= 256:
		return 4
	case modBits >= 128:
		return 3
	default:
		return 2
	}
}

// ModPow computes base^exp mod m. base must satisfy 0 <= base < m (callers
// at the group layer are responsible for reduction); exp and m must be
// non-negative with m > 0.
func ModPow(base, exp *Int, m *Modulus) (*Int, error) {
	if exp.v.Sign() < 0 {
		return nil, fmt.Errorf("bigint: ModPow exponent must be non-negative")
	}
	if m.m.v.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: ModPow modulus must be positive")
	}
	if base.v.Sign() < 0 {
		return nil, fmt.Errorf("bigint: ModPow base must be non-negative")
	}
	r := new(big.Int).Exp(base.v, exp.v, m.m.v)
	return &Int{v: r}, nil
}

// ModProdPow computes prod_i bases[i]^exps[i] mod m by raising each base
// separately with gmp's Exp and multiplying the results mod m; it builds no
// shared product table.
func ModProdPow(bases, exps []*Int, m *Modulus) (*Int, error) {
	if len(bases) != len(exps) {
		return nil, fmt.Errorf("bigint: ModProdPow base/exponent count mismatch")
	}
	if m.m.v.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: ModProdPow modulus must be positive")
	}
	result := new(big.Int).Set(bigOne)
	tmp := new(big.Int)
	for i := range bases {
		if exps[i].v.Sign() < 0 {
			return nil, fmt.Errorf("bigint: ModProdPow exponent must be non-negative")
		}
		tmp.Exp(bases[i].v, exps[i].v, m.m.v)
		result.Mul(result, tmp)
		result.Mod(result, m.m.v)
	}
	return &Int{v: result}, nil
}

// ModInv computes the multiplicative inverse of x modulo m (m > 0), via
// ExtendedGCD.
func ModInv(x, m *Int) (*Int, error) {
	if m.v.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: ModInv modulus must be positive")
	}
	reduced, err := Mod(x, m)
	if err != nil {
		return nil, err
	}
	g, xCoeff, _ := ExtendedGCD(reduced, m)
	if !g.Equal(one) {
		return nil, fmt.Errorf("bigint: %s has no inverse mod %s", x.v, m.v)
	}
	return xCoeff.ModNonNegative(m)
}

// Legendre returns the Legendre symbol (x|p): 1 if x is a non-zero quadratic
// residue mod p, -1 if it is a non-residue, and 0 if x ≡ 0 (mod p). p must
// be an odd prime.
func Legendre(x, p *Int) int {
	return big.Jacobi(x.v, p.v)
}

// ModSqrt computes a square root of x modulo the odd prime p using the
// Tonelli-Shanks algorithm (here, gmp's ModSqrt, which implements the same
// algorithm), returning an error if x is not a quadratic residue.
func ModSqrt(x, p *Int) (*Int, error) {
	if Legendre(x, p) != 1 && !x.IsZero() {
		return nil, fmt.Errorf("bigint: %s is not a quadratic residue mod %s", x.v, p.v)
	}
	r := new(big.Int).ModSqrt(x.v, p.v)
	if r == nil {
		return nil, fmt.Errorf("bigint: no square root of %s mod %s", x.v, p.v)
	}
	return &Int{v: r}, nil
}

// ProbablyPrime reports whether x is probably prime using n Miller-Rabin
// rounds, used only to validate parameters arriving on the wire (never to
// generate them — the verifier never generates primes).
func (x *Int) ProbablyPrime(n int) bool {
	return x.v.ProbablyPrime(n)
}

func (x *Int) String() string { return x.v.String() }
