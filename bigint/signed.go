package bigint

import "fmt"

// Signed is a sign-and-magnitude wrapper for the intermediate Bezout
// coefficients ExtendedGCD accumulates while it runs. Exponentiation over
// the group/field layers above works on unsigned magnitudes only, so this
// type is deliberately not exposed from them.
type Signed struct {
	sign int // -1, 0, or 1; 0 iff Mag.IsZero()
	mag  *Int
}

// NewSigned builds a Signed value, normalizing sign to 0 when mag is zero.
func NewSigned(sign int, mag *Int) (*Signed, error) {
	if sign != -1 && sign != 0 && sign != 1 {
		return nil, fmt.Errorf("bigint: invalid sign %d", sign)
	}
	if mag.IsZero() {
		sign = 0
	} else if sign == 0 {
		return nil, fmt.Errorf("bigint: non-zero magnitude with zero sign")
	}
	return &Signed{sign: sign, mag: mag.Clone()}, nil
}

// Sign returns -1, 0 or 1.
func (s *Signed) Sign() int { return s.sign }

// Magnitude returns the absolute value.
func (s *Signed) Magnitude() *Int { return s.mag.Clone() }

// Negate returns -s.
func (s *Signed) Negate() *Signed {
	return &Signed{sign: -s.sign, mag: s.mag.Clone()}
}

// AddSigned adds two signed values using schoolbook sign-handling: same sign
// adds magnitudes, different sign subtracts the smaller from the larger and
// keeps the sign of the larger.
func AddSigned(a, b *Signed) *Signed {
	if a.sign == 0 {
		return b
	}
	if b.sign == 0 {
		return a
	}
	if a.sign == b.sign {
		return &Signed{sign: a.sign, mag: Add(a.mag, b.mag)}
	}
	// different signs: subtract smaller magnitude from larger
	switch a.mag.Cmp(b.mag) {
	case 0:
		return &Signed{sign: 0, mag: Zero()}
	case 1:
		d, _ := Sub(a.mag, b.mag)
		return &Signed{sign: a.sign, mag: d}
	default:
		d, _ := Sub(b.mag, a.mag)
		return &Signed{sign: b.sign, mag: d}
	}
}

// MulSigned multiplies two signed values.
func MulSigned(a, b *Signed) *Signed {
	if a.sign == 0 || b.sign == 0 {
		return &Signed{sign: 0, mag: Zero()}
	}
	return &Signed{sign: a.sign * b.sign, mag: Mul(a.mag, b.mag)}
}

// ModNonNegative reduces a signed value into [0, m) given a positive m.
func (s *Signed) ModNonNegative(m *Int) (*Int, error) {
	r, err := Mod(s.mag, m)
	if err != nil {
		return nil, err
	}
	if s.sign >= 0 || r.IsZero() {
		return r, nil
	}
	return Sub(m, r)
}

// ExtendedGCD computes (g, x, y) such that a*x + b*y = g = gcd(a,b). ModInv
// calls this directly: x mod b is the inverse of a mod b exactly when g=1.
func ExtendedGCD(a, b *Int) (g *Int, x, y *Signed) {
	// iterative extended Euclidean algorithm, signed intermediates throughout.
	oldR, r := a.Clone(), b.Clone()
	oldS, s := mustSigned(1, FromUint64(1)), mustSigned(0, Zero())
	oldT, t := mustSigned(0, Zero()), mustSigned(1, FromUint64(1))

	for !r.IsZero() {
		q, rem, _ := DivQR(oldR, r)
		oldR, r = r, rem

		qs, _ := NewSigned(signOf(q), q)
		newS := AddSigned(oldS, MulSigned(qs, s).Negate())
		oldS, s = s, newS

		newT := AddSigned(oldT, MulSigned(qs, t).Negate())
		oldT, t = t, newT
	}
	return oldR, oldS, oldT
}

func signOf(x *Int) int {
	if x.IsZero() {
		return 0
	}
	return 1
}

func mustSigned(sign int, mag *Int) *Signed {
	s, err := NewSigned(sign, mag)
	if err != nil {
		panic(err)
	}
	return s
}
