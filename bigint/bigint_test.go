package bigint

import (
	"math/rand"
	"testing"
)

func randInt(r *rand.Rand, bits int) *Int {
	b := make([]byte, (bits+7)/8)
	r.Read(b)
	return FromBytes(b)
}

func TestDecimalStringRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		x := randInt(r, 512)
		s := x.DecimalString()
		back, err := FromDecimalString(s)
		if err != nil {
			t.Fatalf("case %d: %s", i, err)
		}
		if !back.Equal(x) {
			t.Fatalf("case %d: round trip mismatch", i)
		}
	}
}

func TestFromDecimalStringRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "-5", "12x4", "1.5", " 12"} {
		if _, err := FromDecimalString(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestAddSubInverse(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a := randInt(r, 256)
		b := randInt(r, 256)
		sum := Add(a, b)
		back, err := Sub(sum, b)
		if err != nil {
			t.Fatalf("case %d: %s", i, err)
		}
		if !back.Equal(a) {
			t.Fatalf("case %d: (a+b)-b != a", i)
		}
	}
}

func TestSubUnderflowErrors(t *testing.T) {
	a := FromUint64(3)
	b := FromUint64(9)
	if _, err := Sub(a, b); err == nil {
		t.Fatal("expected underflow error")
	}
}

func TestMulAndSquareAgree(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		a := randInt(r, 256)
		if !Square(a).Equal(Mul(a, a)) {
			t.Fatalf("case %d: Square(a) != Mul(a,a)", i)
		}
	}
}

func TestDivQR(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		dividend := randInt(r, 300)
		divisor := randInt(r, 128)
		if divisor.IsZero() {
			continue
		}
		q, rem, err := DivQR(dividend, divisor)
		if err != nil {
			t.Fatalf("case %d: %s", i, err)
		}
		if rem.Cmp(divisor) >= 0 {
			t.Fatalf("case %d: remainder %s >= divisor %s", i, rem, divisor)
		}
		back := Add(Mul(q, divisor), rem)
		if !back.Equal(dividend) {
			t.Fatalf("case %d: q*divisor+rem != dividend", i)
		}
	}
	if _, _, err := DivQR(FromUint64(1), Zero()); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestModPow(t *testing.T) {
	// p=167, a safe prime of the toy group used throughout the verify
	// package's own tests.
	p, _ := FromDecimalString("167")
	m := NewModulus(p)
	base := FromUint64(4)
	exp := FromUint64(5)
	got, err := ModPow(base, exp, m)
	if err != nil {
		t.Fatalf("ModPow: %s", err)
	}
	// 4^5 = 1024 = 6*167 + 22
	want, _ := FromDecimalString("22")
	if !got.Equal(want) {
		t.Fatalf("ModPow(4,5,167) = %s, want %s", got, want)
	}
}

func TestModProdPowMatchesSequentialModPow(t *testing.T) {
	p, _ := FromDecimalString("115792089237316195423570985008687907853269984665640564039457584007913129639747")
	m := NewModulus(p)
	r := rand.New(rand.NewSource(5))
	bases := []*Int{randInt(r, 256), randInt(r, 256), randInt(r, 256)}
	exps := []*Int{randInt(r, 64), randInt(r, 64), randInt(r, 64)}

	got, err := ModProdPow(bases, exps, m)
	if err != nil {
		t.Fatalf("ModProdPow: %s", err)
	}

	want := FromUint64(1)
	for i := range bases {
		p, err := ModPow(bases[i], exps[i], m)
		if err != nil {
			t.Fatalf("ModPow %d: %s", i, err)
		}
		want = m.Reduce(Mul(want, p))
	}
	if !got.Equal(want) {
		t.Fatalf("ModProdPow = %s, want %s", got, want)
	}
}

func TestModInvRoundTrip(t *testing.T) {
	p, _ := FromDecimalString("167")
	x := FromUint64(13)
	inv, err := ModInv(x, p)
	if err != nil {
		t.Fatalf("ModInv: %s", err)
	}
	m := NewModulus(p)
	prod := m.Reduce(Mul(x, inv))
	if !prod.Equal(FromUint64(1)) {
		t.Fatalf("x*inv mod p = %s, want 1", prod)
	}
}

func TestExtendedGCDBezoutIdentity(t *testing.T) {
	a := FromUint64(240)
	b := FromUint64(46)
	g, x, y := ExtendedGCD(a, b)
	if !g.Equal(FromUint64(2)) {
		t.Fatalf("gcd(240,46) = %s, want 2", g)
	}
	// a*x + b*y must equal g exactly, over signed intermediates.
	sum := AddSigned(MulSigned(mustSigned(signOf(a), a), x), MulSigned(mustSigned(signOf(b), b), y))
	if sum.Sign() < 0 || !sum.Magnitude().Equal(g) {
		t.Fatalf("a*x + b*y = sign %d mag %s, want %s", sum.Sign(), sum.Magnitude(), g)
	}
}

func TestExtendedGCDCoprime(t *testing.T) {
	a := FromUint64(17)
	b := FromUint64(83)
	g, _, _ := ExtendedGCD(a, b)
	if !g.Equal(FromUint64(1)) {
		t.Fatalf("gcd(17,83) = %s, want 1 (coprime)", g)
	}
}

func TestLegendreAndModSqrt(t *testing.T) {
	p, _ := FromDecimalString("167")
	// 4 is a perfect square, so it must be a residue with a recoverable root.
	four := FromUint64(4)
	if Legendre(four, p) != 1 {
		t.Fatal("expected 4 to be a quadratic residue mod 167")
	}
	root, err := ModSqrt(four, p)
	if err != nil {
		t.Fatalf("ModSqrt: %s", err)
	}
	m := NewModulus(p)
	if !m.Reduce(Mul(root, root)).Equal(four) {
		t.Fatalf("root^2 mod p = %s, want 4", m.Reduce(Mul(root, root)))
	}
}

func TestModSqrtRejectsNonResidue(t *testing.T) {
	p, _ := FromDecimalString("167")
	// 5 has Legendre symbol -1 mod 167 (167 = 8*20+7, verified against the
	// same toy group used elsewhere in this package's tests).
	five := FromUint64(5)
	if Legendre(five, p) == 1 {
		t.Skip("5 turned out to be a residue mod 167, pick another non-residue")
	}
	if _, err := ModSqrt(five, p); err == nil {
		t.Fatal("expected an error for a non-residue")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for i := 0; i < 50; i++ {
		x := randInt(r, 512)
		back := FromBytes(x.Bytes())
		if !back.Equal(x) {
			t.Fatalf("case %d: byte round trip mismatch", i)
		}
	}
}
