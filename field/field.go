// Package field implements the prime-order field Fq and the product ring
// Fq^k used to express Sigma-proof challenges, responses, and ballot
// selection vectors.
package field

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/bytetree"
)

// Field is the prime-order field Fq. The zero value is not usable; build one
// with New.
type Field struct {
	q       *bigint.Int
	byteLen int
}

// New builds Fq for the given prime order q. byteLen is B_F = ceil(bitlen(q)/8),
// the fixed width every element of this field serializes to.
func New(q *bigint.Int) *Field {
	byteLen := (q.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	return &Field{q: q.Clone(), byteLen: byteLen}
}

// Order returns q.
func (f *Field) Order() *bigint.Int { return f.q }

// ByteLen returns B_F, the fixed encoded width of every element.
func (f *Field) ByteLen() int { return f.byteLen }

// Elt is a field element, carrying a reference to the field it belongs to.
type Elt struct {
	f *Field
	v *bigint.Int
}

// Elem builds an element from a magnitude, reducing it modulo q. This is the
// field layer's own reduction path, used when "a random-element byte string
// is required" per the wire format: the input bytes are reduced mod q with
// no rejection sampling.
func (f *Field) Elem(v *bigint.Int) (*Elt, error) {
	r, err := bigint.Mod(v, f.q)
	if err != nil {
		return nil, fmt.Errorf("field: reducing element: %w", err)
	}
	return &Elt{f: f, v: r}, nil
}

// ElemFromUint64 is a convenience constructor for small field elements used
// as homomorphism exponents and loop counters in tests.
func (f *Field) ElemFromUint64(n uint64) (*Elt, error) {
	return f.Elem(bigint.FromUint64(n))
}

// Field returns the owning field.
func (e *Elt) Field() *Field { return e.f }

// Value returns the underlying magnitude, 0 <= v < q.
func (e *Elt) Value() *bigint.Int { return e.v }

func (e *Elt) sameField(o *Elt) error {
	if e.f != o.f {
		return fmt.Errorf("field: elements belong to different fields")
	}
	return nil
}

// Add returns e+o mod q.
func (e *Elt) Add(o *Elt) (*Elt, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	sum := bigint.Add(e.v, o.v)
	r, err := bigint.Mod(sum, e.f.q)
	if err != nil {
		return nil, err
	}
	return &Elt{f: e.f, v: r}, nil
}

// Sub returns e-o mod q.
func (e *Elt) Sub(o *Elt) (*Elt, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	// e - o mod q = e + (q - o) mod q, avoiding bigint.Sub's underflow error
	// when o > e.
	qMinusO, err := bigint.Sub(e.f.q, o.v)
	if err != nil {
		// unreachable: o.v < q for every field element
		qMinusO = bigint.Zero()
	}
	sum := bigint.Add(e.v, qMinusO)
	r, err := bigint.Mod(sum, e.f.q)
	if err != nil {
		return nil, err
	}
	return &Elt{f: e.f, v: r}, nil
}

// Mul returns e*o mod q.
func (e *Elt) Mul(o *Elt) (*Elt, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	prod := bigint.Mul(e.v, o.v)
	r, err := bigint.Mod(prod, e.f.q)
	if err != nil {
		return nil, err
	}
	return &Elt{f: e.f, v: r}, nil
}

// Neg returns -e mod q.
func (e *Elt) Neg() *Elt {
	if e.v.IsZero() {
		return &Elt{f: e.f, v: bigint.Zero()}
	}
	d, _ := bigint.Sub(e.f.q, e.v)
	return &Elt{f: e.f, v: d}
}

// Equal reports whether e and o denote the same value in the same field.
func (e *Elt) Equal(o *Elt) bool {
	return e.f == o.f && e.v.Equal(o.v)
}

// Bytes encodes e as a fixed-width, B_F-byte big-endian string.
func (e *Elt) Bytes() []byte {
	raw := e.v.Bytes()
	out := make([]byte, e.f.byteLen)
	copy(out[e.f.byteLen-len(raw):], raw)
	return out
}

// ByteTree returns e's Fiat-Shamir hash-input leaf.
func (e *Elt) ByteTree() bytetree.Tree {
	return bytetree.NewLeaf(e.Bytes())
}

// EltFromBytes decodes a leaf byte tree of length B_F into a field element.
func (f *Field) EltFromBytes(b []byte) (*Elt, error) {
	if len(b) != f.byteLen {
		return nil, fmt.Errorf("field: element encoding must be %d bytes, got %d", f.byteLen, len(b))
	}
	v := bigint.FromBytes(b)
	if v.Cmp(f.q) >= 0 {
		return nil, fmt.Errorf("field: decoded value is not reduced mod q")
	}
	return &Elt{f: f, v: v}, nil
}

// Ring is the product ring Fq^k: k copies of the same field, arithmetic and
// equality elementwise.
type Ring struct {
	f *Field
	k int
}

// NewRing builds Fq^k.
func NewRing(f *Field, k int) (*Ring, error) {
	if k <= 0 {
		return nil, fmt.Errorf("field: product ring width must be positive, got %d", k)
	}
	return &Ring{f: f, k: k}, nil
}

// Field returns the underlying field.
func (r *Ring) Field() *Field { return r.f }

// Width returns k.
func (r *Ring) Width() int { return r.k }

// RingElt is an ordered sequence of k field elements.
type RingElt struct {
	r    *Ring
	comp []*Elt
}

// Prod builds a ring element from per-component field elements.
func (r *Ring) Prod(comp []*Elt) (*RingElt, error) {
	if len(comp) != r.k {
		return nil, fmt.Errorf("field: expected %d components, got %d", r.k, len(comp))
	}
	for i, c := range comp {
		if c.f != r.f {
			return nil, fmt.Errorf("field: component %d belongs to a different field", i)
		}
	}
	cp := make([]*Elt, r.k)
	copy(cp, comp)
	return &RingElt{r: r, comp: cp}, nil
}

// Broadcast builds a ring element by repeating a single field element k times.
func (r *Ring) Broadcast(e *Elt) (*RingElt, error) {
	if e.f != r.f {
		return nil, fmt.Errorf("field: element belongs to a different field")
	}
	comp := make([]*Elt, r.k)
	for i := range comp {
		comp[i] = e
	}
	return &RingElt{r: r, comp: comp}, nil
}

// Ring returns the owning ring.
func (x *RingElt) Ring() *Ring { return x.r }

// Components returns the k field elements in order. The caller must not
// mutate the returned slice's contents' field; elements are themselves
// immutable.
func (x *RingElt) Components() []*Elt {
	cp := make([]*Elt, len(x.comp))
	copy(cp, x.comp)
	return cp
}

func (x *RingElt) sameRing(o *RingElt) error {
	if x.r != o.r {
		return fmt.Errorf("field: ring elements belong to different rings")
	}
	return nil
}

// Add returns x+y elementwise.
func (x *RingElt) Add(y *RingElt) (*RingElt, error) {
	if err := x.sameRing(y); err != nil {
		return nil, err
	}
	out := make([]*Elt, x.r.k)
	for i := range out {
		s, err := x.comp[i].Add(y.comp[i])
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return &RingElt{r: x.r, comp: out}, nil
}

// Mul returns x*y elementwise.
func (x *RingElt) Mul(y *RingElt) (*RingElt, error) {
	if err := x.sameRing(y); err != nil {
		return nil, err
	}
	out := make([]*Elt, x.r.k)
	for i := range out {
		p, err := x.comp[i].Mul(y.comp[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return &RingElt{r: x.r, comp: out}, nil
}

// Equal reports elementwise equality.
func (x *RingElt) Equal(y *RingElt) bool {
	if x.r != y.r {
		return false
	}
	for i := range x.comp {
		if !x.comp[i].Equal(y.comp[i]) {
			return false
		}
	}
	return true
}

// ByteTree is a node whose children are the component byte-trees, in order.
func (x *RingElt) ByteTree() bytetree.Tree {
	children := make([]bytetree.Tree, len(x.comp))
	for i, c := range x.comp {
		children[i] = c.ByteTree()
	}
	return bytetree.NewNode(children...)
}
