package group

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/bytetree"
	"github.com/nvotes/juvenal-lib/field"
)

// PPGroup is the product of k copies of the same ModPGroup.
type PPGroup struct {
	g *ModPGroup
	k int
}

// NewPPGroup builds G^k.
func NewPPGroup(g *ModPGroup, k int) (*PPGroup, error) {
	if k <= 0 {
		return nil, fmt.Errorf("group: product group width must be positive, got %d", k)
	}
	return &PPGroup{g: g, k: k}, nil
}

// Base returns the underlying ModPGroup.
func (pg *PPGroup) Base() *ModPGroup { return pg.g }

// Width returns k.
func (pg *PPGroup) Width() int { return pg.k }

// PPElt is an ordered sequence of k elements of the same ModPGroup.
type PPElt struct {
	pg   *PPGroup
	comp []*Elt
}

// Prod builds a product element from per-component elements, in order.
func (pg *PPGroup) Prod(comp []*Elt) (*PPElt, error) {
	if len(comp) != pg.k {
		return nil, fmt.Errorf("group: expected %d components, got %d", pg.k, len(comp))
	}
	for i, c := range comp {
		if c.g != pg.g {
			return nil, fmt.Errorf("group: component %d belongs to a different group", i)
		}
	}
	cp := make([]*Elt, pg.k)
	copy(cp, comp)
	return &PPElt{pg: pg, comp: cp}, nil
}

// Broadcast builds a product element by repeating a single group element k
// times, used when all k factors are the same group element.
func (pg *PPGroup) Broadcast(e *Elt) (*PPElt, error) {
	if e.g != pg.g {
		return nil, fmt.Errorf("group: element belongs to a different group")
	}
	comp := make([]*Elt, pg.k)
	for i := range comp {
		comp[i] = e
	}
	return &PPElt{pg: pg, comp: comp}, nil
}

// Group returns the owning product group.
func (x *PPElt) Group() *PPGroup { return x.pg }

// Components returns the k elements in order.
func (x *PPElt) Components() []*Elt {
	cp := make([]*Elt, len(x.comp))
	copy(cp, x.comp)
	return cp
}

func (x *PPElt) sameGroup(y *PPElt) error {
	if x.pg != y.pg {
		return fmt.Errorf("group: product elements belong to different product groups")
	}
	return nil
}

// Mul returns x*y componentwise.
func (x *PPElt) Mul(y *PPElt) (*PPElt, error) {
	if err := x.sameGroup(y); err != nil {
		return nil, err
	}
	out := make([]*Elt, x.pg.k)
	for i := range out {
		p, err := x.comp[i].Mul(y.comp[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return &PPElt{pg: x.pg, comp: out}, nil
}

// Exp raises x to an exponent. When the exponent is a *field.RingElt of
// matching width, each component is raised to its own matching component
// exponent; a scalar exponent (*field.Elt or *bigint.Int) is broadcast to
// every component.
func (x *PPElt) Exp(exp interface{}) (*PPElt, error) {
	if ring, ok := exp.(*field.RingElt); ok {
		comps := ring.Components()
		if len(comps) != x.pg.k {
			return nil, fmt.Errorf("group: ring exponent width %d does not match product width %d", len(comps), x.pg.k)
		}
		out := make([]*Elt, x.pg.k)
		for i := range out {
			r, err := x.comp[i].Exp(comps[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &PPElt{pg: x.pg, comp: out}, nil
	}
	out := make([]*Elt, x.pg.k)
	for i := range out {
		r, err := x.comp[i].Exp(exp)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &PPElt{pg: x.pg, comp: out}, nil
}

// Equal reports componentwise equality.
func (x *PPElt) Equal(y *PPElt) bool {
	if x.pg != y.pg {
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
func (x *PPElt) ByteTree() bytetree.Tree {
	children := make([]bytetree.Tree, len(x.comp))
	for i, c := range x.comp {
		children[i] = c.ByteTree()
	}
	return bytetree.NewNode(children...)
}
