// Package exphom implements the exponentiation homomorphism x -> b^x from a
// scalar ring into a group, the building block every Sigma verifier in
// package sigma evaluates its response against.
package exphom

import (
	"fmt"

	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
)

// Hom is x -> b^x for a fixed basis b. When b is a product-group element
// and x a ring element of matching width, evaluation pairs the component
// results under one shared scalar per component (or one scalar broadcast to
// all components, matching group.PPElt.Exp's own broadcast rule).
type Hom struct {
	basis interface{} // *group.Elt or *group.PPElt
}

// New builds the homomorphism with the given basis.
func New(basis interface{}) (*Hom, error) {
	switch basis.(type) {
	case *group.Elt, *group.PPElt:
		return &Hom{basis: basis}, nil
	default:
		return nil, fmt.Errorf("exphom: basis must be a group element or product-group element, got %T", basis)
	}
}

// Basis returns the homomorphism's fixed basis.
func (h *Hom) Basis() interface{} { return h.basis }

// Eval returns b^x. x may be a *field.Elt, a *field.RingElt (only valid when
// the basis is a product-group element of matching width), or a *bigint.Int.
func (h *Hom) Eval(x interface{}) (interface{}, error) {
	switch b := h.basis.(type) {
	case *group.Elt:
		if _, ok := x.(*field.RingElt); ok {
			return nil, fmt.Errorf("exphom: scalar basis cannot take a ring-element exponent")
		}
		return b.Exp(x)
	case *group.PPElt:
		return b.Exp(x)
	default:
		return nil, fmt.Errorf("exphom: unreachable basis type %T", b)
	}
}

// EvalElt is a convenience wrapper for the common case where the basis is a
// single group element and the result is expected to be one too.
func (h *Hom) EvalElt(x interface{}) (*group.Elt, error) {
	r, err := h.Eval(x)
	if err != nil {
		return nil, err
	}
	e, ok := r.(*group.Elt)
	if !ok {
		return nil, fmt.Errorf("exphom: basis is a product-group element, result is not a single group element")
	}
	return e, nil
}

// EvalPP is a convenience wrapper for the product-group case.
func (h *Hom) EvalPP(x interface{}) (*group.PPElt, error) {
	r, err := h.Eval(x)
	if err != nil {
		return nil, err
	}
	e, ok := r.(*group.PPElt)
	if !ok {
		return nil, fmt.Errorf("exphom: basis is a scalar group element, result is not a product-group element")
	}
	return e, nil
}
