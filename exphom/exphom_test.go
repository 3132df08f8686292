package exphom

import (
	"testing"

	"github.com/nvotes/juvenal-lib/bigint"
	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
)

func testGroup(t *testing.T) *group.ModPGroup {
	p, _ := bigint.FromDecimalString("167")
	q, _ := bigint.FromDecimalString("83")
	g, _ := bigint.FromDecimalString("4")
	grp, err := group.New(p, q, g, group.SafePrime)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	return grp
}

func TestEvalMatchesExp(t *testing.T) {
	grp := testGroup(t)
	g := grp.Generator()
	hom, err := New(g)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	fq := field.New(grp.Q())
	x, _ := fq.ElemFromUint64(11)
	got, err := hom.EvalElt(x)
	if err != nil {
		t.Fatalf("EvalElt: %s", err)
	}
	want, err := g.Exp(x)
	if err != nil {
		t.Fatalf("Exp: %s", err)
	}
	if !got.Equal(want) {
		t.Fatalf("hom.Eval(x) != g.Exp(x): %s vs %s", got.Value(), want.Value())
	}
}

func TestEvalOverProductGroup(t *testing.T) {
	grp := testGroup(t)
	g := grp.Generator()
	pg, err := group.NewPPGroup(grp, 2)
	if err != nil {
		t.Fatalf("NewPPGroup: %s", err)
	}
	basis, err := pg.Broadcast(g)
	if err != nil {
		t.Fatalf("Broadcast: %s", err)
	}
	hom, err := New(basis)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	fq := field.New(grp.Q())
	x, _ := fq.ElemFromUint64(6)
	got, err := hom.EvalPP(x)
	if err != nil {
		t.Fatalf("EvalPP: %s", err)
	}
	want, err := g.Exp(x)
	if err != nil {
		t.Fatalf("Exp: %s", err)
	}
	for i, c := range got.Components() {
		if !c.Equal(want) {
			t.Fatalf("component %d: got %s, want %s", i, c.Value(), want.Value())
		}
	}
}

func TestNewRejectsUnsupportedBasis(t *testing.T) {
	if _, err := New("not a group element"); err == nil {
		t.Fatal("expected error for unsupported basis type")
	}
}
