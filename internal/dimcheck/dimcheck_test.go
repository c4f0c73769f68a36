package dimcheck

import (
	"testing"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

func newChecker() (*Dimchecker, *errors.Reporter) {
	ns := nsenv.New()
	r := errors.NewReporter("test.nb", "")
	return New(ns, r), r
}

func TestProcessDimensionPrimitive(t *testing.T) {
	d, errs := newChecker()
	d.Start(&ast.Header{
		Dimensions: []*ast.DimensionDefinition{{Name: "Length"}},
	})
	if len(errs.Reported) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Reported)
	}
	if _, ok := d.NS.Dimensions["Length"]; !ok {
		t.Fatal("expected Length to be registered")
	}
}

func TestProcessDimensionDerived(t *testing.T) {
	d, errs := newChecker()
	d.Start(&ast.Header{
		Dimensions: []*ast.DimensionDefinition{
			{Name: "Length"},
			{Name: "Time"},
			{Name: "Speed", Value: &unit.Product{Values: []unit.Node{
				&unit.Identifier{Name: "Length"},
				&unit.Power{Base: &unit.Identifier{Name: "Time"}, Exponent: unit.NewScalar(-1)},
			}}},
		},
	})
	if len(errs.Reported) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Reported)
	}
	if _, ok := d.NS.Dimensions["Speed"]; !ok {
		t.Fatal("expected Speed to be registered")
	}
}

func TestProcessUnitAutoDimension(t *testing.T) {
	d, errs := newChecker()
	d.Start(&ast.Header{
		Units: []*ast.UnitDefinition{{Name: "meter"}},
	})
	if len(errs.Reported) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Reported)
	}
	if _, ok := d.NS.Dimensions["Meter"]; !ok {
		t.Fatal("expected auto dimension 'Meter' to be registered")
	}
	if _, ok := d.NS.Dimensionized["meter"]; !ok {
		t.Fatal("expected meter to be dimensionized")
	}
}

func TestProcessDimensionDuplicateErrors(t *testing.T) {
	d, errs := newChecker()
	d.Start(&ast.Header{
		Dimensions: []*ast.DimensionDefinition{{Name: "Length"}, {Name: "Length"}},
	})
	if len(errs.Reported) == 0 {
		t.Fatal("expected a duplicate-definition error")
	}
	if errs.Reported[0].Code != 603 {
		t.Fatalf("expected code 603, got %d", errs.Reported[0].Code)
	}
}
