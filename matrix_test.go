package tiled

import (
	"math"
	"testing"
)

const matrixEpsilon = 1e-9

func pointsClose(a, b Point) bool {
	return math.Abs(a.X-b.X) < matrixEpsilon && math.Abs(a.Y-b.Y) < matrixEpsilon
}

func TestIdentity(t *testing.T) {
	m := Identity()
	p := Pt(3, 7)
	if got := m.TransformPoint(p); got != p {
		t.Errorf("TransformPoint(%v) = %v, want unchanged", p, got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(10, -5)
	got := m.TransformPoint(Pt(1, 2))
	if want := Pt(11, -3); !pointsClose(got, want) {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3)
	got := m.TransformPoint(Pt(4, 5))
	if want := Pt(8, 15); !pointsClose(got, want) {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestMultiplyOrder(t *testing.T) {
	// m.Multiply(other) applies other first, then m.
	m := Scale(2, 2).Multiply(Translate(-4, -6))
	got := m.TransformPoint(Pt(4, 6))
	if want := Pt(0, 0); !pointsClose(got, want) {
		t.Errorf("scale after translate at (4,6) = %v, want %v", got, want)
	}

	reversed := Translate(-4, -6).Multiply(Scale(2, 2))
	got = reversed.TransformPoint(Pt(4, 6))
	if want := Pt(4, 6); !pointsClose(got, want) {
		t.Errorf("translate after scale at (4,6) = %v, want %v", got, want)
	}
}

func TestInvert(t *testing.T) {
	m := Scale(2, 4).Multiply(Translate(3, -1))
	inv := m.Invert()

	p := Pt(5, 9)
	roundTrip := inv.TransformPoint(m.TransformPoint(p))
	if !pointsClose(roundTrip, p) {
		t.Errorf("inverse round trip of %v = %v", p, roundTrip)
	}
}

func TestInvertSingular(t *testing.T) {
	m := Scale(0, 0)
	if got := m.Invert(); got != Identity() {
		t.Errorf("Invert of singular matrix = %+v, want identity", got)
	}
}
