package sat

import "testing"

func TestLiteralOpposite(t *testing.T) {
	p := Pos(3)
	n := Neg(3)
	if p.Opposite() != n {
		t.Fatalf("Pos(3).Opposite() = %v, want %v", p.Opposite(), n)
	}
	if n.Opposite() != p {
		t.Fatalf("Neg(3).Opposite() = %v, want %v", n.Opposite(), p)
	}
}

func TestLiteralString(t *testing.T) {
	if got := Pos(1).String(); got != "1" {
		t.Errorf("Pos(1).String() = %q, want %q", got, "1")
	}
	if got := Neg(1).String(); got != "-1" {
		t.Errorf("Neg(1).String() = %q, want %q", got, "-1")
	}
}
