package sat

import "testing"

func TestLBoolOpposite(t *testing.T) {
	if True.Opposite() != False {
		t.Errorf("True.Opposite() = %v, want False", True.Opposite())
	}
	if False.Opposite() != True {
		t.Errorf("False.Opposite() = %v, want True", False.Opposite())
	}
	if Unknown.Opposite() != Unknown {
		t.Errorf("Unknown.Opposite() = %v, want Unknown", Unknown.Opposite())
	}
}

func TestLift(t *testing.T) {
	if Lift(true) != True {
		t.Errorf("Lift(true) = %v, want True", Lift(true))
	}
	if Lift(false) != False {
		t.Errorf("Lift(false) = %v, want False", Lift(false))
	}
}
