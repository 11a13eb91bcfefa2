package sat

import "testing"

func TestResetSet(t *testing.T) {
	var rs resetSet
	rs.Grow(4)
	rs.Clear()

	rs.Add(1)
	rs.Add(3)

	if !rs.Contains(1) || !rs.Contains(3) {
		t.Fatal("expected 1 and 3 to be members")
	}
	if rs.Contains(0) || rs.Contains(2) {
		t.Fatal("expected 0 and 2 to be absent")
	}

	rs.Clear()
	if rs.Contains(1) || rs.Contains(3) {
		t.Fatal("expected set to be empty after Clear")
	}
	rs.Add(2)
	if !rs.Contains(2) {
		t.Fatal("expected 2 to be a member after re-adding post-clear")
	}
}
