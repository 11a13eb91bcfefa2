package sat

import "testing"

func TestVariablesDecideAndCommit(t *testing.T) {
	vs := NewVariables(20)
	vs.ResizeTo(3)

	v, _, ok := vs.FirstUnassigned()
	if !ok {
		t.Fatal("expected an unassigned variable")
	}
	vs.TentativelyAssign(v, true, Decision)

	tv, st, ok := vs.FirstTentative()
	if !ok || tv != v {
		t.Fatalf("expected %d to be tentative, got %d, ok=%v", v, tv, ok)
	}
	if !st.TentativeValue {
		t.Fatal("expected tentative value true")
	}

	vs.CommitTentative(v)
	if vs.CurrentDecisionLevel() != 1 {
		t.Fatalf("decision level = %d, want 1", vs.CurrentDecisionLevel())
	}
	if !vs.IsTrue(Pos(v)) {
		t.Fatal("expected Pos(v) to be true after commit")
	}
	if vs.NumAssigned() != 1 {
		t.Fatalf("NumAssigned() = %d, want 1", vs.NumAssigned())
	}
}

func TestVariablesPropagationDoesNotChangeDecisionLevel(t *testing.T) {
	vs := NewVariables(20)
	vs.ResizeTo(2)

	v0 := VarIndex(0)
	vs.TentativelyAssign(v0, true, Decision)
	vs.CommitTentative(v0)

	v1 := VarIndex(1)
	vs.TentativelyAssign(v1, false, Reason{Kind: ReasonPropagation, Clause: 0})
	vs.CommitTentative(v1)

	if vs.CurrentDecisionLevel() != 1 {
		t.Fatalf("decision level = %d, want 1", vs.CurrentDecisionLevel())
	}
	if !vs.IsFalse(Pos(v1)) {
		t.Fatal("expected Pos(v1) to be false")
	}
}

func TestVariablesOppositeTentativeBecomesConflicting(t *testing.T) {
	vs := NewVariables(20)
	vs.ResizeTo(1)
	v := VarIndex(0)

	vs.TentativelyAssign(v, true, Reason{Kind: ReasonPropagation, Clause: 0, ClauseLength: 2})
	vs.TentativelyAssign(v, false, Reason{Kind: ReasonPropagation, Clause: 1, ClauseLength: 3})

	_, st, ok := vs.FirstConflicting()
	if !ok {
		t.Fatal("expected v to be conflicting")
	}
	if !st.IsConflicting() {
		t.Fatal("expected Kind to be conflicting")
	}
	if st.ConflictReasons[1].Clause != 0 || st.ConflictReasons[0].Clause != 1 {
		t.Fatalf("unexpected conflict reasons: %+v", st.ConflictReasons)
	}
}

func TestVariablesPopTrailRestoresPhase(t *testing.T) {
	vs := NewVariables(20)
	vs.ResizeTo(1)
	v := VarIndex(0)

	vs.TentativelyAssign(v, true, Decision)
	vs.CommitTentative(v)
	popped := vs.PopTrail()
	if popped != v {
		t.Fatalf("PopTrail() = %d, want %d", popped, v)
	}
	if vs.CurrentDecisionLevel() != 0 {
		t.Fatalf("decision level = %d, want 0", vs.CurrentDecisionLevel())
	}
	_, st, ok := vs.FirstUnassigned()
	if !ok || !st.LastValue {
		t.Fatalf("expected saved phase true, got %+v ok=%v", st, ok)
	}
}

func TestVariablesCancelTentativeAssignments(t *testing.T) {
	vs := NewVariables(20)
	vs.ResizeTo(2)

	vs.TentativelyAssign(0, true, Reason{Kind: ReasonPropagation, Clause: 0})
	vs.TentativelyAssign(1, true, Reason{Kind: ReasonPropagation, Clause: 1})
	vs.TentativelyAssign(1, false, Reason{Kind: ReasonPropagation, Clause: 2})

	vs.CancelTentativeAssignments()

	if _, _, ok := vs.FirstTentative(); ok {
		t.Fatal("expected no tentative variables after cancel")
	}
	if _, _, ok := vs.FirstConflicting(); ok {
		t.Fatal("expected no conflicting variables after cancel")
	}
	if vs.NumAssigned() != 0 {
		t.Fatalf("NumAssigned() = %d, want 0", vs.NumAssigned())
	}
}
