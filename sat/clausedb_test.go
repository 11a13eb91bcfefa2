package sat

import "testing"

func newTestDB() (*ClauseDB, *Variables) {
	db := NewClauseDB(50, 1e5, 1000, 5000)
	vs := NewVariables(20)
	vs.ResizeTo(4)
	db.ResizeTo(4)
	return db, vs
}

func commit(vs *Variables, v VarIndex, value bool) {
	vs.TentativelyAssign(v, value, Decision)
	vs.CommitTentative(v)
}

func TestAddClauseUnitPropagates(t *testing.T) {
	db, vs := newTestDB()
	db.AddClause([]Literal{Pos(0)}, false, vs)

	_, st, ok := vs.FirstTentative()
	if !ok || !st.TentativeValue {
		t.Fatalf("expected variable 0 tentatively true, ok=%v st=%+v", ok, st)
	}
}

func TestPropagateAssignmentImpliesOtherWatch(t *testing.T) {
	db, vs := newTestDB()
	db.AddClause([]Literal{Pos(0), Pos(1)}, false, vs)

	commit(vs, 0, false)
	idx, conflict := db.PropagateAssignment(0, false, vs)
	if conflict {
		t.Fatalf("unexpected conflict on clause %d", idx)
	}

	_, st, ok := vs.FirstTentative()
	if !ok || st.TentativeValue != true {
		t.Fatalf("expected variable 1 tentatively true, ok=%v st=%+v", ok, st)
	}
}

func TestPropagateAssignmentDetectsConflict(t *testing.T) {
	db, vs := newTestDB()
	db.AddClause([]Literal{Pos(0), Pos(1)}, false, vs)

	commit(vs, 0, false)
	if _, conflict := db.PropagateAssignment(0, false, vs); conflict {
		t.Fatal("unexpected conflict propagating the first watch")
	}
	// variable 1 is now tentatively true; commit it false instead, by a
	// different route, to force a hard conflict on the clause.
	vs.CancelTentativeAssignments()
	commit(vs, 1, false)

	_, conflict := db.PropagateAssignment(1, false, vs)
	if !conflict {
		t.Fatal("expected a conflict: both literals of the clause are false")
	}
}

func TestPropagateAssignmentFindsNewWatch(t *testing.T) {
	db, vs := newTestDB()
	db.AddClause([]Literal{Pos(0), Pos(1), Pos(2)}, false, vs)

	commit(vs, 0, false)
	if _, conflict := db.PropagateAssignment(0, false, vs); conflict {
		t.Fatal("unexpected conflict")
	}
	// With a third literal unassigned, no propagation should occur yet.
	if _, _, ok := vs.FirstTentative(); ok {
		t.Fatal("expected no tentative assignment: literal 2 can still satisfy the clause")
	}
}

func TestReduceDropsSatisfiedAndStripsFalseAtLevelZero(t *testing.T) {
	db, vs := newTestDB()
	idx := db.AddClause([]Literal{Pos(0), Pos(1), Pos(2)}, true, vs)
	db.clauses[idx].LBD = 2
	other := db.AddClause([]Literal{Neg(0), Pos(1), Pos(3)}, false, vs)

	// Assign variable 0 by propagation so that it stays at decision level 0.
	vs.TentativelyAssign(0, true, Reason{Kind: ReasonPropagation})
	vs.CommitTentative(0)

	db.Reduce(vs)

	if !db.clauses[idx].IsDeleted {
		t.Fatal("expected the clause to be deleted: it is satisfied at level 0")
	}
	if got := db.clauses[other].Literals; len(got) != 2 || got[0].Var == 0 || got[1].Var == 0 {
		t.Fatalf("literals = %v, want Neg(0) stripped: it is false at level 0", got)
	}
}
