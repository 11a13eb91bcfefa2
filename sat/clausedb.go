package sat

import "sort"

// restartLBDMultiplier is how far the short-window LBD average must exceed
// the long-window average before a restart is due. 1.25 is the usual
// Glucose-style threshold.
const restartLBDMultiplier = 1.25

// watchEntry is one occurrence of a clause in a variable's watch list. Slot
// is the index (0 or 1) within the clause's Literals that this entry
// watches. CachedOther, when set, is the clause's other watched literal at
// the time the entry was last touched, letting the propagation loop skip a
// clause without dereferencing its literal slice when that literal is
// already known true (the "blocking literal" optimization).
type watchEntry struct {
	Clause         ClauseIndex
	Slot           int
	CachedOther    Literal
	HasCachedOther bool
}

// ClauseDB owns every clause added to the solver, original and learnt
// alike, and the two-watched-literal index used to propagate assignments
// through them. It also tracks the bookkeeping needed to decide when to
// restart and when to reduce the learnt-clause set.
type ClauseDB struct {
	clauses []Clause
	watch   [][2][]watchEntry

	clauseActivityIncrease float64
	activityTimeConst      float64

	time uint64

	lbdShort *ShortEMA
	lbdLong  *LongEMA

	conflictsSinceReduction int
	reductionInterval       int
	priorReductionTime      uint64

	conflictsSinceRestart int
}

// NewClauseDB returns an empty database. shortWindow sizes the short LBD
// average's ring buffer; longTimeConstant and activityTimeConstant size the
// long LBD average's and the clause-activity bump's run-up periods,
// respectively; reductionInterval is the initial number of conflicts
// between learnt-clause reductions.
func NewClauseDB(shortWindow int, longTimeConstant, activityTimeConstant float64, reductionInterval int) *ClauseDB {
	return &ClauseDB{
		clauseActivityIncrease: 1,
		activityTimeConst:      activityTimeConstant,
		lbdShort:               NewShortEMA(shortWindow),
		lbdLong:                NewLongEMA(longTimeConstant),
		reductionInterval:      reductionInterval,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// watchSlotForLiteral returns the bucket a clause watching lit is filed
// under. A variable assigned to value makes literal (v, !value) false, so
// the propagation loop reads bucket boolToInt(value); filing at insertion
// time under boolToInt(!lit.Sign) keeps the two in agreement.
func watchSlotForLiteral(l Literal) int { return boolToInt(!l.Sign) }

// ResizeTo grows the watch index so variables up to n-1 have buckets.
func (db *ClauseDB) ResizeTo(n int) {
	for len(db.watch) < n {
		db.watch = append(db.watch, [2][]watchEntry{})
	}
}

// NumClauses returns the number of clause slots ever allocated, including
// deleted ones.
func (db *ClauseDB) NumClauses() int { return len(db.clauses) }

// Clause returns a pointer to the stored clause at idx.
func (db *ClauseDB) Clause(idx ClauseIndex) *Clause { return &db.clauses[idx] }

func (db *ClauseDB) addWatch(lit Literal, idx ClauseIndex, slot int) {
	s := watchSlotForLiteral(lit)
	db.watch[lit.Var][s] = append(db.watch[lit.Var][s], watchEntry{Clause: idx, Slot: slot})
}

// literalRank orders a clause's literals for watch placement: true first,
// then unassigned, then false ordered by descending assignment level (the
// most recently falsified literal sorts first among falses). Placing the
// two lowest-ranked literals at positions 0 and 1 keeps the watches on
// literals most likely to become true or unassigned again soon.
func literalRank(l Literal, vars *Variables) (class int, negLevel int32) {
	switch vars.LitValue(l) {
	case True:
		return 0, 0
	case Unknown:
		return 1, 0
	default:
		return 2, -vars.AssignmentLevel(l.Var)
	}
}

func computeLBD(lits []Literal, vars *Variables) uint32 {
	seen := make(map[int32]bool, len(lits))
	for _, l := range lits {
		if s := vars.Get(l.Var); s.Kind == stateAssigned {
			seen[s.DecisionLevel] = true
		}
	}
	return uint32(len(seen))
}

// AddClause stores lits as a new clause, sets up its watches, and performs
// the immediate unit propagation it may trigger. It panics if every
// literal is already false: that can only happen if the caller adds an
// original clause after search has begun, or adds a learnt clause without
// first backjumping past the conflict it resolves — both are caller bugs.
func (db *ClauseDB) AddClause(lits []Literal, isLearnt bool, vars *Variables) ClauseIndex {
	if len(lits) == 0 {
		panic("sat: AddClause called with an empty clause")
	}
	owned := append([]Literal(nil), lits...)
	sort.Slice(owned, func(i, j int) bool {
		ci, li := literalRank(owned[i], vars)
		cj, lj := literalRank(owned[j], vars)
		if ci != cj {
			return ci < cj
		}
		return li < lj
	})
	if vars.IsFalse(owned[0]) {
		panic("sat: AddClause called with all literals false")
	}

	idx := ClauseIndex(len(db.clauses))
	cl := Clause{
		Literals:      owned,
		IsLearnt:      isLearnt,
		GeneratedTime: db.time,
		LastUsedTime:  db.time,
	}
	if isLearnt {
		cl.LBD = computeLBD(owned, vars)
	}
	db.clauses = append(db.clauses, cl)
	db.watch = append(db.watch, [2][]watchEntry{})

	if len(owned) == 1 {
		if vars.LitValue(owned[0]) == Unknown {
			db.imply(idx, &db.clauses[idx], owned[0], vars)
		}
		return idx
	}

	db.addWatch(owned[0], idx, 0)
	db.addWatch(owned[1], idx, 1)

	if vars.IsFalse(owned[1]) && vars.LitValue(owned[0]) == Unknown {
		db.imply(idx, &db.clauses[idx], owned[0], vars)
	}
	return idx
}

func (db *ClauseDB) imply(idx ClauseIndex, cl *Clause, lit Literal, vars *Variables) {
	lbdUpper := cl.LBD
	if !cl.IsLearnt {
		lbdUpper = uint32(len(cl.Literals))
	}
	vars.TentativelyAssign(lit.Var, lit.Sign, Reason{
		Kind:                  ReasonPropagation,
		Clause:                idx,
		LBDUpper:              lbdUpper,
		ClauseLength:          uint32(len(cl.Literals)),
		AssignmentLevelAtProp: uint32(vars.CurrentAssignmentLevel()),
	})
}

// PropagateAssignment walks every clause watching the literal that just
// went false because v was committed to value, repairing each watch. It
// stops and reports the clause as soon as one is found fully false: the
// other watched literal was already committed false earlier in the same
// propagation round, so there is no replacement to search for and no
// tentative assignment to make, only a conflict to report back to the
// caller for analysis.
func (db *ClauseDB) PropagateAssignment(v VarIndex, value bool, vars *Variables) (ClauseIndex, bool) {
	slot := boolToInt(value)
	entries := db.watch[v][slot]

	n := 0
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		cl := &db.clauses[entry.Clause]
		if cl.IsDeleted {
			continue
		}

		if entry.HasCachedOther && vars.IsTrue(entry.CachedOther) {
			entries[n] = entry
			n++
			continue
		}

		lits := cl.Literals
		otherSlot := 1 - entry.Slot
		other := lits[otherSlot]
		if vars.IsTrue(other) {
			entries[n] = watchEntry{Clause: entry.Clause, Slot: entry.Slot, CachedOther: other, HasCachedOther: true}
			n++
			continue
		}

		replaced := false
		for k := 2; k < len(lits); k++ {
			if !vars.IsFalse(lits[k]) {
				lits[entry.Slot], lits[k] = lits[k], lits[entry.Slot]
				db.addWatch(lits[entry.Slot], entry.Clause, entry.Slot)
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}

		entries[n] = entry
		n++

		if vars.IsFalse(other) {
			db.watch[v][slot] = append(entries[:n], entries[i+1:]...)
			return entry.Clause, true
		}
		db.imply(entry.Clause, cl, other, vars)
	}
	db.watch[v][slot] = entries[:n]
	return 0, false
}

// Explain returns the literals of the clause that forced a propagation.
// It panics if r is a decision, which has no clause to explain it.
func (db *ClauseDB) Explain(r Reason) []Literal {
	if r.IsDecision() {
		panic("sat: Explain called on a decision reason")
	}
	return db.Literals(r.Clause)
}

// Literals returns the current literals of the clause at idx, marking it
// used at the database's current logical time.
func (db *ClauseDB) Literals(idx ClauseIndex) []Literal {
	db.clauses[idx].LastUsedTime = db.time
	return db.clauses[idx].Literals
}

// BumpClause increases a learnt clause's activity, rescaling every clause's
// activity down if the bumped value grows too large to keep in range.
func (db *ClauseDB) BumpClause(idx ClauseIndex) {
	cl := &db.clauses[idx]
	cl.Activity += db.clauseActivityIncrease
	if cl.Activity > 1e20 {
		for i := range db.clauses {
			db.clauses[i].Activity /= db.clauseActivityIncrease
		}
		db.clauseActivityIncrease = 1
	}
}

// AdvanceTime ticks the database's logical clock by one conflict and grows
// the clause-activity bump increment geometrically, decaying the influence
// of older bumps.
func (db *ClauseDB) AdvanceTime() {
	db.time++
	db.clauseActivityIncrease /= 1 - 1/db.activityTimeConst
}

// RecordConflictLBD feeds a freshly learnt clause's LBD into both moving
// averages and advances the restart and reduction conflict counters.
func (db *ClauseDB) RecordConflictLBD(lbd uint32) {
	db.lbdShort.Add(float64(lbd))
	db.lbdLong.Add(float64(lbd))
	db.conflictsSinceReduction++
	db.conflictsSinceRestart++
}

// IsRestartRequested reports whether recent conflicts are producing
// clauses with a markedly worse LBD than the long-run average, a sign the
// search has wandered into an unproductive part of the space.
func (db *ClauseDB) IsRestartRequested() bool {
	if !db.lbdShort.Ready() || !db.lbdLong.Ready() {
		return false
	}
	return db.lbdShort.Value() > restartLBDMultiplier*db.lbdLong.Value()
}

// Restart resets the per-restart conflict counter and empties the short LBD
// window, so no further restart is requested until that window has filled
// again. It does not touch the trail; unwinding to decision level 0 is the
// caller's responsibility.
func (db *ClauseDB) Restart() {
	db.conflictsSinceRestart = 0
	db.lbdShort = NewShortEMA(len(db.lbdShort.buf))
}

// IsReductionRequested reports whether enough conflicts have passed since
// the last learnt-clause reduction to run another one.
func (db *ClauseDB) IsReductionRequested() bool {
	return db.conflictsSinceReduction >= db.reductionInterval
}

// Reduce runs the three-step learnt-clause cleanup: clauses satisfied at
// decision level 0 are deleted outright and literals falsified at level 0
// are stripped from the rest; among learnt clauses generated before the
// prior reduction with LBD >= 3, and either LBD >= 6 or unused since the
// prior reduction, the lower-activity half is deleted; finally the watch
// index is rebuilt from scratch to reflect the shrunk clauses. It must
// only be called at decision level 0.
func (db *ClauseDB) Reduce(vars *Variables) {
	if vars.CurrentDecisionLevel() != 0 {
		panic("sat: Reduce called above decision level 0")
	}

	for i := range db.clauses {
		cl := &db.clauses[i]
		if cl.IsDeleted {
			continue
		}
		satisfied := false
		for _, l := range cl.Literals {
			if s := vars.Get(l.Var); s.Kind == stateAssigned && s.DecisionLevel == 0 && vars.IsTrue(l) {
				satisfied = true
				break
			}
		}
		if satisfied {
			cl.delete()
			continue
		}
		kept := cl.Literals[:0]
		for _, l := range cl.Literals {
			if s := vars.Get(l.Var); s.Kind == stateAssigned && s.DecisionLevel == 0 && vars.IsFalse(l) {
				continue
			}
			kept = append(kept, l)
		}
		cl.Literals = kept
	}

	var eligible []ClauseIndex
	for i := range db.clauses {
		cl := &db.clauses[i]
		if cl.IsDeleted || !cl.IsLearnt {
			continue
		}
		if cl.GeneratedTime >= db.priorReductionTime {
			continue
		}
		if cl.LBD < 3 {
			continue
		}
		if cl.LBD < 6 && cl.LastUsedTime >= db.priorReductionTime {
			continue
		}
		eligible = append(eligible, ClauseIndex(i))
	}
	sort.Slice(eligible, func(a, b int) bool {
		return db.clauses[eligible[a]].Activity > db.clauses[eligible[b]].Activity
	})
	for _, idx := range eligible[len(eligible)/2:] {
		db.clauses[idx].delete()
	}

	db.rebuildWatches()
	db.priorReductionTime = db.time
	db.conflictsSinceReduction = 0
	db.reductionInterval += db.reductionInterval / 10
}

func (db *ClauseDB) rebuildWatches() {
	for v := range db.watch {
		db.watch[v][0] = db.watch[v][0][:0]
		db.watch[v][1] = db.watch[v][1][:0]
	}
	for i := range db.clauses {
		cl := &db.clauses[i]
		if cl.IsDeleted || len(cl.Literals) < 2 {
			continue
		}
		db.addWatch(cl.Literals[0], ClauseIndex(i), 0)
		db.addWatch(cl.Literals[1], ClauseIndex(i), 1)
	}
}
