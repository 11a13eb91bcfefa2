package sat

import "github.com/cdclgo/solver/internal/heap"

// Analyzer turns a conflict into a learnt clause and a backjump level using
// first-UIP resolution followed by recursive self-subsuming minimization.
type Analyzer struct {
	seen resetSet
}

// NewAnalyzer returns an Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// AnalyzeClauseConflict handles the ordinary case: propagating v to value
// made idx fully false. It resolves idx's literals back to the first UIP.
func (an *Analyzer) AnalyzeClauseConflict(idx ClauseIndex, vars *Variables, db *ClauseDB) (int32, []Literal) {
	db.BumpClause(idx)
	initial := append([]Literal(nil), db.Literals(idx)...)
	return an.analyze(initial, vars, db)
}

// AnalyzeVariableConflict handles the case where v never committed: two
// propagations arrived at opposite polarities for it while it was still
// tentative. The two reason clauses are resolved on v first, producing an
// ordinary falsified set that the rest of the analysis treats the same way
// as a clause conflict.
func (an *Analyzer) AnalyzeVariableConflict(v VarIndex, vars *Variables, db *ClauseDB) (int32, []Literal) {
	s := vars.Get(v)
	if !s.IsConflicting() {
		panic("sat: AnalyzeVariableConflict called on a non-conflicting variable")
	}
	falseReason, trueReason := s.ConflictReasons[0], s.ConflictReasons[1]
	db.BumpClause(falseReason.Clause)
	db.BumpClause(trueReason.Clause)

	var initial []Literal
	for _, l := range db.Literals(falseReason.Clause) {
		if l.Var != v {
			initial = append(initial, l)
		}
	}
	for _, l := range db.Literals(trueReason.Clause) {
		if l.Var != v {
			initial = append(initial, l)
		}
	}
	return an.analyze(initial, vars, db)
}

// analyze runs first-UIP resolution starting from a set of literals known
// to be currently false, then minimizes the result. It returns the
// backjump level and the learnt clause with the asserting literal first.
func (an *Analyzer) analyze(initial []Literal, vars *Variables, db *ClauseDB) (int32, []Literal) {
	currentLevel := vars.CurrentDecisionLevel()
	// Ordered by descending assignment level (trail position), so the most
	// recently assigned pending literal always pops first, matching the
	// order a reverse trail scan would visit them in.
	pending := heap.New[VarIndex, int32](func(a, b int32) bool { return a > b })
	pending.Grow(vars.Dimension())

	an.seen.Grow(vars.Dimension())
	an.seen.Clear()

	levelCount := map[int32]int{}
	var tail []Literal // literals below the current decision level: kept as-is

	addLiteral := func(l Literal) {
		v := l.Var
		if an.seen.Contains(v) {
			return
		}
		s := vars.Get(v)
		if s.DecisionLevel == 0 {
			return
		}
		an.seen.Add(v)
		vars.BumpActivity(v)
		pending.InsertOrUpdate(v, s.AssignmentLevel)
		levelCount[s.DecisionLevel]++
	}

	for _, l := range initial {
		addLiteral(l)
	}

	var uip Literal
	for {
		v, _, ok := pending.PopMin()
		if !ok {
			panic("sat: conflict analysis exhausted its queue without reaching a unique implication point")
		}
		s := vars.Get(v)
		lvl := s.DecisionLevel
		levelCount[lvl]--
		if lvl == currentLevel {
			if levelCount[lvl] == 0 {
				uip = Literal{Var: v, Sign: !s.AssignedValue}
				break
			}
			db.BumpClause(s.AssignedReason.Clause)
			for _, l := range db.Literals(s.AssignedReason.Clause) {
				if l.Var != v {
					addLiteral(l)
				}
			}
			continue
		}
		// Below the current level: this literal belongs in the learnt
		// clause as-is, whether it was a decision or a propagation.
		tail = append(tail, Literal{Var: v, Sign: !s.AssignedValue})
	}
	// Current-level literals pop before all lower-level ones, so whatever is
	// still pending once the UIP is found lies below the current level.
	for {
		v, _, ok := pending.PopMin()
		if !ok {
			break
		}
		tail = append(tail, Literal{Var: v, Sign: !vars.Get(v).AssignedValue})
	}

	tail = an.minimize(tail, vars, db)

	backjump := int32(0)
	for _, l := range tail {
		if lvl := vars.Get(l.Var).DecisionLevel; lvl > backjump {
			backjump = lvl
		}
	}

	learnt := make([]Literal, 0, len(tail)+1)
	learnt = append(learnt, uip)
	learnt = append(learnt, tail...)
	return backjump, learnt
}

// minimize drops any literal in tail whose negation is implied by other
// literals already destined for the learnt clause: such a literal is
// subsumed by the rest and only weakens the clause. A variable is
// redundant if every non-learnt literal of its reason clause is itself
// redundant, checked recursively with a per-call cache and cycle guard.
func (an *Analyzer) minimize(tail []Literal, vars *Variables, db *ClauseDB) []Literal {
	if len(tail) == 0 {
		return tail
	}
	inClause := make(map[VarIndex]bool, len(tail))
	for _, l := range tail {
		inClause[l.Var] = true
	}
	memo := make(map[VarIndex]bool)

	var redundant func(v VarIndex, visiting map[VarIndex]bool) bool
	redundant = func(v VarIndex, visiting map[VarIndex]bool) bool {
		if r, ok := memo[v]; ok {
			return r
		}
		if visiting[v] {
			return false
		}
		s := vars.Get(v)
		if s.AssignedReason.IsDecision() {
			memo[v] = false
			return false
		}
		if s.DecisionLevel == 0 {
			memo[v] = true
			return true
		}
		visiting[v] = true
		for _, l := range db.Literals(s.AssignedReason.Clause) {
			if l.Var == v || inClause[l.Var] {
				continue
			}
			if !redundant(l.Var, visiting) {
				delete(visiting, v)
				memo[v] = false
				return false
			}
		}
		delete(visiting, v)
		memo[v] = true
		return true
	}

	kept := tail[:0]
	for _, l := range tail {
		if redundant(l.Var, map[VarIndex]bool{}) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
