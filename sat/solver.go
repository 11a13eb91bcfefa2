package sat

import "fmt"

// Solver ties Variables, ClauseDB and Analyzer together into the CDCL
// search loop: propagate everything the trail currently implies, analyze
// and learn from whatever conflicts that produces, restart or reduce the
// clause database when due, and otherwise make a new decision.
type Solver struct {
	vars     *Variables
	clauseDB *ClauseDB
	analyzer *Analyzer
	opts     Options

	conflicts    int
	decisions    int
	propagations int
	restarts     int
	reductions   int
}

// NewSolver returns an empty solver tuned by opts.
func NewSolver(opts Options) *Solver {
	return &Solver{
		vars:     NewVariables(opts.VarActivityTimeConstant),
		clauseDB: NewClauseDB(opts.ShortLBDWindow, opts.LongLBDTimeConstant, opts.ClauseActivityTimeConstant, opts.InitialReductionInterval),
		analyzer: NewAnalyzer(),
		opts:     opts,
	}
}

// NewDefaultSolver returns a solver tuned with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions())
}

// NewVar allocates a fresh variable and returns its index.
func (s *Solver) NewVar() VarIndex {
	v := VarIndex(s.vars.Dimension())
	s.vars.ResizeTo(int(v) + 1)
	s.clauseDB.ResizeTo(int(v) + 1)
	return v
}

// Dimension returns the number of variables allocated so far.
func (s *Solver) Dimension() int { return s.vars.Dimension() }

// AddClause adds an original (non-learnt) clause over lits. Clauses may be
// added only while the solver is at decision level 0, i.e. before Solve
// runs or after ResetSearch.
func (s *Solver) AddClause(lits []Literal) {
	if s.vars.CurrentDecisionLevel() != 0 {
		panic("sat: AddClause called above decision level 0")
	}
	s.clauseDB.AddClause(lits, false, s.vars)
}

// Solve runs the CDCL loop to completion and returns True or False;
// Unknown is never returned: Solve always decides the instance as currently
// constrained.
func (s *Solver) Solve() LBool {
	for {
		if v, _, ok := s.vars.FirstConflicting(); ok {
			level, learnt, unsat := s.analyze(func() (int32, []Literal) {
				return s.analyzer.AnalyzeVariableConflict(v, s.vars, s.clauseDB)
			})
			if unsat {
				return False
			}
			s.learn(level, learnt)
			continue
		}

		if v, st, ok := s.vars.FirstTentative(); ok {
			s.vars.CommitTentative(v)
			s.propagations++
			idx, conflict := s.clauseDB.PropagateAssignment(v, st.TentativeValue, s.vars)
			if conflict {
				level, learnt, unsat := s.analyze(func() (int32, []Literal) {
					return s.analyzer.AnalyzeClauseConflict(idx, s.vars, s.clauseDB)
				})
				if unsat {
					return False
				}
				s.learn(level, learnt)
			}
			continue
		}

		if s.clauseDB.IsRestartRequested() {
			s.backjumpTo(0)
			s.clauseDB.Restart()
			s.restarts++
			if s.opts.Verbose {
				fmt.Fprintf(s.opts.logWriter(), "restart: conflicts=%d decisions=%d clauses=%d\n",
					s.conflicts, s.decisions, s.clauseDB.NumClauses())
			}
			continue
		}

		if s.vars.CurrentDecisionLevel() == 0 && s.clauseDB.IsReductionRequested() {
			s.clauseDB.Reduce(s.vars)
			s.reductions++
			continue
		}

		v, st, ok := s.vars.FirstUnassigned()
		if !ok {
			return True
		}
		s.vars.TentativelyAssign(v, st.LastValue, Decision)
		s.decisions++
	}
}

// analyze runs the given analysis closure and reports whether the conflict
// it found is unsatisfiable: that's the case exactly when it occurred with
// no decisions left to undo, since backjumping further is impossible.
func (s *Solver) analyze(run func() (int32, []Literal)) (int32, []Literal, bool) {
	if s.vars.CurrentDecisionLevel() == 0 {
		return 0, nil, true
	}
	level, learnt := run()
	return level, learnt, false
}

func (s *Solver) learn(level int32, learnt []Literal) {
	lbd := computeLBD(learnt, s.vars)
	s.clauseDB.RecordConflictLBD(lbd)
	s.clauseDB.AdvanceTime()
	s.vars.AdvanceTime()
	s.conflicts++
	s.backjumpTo(level)
	s.clauseDB.AddClause(learnt, true, s.vars)
}

func (s *Solver) backjumpTo(level int32) {
	s.vars.CancelTentativeAssignments()
	for s.vars.CurrentDecisionLevel() > level {
		s.vars.PopTrail()
	}
}

// ResetSearch backjumps to decision level 0, keeping every learnt clause.
// Callers use this between successive calls to Solve, typically to add a
// blocking clause that excludes a model just found and search for another.
func (s *Solver) ResetSearch() {
	s.backjumpTo(0)
}

// Model returns the current assignment as a dense slice indexed by
// VarIndex, valid after Solve returns True. Unassigned variables (should
// there be any left unconstrained) report false.
func (s *Solver) Model() []bool {
	model := make([]bool, s.vars.Dimension())
	for v := 0; v < s.vars.Dimension(); v++ {
		st := s.vars.Get(VarIndex(v))
		if st.IsAssigned() {
			model[v] = st.AssignedValue
		}
	}
	return model
}

// Stats reports search counters useful for diagnostics and benchmarking.
type Stats struct {
	Variables    int
	Clauses      int
	Conflicts    int
	Decisions    int
	Propagations int
	Restarts     int
	Reductions   int
}

// Stats returns the current search counters.
func (s *Solver) Stats() Stats {
	return Stats{
		Variables:    s.vars.Dimension(),
		Clauses:      s.clauseDB.NumClauses(),
		Conflicts:    s.conflicts,
		Decisions:    s.decisions,
		Propagations: s.propagations,
		Restarts:     s.restarts,
		Reductions:   s.reductions,
	}
}
