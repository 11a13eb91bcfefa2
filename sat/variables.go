package sat

import (
	"fmt"

	"github.com/cdclgo/solver/internal/heap"
)

// varStateKind is the tag of the VarState union.
type varStateKind uint8

const (
	stateUnassigned varStateKind = iota
	stateTentative
	stateConflicting
	stateAssigned
)

// VarState is the tagged union of a variable's possible states. Exactly one
// field group is meaningful, selected by Kind:
//
//   - Unassigned:          LastValue
//   - TentativelyAssigned: LastValue, TentativeValue, TentativeReason
//   - Conflicting:         LastValue, ConflictReasons
//   - Assigned:            AssignedValue, DecisionLevel, AssignmentLevel, AssignedReason
type VarState struct {
	Kind varStateKind

	LastValue bool

	TentativeValue  bool
	TentativeReason Reason

	ConflictReasons [2]Reason

	AssignedValue   bool
	DecisionLevel   int32
	AssignmentLevel int32
	AssignedReason  Reason
}

func (s VarState) IsUnassigned() bool  { return s.Kind == stateUnassigned }
func (s VarState) IsTentative() bool   { return s.Kind == stateTentative }
func (s VarState) IsConflicting() bool { return s.Kind == stateConflicting }
func (s VarState) IsAssigned() bool    { return s.Kind == stateAssigned }

// unassignedScore orders the unassigned queue: lower (more negative
// activity) sorts first, i.e. higher activity is preferred.
type unassignedScore = float64

// tentativeScore orders the tentatively-assigned queue, per the lexicographic
// tuple (-activity, lbdUpper, clauseLength); a Decision compares as
// (-inf, 0, 0) so decisions always commit before propagations at the same
// point in the search.
type tentativeScore struct {
	negActivity float64
	lbdUpper    uint32
	length      uint32
}

func lessTentative(a, b tentativeScore) bool {
	if a.negActivity != b.negActivity {
		return a.negActivity < b.negActivity
	}
	if a.lbdUpper != b.lbdUpper {
		return a.lbdUpper < b.lbdUpper
	}
	return a.length < b.length
}

// conflictingScore orders the conflicting queue by (-activity, lbdSum, lenSum).
type conflictingScore struct {
	negActivity float64
	lbdSum      uint32
	lenSum      uint32
}

func lessConflicting(a, b conflictingScore) bool {
	if a.negActivity != b.negActivity {
		return a.negActivity < b.negActivity
	}
	if a.lbdSum != b.lbdSum {
		return a.lbdSum < b.lbdSum
	}
	return a.lenSum < b.lenSum
}

// Variables is the variable-state store: it tracks the four-way assignment
// state of every variable, the decision trail, and the three priority
// queues (unassigned / tentatively-assigned / conflicting) that the solver
// pulls from.
type Variables struct {
	decisionLevel int32
	states        []VarState
	trail         []VarIndex

	unassigned  *heap.IndexedMinHeap[VarIndex, unassignedScore]
	tentative   *heap.IndexedMinHeap[VarIndex, tentativeScore]
	conflicting *heap.IndexedMinHeap[VarIndex, conflictingScore]

	activities       []float64
	activityIncrease float64
	activityTimeConst float64
}

// NewVariables returns an empty store. activityTimeConstant controls the
// geometric growth rate of the VSIDS bump (equivalently, the decay rate of
// older bumps); it must be finite and positive.
func NewVariables(activityTimeConstant float64) *Variables {
	if activityTimeConstant <= 0 {
		panic("sat: activityTimeConstant must be positive")
	}
	return &Variables{
		unassigned:        heap.New[VarIndex, unassignedScore](func(a, b float64) bool { return a < b }),
		tentative:         heap.New[VarIndex, tentativeScore](lessTentative),
		conflicting:       heap.New[VarIndex, conflictingScore](lessConflicting),
		activityIncrease:  1,
		activityTimeConst: activityTimeConstant,
	}
}

// Dimension returns the number of variables allocated so far.
func (vs *Variables) Dimension() int { return len(vs.states) }

// CurrentDecisionLevel returns the number of decisions currently on the trail.
func (vs *Variables) CurrentDecisionLevel() int32 { return vs.decisionLevel }

// CurrentAssignmentLevel returns the number of fully assigned variables,
// i.e. the length of the trail.
func (vs *Variables) CurrentAssignmentLevel() int32 { return int32(len(vs.trail)) }

// NumAssigned returns the number of variables currently on the trail.
func (vs *Variables) NumAssigned() int { return len(vs.trail) }

// ResizeTo grows the store so that variables up to n-1 exist. New variables
// start Unassigned with phase false and activity 0.
func (vs *Variables) ResizeTo(n int) {
	for len(vs.states) < n {
		v := VarIndex(len(vs.states))
		vs.states = append(vs.states, VarState{Kind: stateUnassigned, LastValue: false})
		vs.activities = append(vs.activities, 0)
		vs.unassigned.Grow(len(vs.states))
		vs.tentative.Grow(len(vs.states))
		vs.conflicting.Grow(len(vs.states))
		vs.unassigned.InsertOrUpdate(v, -vs.activities[v])
	}
}

// FirstUnassigned peeks the unassigned variable with the highest activity.
func (vs *Variables) FirstUnassigned() (VarIndex, VarState, bool) {
	v, _, ok := vs.unassigned.PeekMin()
	if !ok {
		return 0, VarState{}, false
	}
	return v, vs.states[v], true
}

// FirstTentative peeks the tentatively-assigned variable due to commit next.
func (vs *Variables) FirstTentative() (VarIndex, VarState, bool) {
	v, _, ok := vs.tentative.PeekMin()
	if !ok {
		return 0, VarState{}, false
	}
	return v, vs.states[v], true
}

// FirstConflicting peeks a variable currently in conflict, if any.
func (vs *Variables) FirstConflicting() (VarIndex, VarState, bool) {
	v, _, ok := vs.conflicting.PeekMin()
	if !ok {
		return 0, VarState{}, false
	}
	return v, vs.states[v], true
}

// Get returns the current state of v.
func (vs *Variables) Get(v VarIndex) VarState { return vs.states[v] }

// AssignmentLevel returns the 1-based trail position of v. Panics unless v
// is currently Assigned.
func (vs *Variables) AssignmentLevel(v VarIndex) int32 {
	s := vs.states[v]
	if s.Kind != stateAssigned {
		panic(fmt.Sprintf("sat: AssignmentLevel called on non-assigned variable %d", v))
	}
	return s.AssignmentLevel
}

// TentativelyAssign records a tentative assignment of v to value with the
// given reason, applying the state-transition rules: Unassigned becomes
// TentativelyAssigned; a same-valued TentativelyAssigned keeps the better
// (smaller-priority) reason; an opposite-valued TentativelyAssigned becomes
// Conflicting; an already-Conflicting variable keeps the better reason on
// the offending side. Calling this on an Assigned variable is a bug.
func (vs *Variables) TentativelyAssign(v VarIndex, value bool, reason Reason) {
	s := &vs.states[v]
	switch s.Kind {
	case stateUnassigned:
		score := vs.tentativeScoreFor(reason, v)
		s.Kind = stateTentative
		s.TentativeValue = value
		s.TentativeReason = reason
		vs.unassigned.Remove(v)
		vs.tentative.InsertOrUpdate(v, score)

	case stateTentative:
		if value == s.TentativeValue {
			newScore := vs.tentativeScoreFor(reason, v)
			curScore, _ := vs.tentative.Get(v)
			if lessTentative(newScore, curScore) {
				s.TentativeReason = reason
				vs.tentative.InsertOrUpdate(v, newScore)
			}
			return
		}
		// Opposite polarity: the variable becomes Conflicting. Reasons are
		// ordered by sign: index 0 is the false-reason, index 1 the true-reason.
		var reasons [2]Reason
		if value {
			reasons = [2]Reason{s.TentativeReason, reason}
		} else {
			reasons = [2]Reason{reason, s.TentativeReason}
		}
		score := vs.conflictingScoreFor(reasons, v)
		s.Kind = stateConflicting
		s.ConflictReasons = reasons
		vs.tentative.Remove(v)
		vs.conflicting.InsertOrUpdate(v, score)

	case stateConflicting:
		newReasons := s.ConflictReasons
		if value {
			newReasons[1] = reason
		} else {
			newReasons[0] = reason
		}
		newScore := vs.conflictingScoreFor(newReasons, v)
		curScore, _ := vs.conflicting.Get(v)
		if lessConflicting(newScore, curScore) {
			s.ConflictReasons = newReasons
			vs.conflicting.InsertOrUpdate(v, newScore)
		}

	case stateAssigned:
		panic(fmt.Sprintf("sat: TentativelyAssign called on already-assigned variable %d", v))
	}
}

// CommitTentative promotes v from TentativelyAssigned to Assigned, pushing
// it onto the trail. If its reason is a Decision, the decision level
// increases.
func (vs *Variables) CommitTentative(v VarIndex) {
	s := &vs.states[v]
	if s.Kind != stateTentative {
		panic(fmt.Sprintf("sat: CommitTentative called on variable %d not in TentativelyAssigned state", v))
	}
	if s.TentativeReason.IsDecision() {
		vs.decisionLevel++
	}
	value := s.TentativeValue
	reason := s.TentativeReason
	vs.tentative.Remove(v)

	s.Kind = stateAssigned
	s.AssignedValue = value
	s.DecisionLevel = vs.decisionLevel
	s.AssignmentLevel = int32(len(vs.trail)) + 1
	s.AssignedReason = reason

	vs.trail = append(vs.trail, v)
}

// CancelTentativeAssignments drains the conflicting and tentative queues
// back to Unassigned, restoring each variable's last-assigned phase. The
// decision level is unaffected.
func (vs *Variables) CancelTentativeAssignments() {
	for {
		v, _, ok := vs.conflicting.PeekMin()
		if !ok {
			break
		}
		s := &vs.states[v]
		last := s.LastValue
		vs.conflicting.Remove(v)
		s.Kind = stateUnassigned
		s.LastValue = last
		vs.unassigned.InsertOrUpdate(v, -vs.activities[v])
	}
	for {
		v, _, ok := vs.tentative.PeekMin()
		if !ok {
			break
		}
		s := &vs.states[v]
		last := s.LastValue
		vs.tentative.Remove(v)
		s.Kind = stateUnassigned
		s.LastValue = last
		vs.unassigned.InsertOrUpdate(v, -vs.activities[v])
	}
}

// PopTrail undoes the most recent assignment, returning it to Unassigned
// with its just-held value preserved as the saved phase (phase saving). If
// its reason was a Decision, the decision level decreases. Panics if the
// trail is empty.
func (vs *Variables) PopTrail() VarIndex {
	if len(vs.trail) == 0 {
		panic("sat: PopTrail called on an empty trail")
	}
	v := vs.trail[len(vs.trail)-1]
	vs.trail = vs.trail[:len(vs.trail)-1]

	s := &vs.states[v]
	if s.Kind != stateAssigned {
		panic(fmt.Sprintf("sat: PopTrail found variable %d not in Assigned state", v))
	}
	if s.AssignedReason.IsDecision() {
		vs.decisionLevel--
	}
	value := s.AssignedValue
	s.Kind = stateUnassigned
	s.LastValue = value
	vs.unassigned.InsertOrUpdate(v, -vs.activities[v])
	return v
}

// BumpActivity increases v's VSIDS activity. If the activity exceeds the
// rescale threshold, all activities (and the unassigned queue's priorities)
// are rescaled down proportionally.
func (vs *Variables) BumpActivity(v VarIndex) {
	vs.activities[v] += vs.activityIncrease
	if vs.activities[v] > 1e4 {
		for i := range vs.activities {
			vs.activities[i] /= vs.activityIncrease
		}
		vs.activityIncrease = 1
		for idx := 0; idx < len(vs.states); idx++ {
			vi := VarIndex(idx)
			if vs.unassigned.Contains(vi) {
				vs.unassigned.InsertOrUpdate(vi, -vs.activities[vi])
			}
		}
	}
}

// AdvanceTime grows the activity-bump increment geometrically, equivalent
// to exponentially decaying the influence of older bumps.
func (vs *Variables) AdvanceTime() {
	vs.activityIncrease /= 1 - 1/vs.activityTimeConst
}

func (vs *Variables) tentativeScoreFor(reason Reason, v VarIndex) tentativeScore {
	neg, lbdUpper, length := reasonPriorityTuple(reason, vs.activities[v])
	return tentativeScore{negActivity: neg, lbdUpper: lbdUpper, length: length}
}

// LitValue returns the current truth value of l under the assignment: True
// or False if l's variable is Assigned, Unknown otherwise (including
// tentative/conflicting states, which are not yet committed).
func (vs *Variables) LitValue(l Literal) LBool {
	s := vs.states[l.Var]
	if s.Kind != stateAssigned {
		return Unknown
	}
	if s.AssignedValue == l.Sign {
		return True
	}
	return False
}

// IsTrue reports whether l currently evaluates to true.
func (vs *Variables) IsTrue(l Literal) bool { return vs.LitValue(l) == True }

// IsFalse reports whether l currently evaluates to false.
func (vs *Variables) IsFalse(l Literal) bool { return vs.LitValue(l) == False }

func (vs *Variables) conflictingScoreFor(reasons [2]Reason, v VarIndex) conflictingScore {
	if reasons[0].IsDecision() || reasons[1].IsDecision() {
		panic("sat: conflicting reasons must both be propagations")
	}
	return conflictingScore{
		negActivity: -vs.activities[v],
		lbdSum:      reasons[0].LBDUpper + reasons[1].LBDUpper,
		lenSum:      reasons[0].ClauseLength + reasons[1].ClauseLength,
	}
}
