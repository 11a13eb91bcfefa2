package sat

import "math"

// ClauseIndex identifies a clause stored in a ClauseDB. Deleted clauses
// keep their index; only their literal storage is released.
type ClauseIndex int32

// ReasonKind distinguishes the two ways a variable can end up assigned.
type ReasonKind uint8

const (
	// ReasonDecision means the variable was assigned by the decision
	// heuristic, opening a new decision level.
	ReasonDecision ReasonKind = iota
	// ReasonPropagation means the variable was forced by a unit clause
	// under the current assignment.
	ReasonPropagation
)

// Reason explains why a variable holds its value: either it was Decided or
// it was forced by Propagation through a specific clause. Go has no sum
// types, so the two variants share one struct; Kind selects which of the
// remaining fields are meaningful.
type Reason struct {
	Kind ReasonKind

	// Meaningful only when Kind == ReasonPropagation.
	Clause                ClauseIndex
	LBDUpper              uint32
	ClauseLength          uint32
	AssignmentLevelAtProp uint32
}

// Decision is the Reason value for a decision assignment.
var Decision = Reason{Kind: ReasonDecision}

// IsDecision reports whether r is the Decision variant.
func (r Reason) IsDecision() bool {
	return r.Kind == ReasonDecision
}

// reasonPriorityTuple returns the lexicographic key used to order the
// tentative-assignment queue: decisions always sort first (-inf, 0, 0);
// propagations sort by (-activity, lbdUpper, clauseLength).
func reasonPriorityTuple(r Reason, activity float64) (negActivity float64, lbdUpper, length uint32) {
	if r.IsDecision() {
		return math.Inf(-1), 0, 0
	}
	return -activity, r.LBDUpper, r.ClauseLength
}
