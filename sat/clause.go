package sat

// Clause is an ordered sequence of literals plus the bookkeeping metadata
// the clause database needs for watched-literal propagation, LBD/activity
// scoring, and reduction. The first two positions are the watched slots
// whenever len(Literals) >= 2. A deleted clause keeps its index (other
// clauses' watch entries may still reference it) but releases its literal
// storage.
type Clause struct {
	Literals []Literal

	IsLearnt bool
	LBD      uint32
	Activity float64

	GeneratedTime uint64
	LastUsedTime  uint64

	IsDeleted bool
}

func (c *Clause) delete() {
	c.IsDeleted = true
	c.Literals = nil
}
