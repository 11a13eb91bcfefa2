package sat

import "fmt"

// VarIndex identifies a Boolean variable. Variables are allocated densely
// starting at 0 and are never freed.
type VarIndex int32

// Literal is a variable together with a polarity. Sign true denotes the
// positive literal of the variable; false denotes its negation.
type Literal struct {
	Var  VarIndex
	Sign bool
}

// Pos returns the positive literal of v.
func Pos(v VarIndex) Literal { return Literal{Var: v, Sign: true} }

// Neg returns the negative literal of v.
func Neg(v VarIndex) Literal { return Literal{Var: v, Sign: false} }

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return Literal{Var: l.Var, Sign: !l.Sign}
}

func (l Literal) String() string {
	if l.Sign {
		return fmt.Sprintf("%d", l.Var)
	}
	return fmt.Sprintf("-%d", l.Var)
}
