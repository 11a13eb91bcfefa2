// Package dimacs loads DIMACS CNF files into a sat.Solver, and reads back
// the companion ".models" files used by the integration tests to assert on
// every satisfying assignment of a formula.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	extdimacs "github.com/rhartert/dimacs"

	"github.com/cdclgo/solver/sat"
)

// Solver is the subset of sat.Solver's API that Load needs.
type Solver interface {
	NewVar() sat.VarIndex
	AddClause([]sat.Literal)
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// Load parses the DIMACS CNF file at filename and adds its variables and
// clauses to solver.
func Load(filename string, gzipped bool, solver Solver) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &builder{solver: solver}
	if err := extdimacs.ReadBuilder(r, b); err != nil {
		return fmt.Errorf("dimacs: parsing %q: %w", filename, err)
	}
	return nil
}

type builder struct {
	solver Solver
	vars   []sat.VarIndex
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacs: unsupported problem type %q", problem)
	}
	b.vars = make([]sat.VarIndex, nVars)
	for i := range b.vars {
		b.vars[i] = b.solver.NewVar()
	}
	return nil
}

func (b *builder) Clause(raw []int) error {
	clause := make([]sat.Literal, len(raw))
	for i, l := range raw {
		if l > 0 {
			clause[i] = sat.Pos(b.vars[l-1])
		} else {
			clause[i] = sat.Neg(b.vars[-l-1])
		}
	}
	b.solver.AddClause(clause)
	return nil
}

func (b *builder) Comment(string) error { return nil }
