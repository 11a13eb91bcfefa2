package dimacs

import (
	"fmt"

	extdimacs "github.com/rhartert/dimacs"
)

// ReadModels parses a ".models" file: one line per expected model, each
// written as a DIMACS clause listing every variable with the sign it takes
// in that model. It has no problem line.
func ReadModels(filename string) ([][]bool, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelsBuilder{}
	if err := extdimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacs: parsing %q: %w", filename, err)
	}
	return b.models, nil
}

type modelsBuilder struct {
	models [][]bool
}

func (b *modelsBuilder) Problem(problem string, nVars, nClauses int) error {
	return fmt.Errorf("dimacs: a models file must not have a problem line")
}

func (b *modelsBuilder) Clause(raw []int) error {
	model := make([]bool, len(raw))
	for i, l := range raw {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

func (b *modelsBuilder) Comment(string) error { return nil }
