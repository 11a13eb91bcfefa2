package dimacs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cdclgo/solver/sat"
)

type fakeSolver struct {
	nVars   int
	clauses [][]sat.Literal
}

func (f *fakeSolver) NewVar() sat.VarIndex {
	v := sat.VarIndex(f.nVars)
	f.nVars++
	return v
}

func (f *fakeSolver) AddClause(lits []sat.Literal) {
	f.clauses = append(f.clauses, lits)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParsesVariablesAndClauses(t *testing.T) {
	path := writeTemp(t, "test.cnf", "c comment\np cnf 3 2\n1 -2 0\n3 0\n")

	f := &fakeSolver{}
	if err := Load(path, false, f); err != nil {
		t.Fatalf("Load() error: %s", err)
	}
	if f.nVars != 3 {
		t.Fatalf("nVars = %d, want 3", f.nVars)
	}
	if len(f.clauses) != 2 {
		t.Fatalf("len(clauses) = %d, want 2", len(f.clauses))
	}
	want := []sat.Literal{sat.Pos(0), sat.Neg(1)}
	got := f.clauses[0]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("clauses[0][%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadModels(t *testing.T) {
	path := writeTemp(t, "test.cnf.models", "1 2 0\n-1 2 0\n")

	models, err := ReadModels(path)
	if err != nil {
		t.Fatalf("ReadModels() error: %s", err)
	}
	if len(models) != 2 {
		t.Fatalf("len(models) = %d, want 2", len(models))
	}
	if !models[0][0] || !models[0][1] {
		t.Fatalf("models[0] = %v, want [true true]", models[0])
	}
	if models[1][0] || !models[1][1] {
		t.Fatalf("models[1] = %v, want [false true]", models[1])
	}
}
