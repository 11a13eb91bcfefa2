package sat

import (
	"io"
	"os"
)

// Options tunes the search heuristics and diagnostics of a Solver. The
// zero value is not usable directly; start from DefaultOptions.
type Options struct {
	// VarActivityTimeConstant sets the run-up period of the variable
	// activity bump, in conflicts. 20 reproduces the classic VSIDS decay
	// factor of 0.95 per conflict.
	VarActivityTimeConstant float64

	// ClauseActivityTimeConstant is the clause-activity analogue, in
	// conflicts. 1000 reproduces a decay factor of 0.999.
	ClauseActivityTimeConstant float64

	// ShortLBDWindow is the number of recent conflicts averaged for the
	// short-horizon LBD signal used to trigger restarts.
	ShortLBDWindow int

	// LongLBDTimeConstant is the run-up period, in conflicts, of the
	// long-horizon LBD average that the short-horizon one is compared
	// against.
	LongLBDTimeConstant float64

	// InitialReductionInterval is the number of conflicts before the
	// first learnt-clause database reduction. The interval grows by 10%
	// after every reduction.
	InitialReductionInterval int

	// Verbose, when true, makes the solver write one line of search
	// statistics to Log every time it restarts.
	Verbose bool

	// Log receives search-progress output when Verbose is set. Defaults
	// to os.Stderr if nil.
	Log io.Writer
}

// DefaultOptions returns the tuning used when a caller doesn't need to
// override anything.
func DefaultOptions() Options {
	return Options{
		VarActivityTimeConstant:    20,
		ClauseActivityTimeConstant: 1000,
		ShortLBDWindow:             50,
		LongLBDTimeConstant:        1e5,
		InitialReductionInterval:   5000,
		Log:                        os.Stderr,
	}
}

func (o Options) logWriter() io.Writer {
	if o.Log != nil {
		return o.Log
	}
	return os.Stderr
}
