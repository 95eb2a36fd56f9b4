package chtml

// PosError attaches a source location to an input error reported by the
// command-text parser or the interpolation splitter. Contract violations are
// not PosErrors; they panic.
type PosError struct {
	Loc Loc
	Err error
}

func (e *PosError) Error() string {
	return e.Loc.String() + ": " + e.Err.Error()
}

func (e *PosError) Unwrap() error {
	return e.Err
}
