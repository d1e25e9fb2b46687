package cmderr

// Wrapper distinguishing replay runtime errors from CLI parsing errors.
// Used to determine whether to print a usage message on error.
type ReplayErr struct {
	Err error
}

func (r ReplayErr) Error() string {
	return r.Err.Error()
}

// github.com/pkg/errors causer interface
func (r ReplayErr) Cause() error {
	return r.Err
}

// github.com/pkg/errors Unwrap interface
func (r ReplayErr) Unwrap() error {
	return r.Err
}
