// Package fault separates program defects from recoverable failures.
//
// Recoverable failures (allocation limits, missing files) are returned as
// ordinary errors. A broken invariant is a defect in the caller: Assert
// panics with a *Violation that carries the stack where the check failed,
// so a benchmark stops hard instead of measuring corrupted state.
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Violation is the panic value raised by Assert.
type Violation struct {
	err error
}

// Error implements error.
func (v *Violation) Error() string {
	return "invariant violation: " + v.err.Error()
}

// Unwrap returns the underlying message with its stack.
func (v *Violation) Unwrap() error {
	return v.err
}

// Format prints the stack trace for %+v.
func (v *Violation) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "invariant violation: %+v", v.err)
		return
	}
	fmt.Fprint(s, v.Error())
}

// Assert panics with a *Violation when cond is false.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(&Violation{err: errors.Errorf(format, args...)})
}

// IsViolation reports whether err, or anything it wraps, is a *Violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

// Recover converts a Violation panic into an error stored in *errp. Other
// panics are re-raised. Use it at a boundary that prefers reporting over
// crashing, such as a CLI command:
//
//	defer fault.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if v, ok := r.(*Violation); ok {
		*errp = v
		return
	}
	panic(r)
}
