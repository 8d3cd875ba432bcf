package assert

import "github.com/oomph-ac/rewind/oerror"

// IsTrue panics with a formatted error if ok is false. It is only used for invariants whose violation
// is a programming error, never for conditions caused by remote input.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
