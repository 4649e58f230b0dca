package advanced

import "github.com/pkg/errors"

// Invariant failures deep inside insertion and removal are raised as panics;
// the public API recovers them into errors. Recoverable outcomes, like an
// unsupported segment intersection, are returned as ordinary errors instead.

// GraphError is the panic value used by fatalf and preconditionf.
type GraphError struct {
	error
	Precondition bool
}

var ErrIntersectingSegments = errors.New("segments intersect and intersection support is disabled")

// Panic with a GraphError for a broken internal invariant.
func fatalf(format string, args ...interface{}) {
	panic(GraphError{error: errors.Errorf(format, args...)})
}

// Panic with a GraphError for a caller error.
func preconditionf(format string, args ...interface{}) {
	panic(GraphError{error: errors.Errorf(format, args...), Precondition: true})
}

func HandleGraphPanicRecover(r interface{}) error {
	if r != nil {
		if graphError, ok := r.(GraphError); ok {
			return graphError
		}
		panic(r)
	}
	return nil
}
