package advanced

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestHandleGraphPanicRecover(t *testing.T) {
	testFn := func(mode string) (err error) {
		defer func() {
			recoveredErr := HandleGraphPanicRecover(recover())
			if recoveredErr != nil {
				err = recoveredErr
			}
		}()

		switch mode {
		case "fatal":
			fatalf("kaboom!")
		case "precondition":
			preconditionf("bad input %d", 3)
		case "panic":
			panic("true panic")
		}
		return nil
	}

	t.Run("with throw", func(t *testing.T) {
		err := testFn("fatal")
		assert.EqualError(t, err, "kaboom!")
		var graphErr GraphError
		assert.True(t, errors.As(err, &graphErr))
		assert.False(t, graphErr.Precondition)
	})

	t.Run("with precondition", func(t *testing.T) {
		err := testFn("precondition")
		assert.EqualError(t, err, "bad input 3")
		assert.True(t, err.(GraphError).Precondition)
	})

	t.Run("with real panic", func(t *testing.T) {
		assert.Panics(t, func() {
			testFn("panic")
		})
	})

	t.Run("no error", func(t *testing.T) {
		err := testFn("")
		assert.NoError(t, err)
	})
}
