package synth

import (
	"fmt"
)

// Require returns err when the condition does not hold.
// Extra args are formatted into the error context.
func Require(condition bool, err error, args ...interface{}) error {
	if condition {
		return nil
	}

	if len(args) == 0 {
		return err
	}

	return fmt.Errorf("%w: %s", err, fmt.Sprint(args...))
}
