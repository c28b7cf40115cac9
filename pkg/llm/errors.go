package llm

import (
	"errors"
	"fmt"
)

// ModelCallError reports a failed embedding or completion call. The pipeline
// records it into the workflow error list; it is never fatal to a run.
type ModelCallError struct {
	Op    string // "embed" or "complete"
	Model string
	Err   error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (%s, model %s): %v", e.Op, e.Model, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}

// IsModelCallError reports whether err wraps a ModelCallError.
func IsModelCallError(err error) bool {
	var mce *ModelCallError
	return errors.As(err, &mce)
}
