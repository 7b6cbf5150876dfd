package criteria

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when a selection disables every criterion.
var ErrEmptySelection = errors.New("criteria selection enables no criteria")

// UnknownKeyError reports a criterion key outside the fixed set.
type UnknownKeyError struct {
	Key Key
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown criterion key: %s", e.Key)
}
