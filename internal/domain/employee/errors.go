package employee

import (
	"errors"
	"fmt"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// NotFoundError names the reference that could not be resolved.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Employee matching '%s' not found.", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrEmployeeNotFound
}
