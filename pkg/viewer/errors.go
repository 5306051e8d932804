package viewer

import (
	"errors"
	"fmt"
)

// ErrContainerNotFound is wrapped by ConstructionError when the configured
// container id does not resolve.
var ErrContainerNotFound = errors.New("container not found")

// ConstructionError is returned by New. No viewer exists when it is returned.
type ConstructionError struct {
	ContainerID string
	Err         error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct viewer in %q: %v", e.ContainerID, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// LoadError reports a failed asset fetch or decode. The current model is
// left in place.
type LoadError struct {
	RequestID string
	Path      string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
