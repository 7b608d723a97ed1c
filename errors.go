package ihero

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrContextLost reports that the GPU device was lost. The stage falls
	// back to CSS and never restores.
	ErrContextLost = errors.New("ihero: rendering context lost")

	// ErrCapabilityUnavailable reports that the host has no usable GPU.
	// No stage is constructed.
	ErrCapabilityUnavailable = errors.New("ihero: rendering capability unavailable")

	// ErrTransientInput marks a malformed input event. It is dropped and the
	// previous input state is kept.
	ErrTransientInput = errors.New("ihero: transient input")

	// ErrStageDestroyed is returned by stage methods after Destroy.
	ErrStageDestroyed = errors.New("ihero: stage destroyed")

	// errNoRoot means the mount point or its canvas is missing.
	errNoRoot = errors.New("ihero: no mount root")

	// errNoScheduler means NewStage was called without WithScheduler.
	errNoScheduler = errors.New("ihero: no scheduler")
)

// InitError is returned when a stage cannot be constructed. The caller
// must not call any method of the failed stage and should fall back to the
// CSS presentation.
type InitError struct {
	// Op names the construction step that failed.
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("ihero: init %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
