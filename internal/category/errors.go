package category

import (
	"errors"
	"fmt"
)

// Validation errors for Add and Rename. Both leave the working list and the
// store untouched.
var (
	ErrEmptyName     = errors.New("category: name is empty")
	ErrDuplicateName = errors.New("category: name already exists")
	ErrIndexRange    = errors.New("category: index out of range")
	ErrNoPending     = errors.New("category: no delete pending")
)

// ErrPartialSave marks a Save that failed after some steps already landed.
// The session can no longer be trusted to mirror the store; the caller must
// re-fetch authoritative state before allowing further edits.
var ErrPartialSave = errors.New("category: save partially applied")

// NotEmptyError blocks ConfirmDelete when items still reference the
// category. The user has to move or delete the blocking items first.
type NotEmptyError struct {
	Name  string
	Count int64
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("category %q still has %d items", e.Name, e.Count)
}

// partialSaveError wraps the failing step with enough context to log while
// matching errors.Is(err, ErrPartialSave).
type partialSaveError struct {
	step string
	err  error
}

func (e *partialSaveError) Error() string {
	return fmt.Sprintf("save partially applied, failed at %s: %v", e.step, e.err)
}

func (e *partialSaveError) Unwrap() []error {
	return []error{ErrPartialSave, e.err}
}
