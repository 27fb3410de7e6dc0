package rtos

import "github.com/pkg/errors"

// Sentinel errors for the failure modes spec.md §7 enumerates. Callers
// can compare with errors.Is; call sites wrap these with
// github.com/pkg/errors to attach context without losing the identity.
var (
	ErrTaskTableFull  = errors.New("rtos: task table full")
	ErrDuplicateEntry = errors.New("rtos: task entry already present")
	ErrStackExhausted = errors.New("rtos: stack arena exhausted")
	ErrInvalidSemID   = errors.New("rtos: invalid semaphore id")
	ErrUnknownTask    = errors.New("rtos: unknown task name")
	ErrNotKilled      = errors.New("rtos: task is not killed")
)
