package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// InvalidWorkItemError is returned from enqueue operations when an item is
// neither a factory nor an awaitable.
type InvalidWorkItemError struct {
	Reason string
}

func (e *InvalidWorkItemError) Error() string {
	return fmt.Sprintf("invalid work item: %s", e.Reason)
}

func NewInvalidWorkItemError(reason string) error {
	return &InvalidWorkItemError{Reason: reason}
}

func IsInvalidWorkItem(err error) bool {
	var e *InvalidWorkItemError
	return errors.As(err, &e)
}

// SchedulerDoneError is returned when an operation is attempted on a
// scheduler that already reached a terminal state.
type SchedulerDoneError struct {
	State string
}

func (e *SchedulerDoneError) Error() string {
	return fmt.Sprintf("scheduler already finished with state %q", e.State)
}

func NewSchedulerDoneError(state string) error {
	return &SchedulerDoneError{State: state}
}

func IsSchedulerDone(err error) bool {
	var e *SchedulerDoneError
	return errors.As(err, &e)
}

// DispatchFaultError wraps a failure raised inside the dispatch or drain
// machinery itself, as opposed to a failure produced by a work item.
type DispatchFaultError struct {
	Cause error
}

func (e *DispatchFaultError) Error() string {
	return fmt.Sprintf("dispatch fault: %v", e.Cause)
}

func (e *DispatchFaultError) Unwrap() error {
	return e.Cause
}

func NewDispatchFaultError(cause error) error {
	return &DispatchFaultError{Cause: cause}
}

func IsDispatchFault(err error) bool {
	var e *DispatchFaultError
	return errors.As(err, &e)
}

// RunNotFoundError is returned by the run service and store when the
// requested run does not exist.
type RunNotFoundError struct {
	ID uuid.UUID
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.ID)
}

func NewRunNotFoundError(id uuid.UUID) error {
	return &RunNotFoundError{ID: id}
}

func IsRunNotFound(err error) bool {
	var e *RunNotFoundError
	return errors.As(err, &e)
}
