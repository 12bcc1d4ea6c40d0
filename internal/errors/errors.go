// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
    "sort"
    "strings"
)

var (
    ErrSendNotFound   = errors.New("scheduled send not found")
    ErrSaveInProgress = errors.New("save already in progress")
    ErrNotLoaded      = errors.New("schedule not loaded")
)

// Reasons carried by ValidationError.
const (
    ReasonLocked   = "locked"
    ReasonSameSend = "same_send"
    ReasonNotFound = "not_found"
    ReasonSaving   = "saving"
    ReasonNoDrag   = "no_drag"
)

// ValidationError rejects a swap or drag command. No state was changed.
type ValidationError struct {
    Reason string
    SendID string
}

func (e *ValidationError) Error() string {
    if e.SendID == "" {
        return fmt.Sprintf("invalid move: %s", e.Reason)
    }
    return fmt.Sprintf("invalid move on send %s: %s", e.SendID, e.Reason)
}

func NewValidationError(reason, sendID string) error {
    return &ValidationError{Reason: reason, SendID: sendID}
}

// IsReason reports whether err is a ValidationError with the given reason.
func IsReason(err error, reason string) bool {
    var ve *ValidationError
    return errors.As(err, &ve) && ve.Reason == reason
}

// StateConflictError is reported when an external update locks or removes
// a send taking part in an in-progress drag.
type StateConflictError struct {
    SendID string
    Status string
}

func (e *StateConflictError) Error() string {
    return fmt.Sprintf("send %s changed to %s during drag; drag cancelled", e.SendID, e.Status)
}

func NewStateConflict(sendID, status string) error {
    return &StateConflictError{SendID: sendID, Status: status}
}

// PersistenceError wraps a failed update call for a single send.
type PersistenceError struct {
    SendID string
    Err    error
}

func (e *PersistenceError) Error() string {
    return fmt.Sprintf("persist send %s: %v", e.SendID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(sendID string, err error) error {
    return &PersistenceError{SendID: sendID, Err: err}
}

// SaveError lists every send of a batch that failed to persist.
type SaveError struct {
    Failures []*PersistenceError
}

func (e *SaveError) Error() string {
    ids := e.FailedIDs()
    return fmt.Sprintf("%d update(s) failed: %s", len(ids), strings.Join(ids, ", "))
}

func (e *SaveError) FailedIDs() []string {
    ids := make([]string, 0, len(e.Failures))
    for _, f := range e.Failures {
        ids = append(ids, f.SendID)
    }
    sort.Strings(ids)
    return ids
}

func (e *SaveError) Unwrap() []error {
    errs := make([]error, 0, len(e.Failures))
    for _, f := range e.Failures {
        errs = append(errs, f)
    }
    return errs
}
