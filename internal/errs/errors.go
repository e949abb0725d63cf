package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
    ErrNotFound = errors.New("not_found")
    ErrInvalid  = errors.New("invalid")
    ErrConflict = errors.New("conflict")
    // ErrNoActiveCycle signals an operation that needs a financial cycle
    // (unit cost, consolidation) when none has been created yet.
    ErrNoActiveCycle = errors.New("no_active_cycle")
)
