package domain

import "errors"

// ErrFlagNotFound is returned when a flag name is not registered with a table.
var ErrFlagNotFound = errors.New("flag not found")

// ErrDuplicateFlag is returned when two flags share a name.
var ErrDuplicateFlag = errors.New("duplicate flag name")

// ErrUnknownSignal is returned when an external signal name is not registered.
var ErrUnknownSignal = errors.New("unknown signal")

// ErrSourceFault is reported when an external boolean source fails.
// The source evaluates to false; the error never escapes a tick.
var ErrSourceFault = errors.New("source fault")

// ErrScenarioFailed is returned when a scripted expectation does not hold.
var ErrScenarioFailed = errors.New("scenario expectation failed")
