package ports

// SignalBoard holds named boolean inputs.
//
// Reads happen on the tick goroutine while writes come from other goroutines
// (HTTP handlers, scenario players), so implementations must be safe for
// concurrent use.
type SignalBoard interface {
	// Read returns the current value of a signal.
	// Returns domain.ErrUnknownSignal if the signal is not registered.
	Read(name string) (bool, error)

	// Set holds a signal at v until the next Set.
	Set(name string, v bool) error

	// Pulse makes a signal read true until one tick has sampled it.
	Pulse(name string) error

	// Signals returns the current value of every registered signal.
	Signals() map[string]bool
}
