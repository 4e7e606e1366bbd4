package domain

// Flag is a named boolean cell with edge memory.
//
// Writes take effect immediately: any read made later in the same tick
// observes the new value. Previous holds the value latched at the start of the
// current tick and only moves when the engine calls Latch at a tick boundary.
//
// A Flag is not safe for concurrent use. It belongs to exactly one engine and
// is only touched from that engine's tick goroutine.
type Flag struct {
	name     string
	value    bool
	previous bool
	pulses   uint64
}

// NewFlag creates a flag that starts false.
func NewFlag(name string) *Flag {
	return &Flag{name: name}
}

// Name returns the flag name.
func (f *Flag) Name() string { return f.name }

// Get returns the current value.
func (f *Flag) Get() bool { return f.value }

// Previous returns the value latched at the start of the current tick.
func (f *Flag) Previous() bool { return f.previous }

// Set writes v.
func (f *Flag) Set(v bool) { f.value = v }

// SetTrue writes true.
func (f *Flag) SetTrue() { f.value = true }

// SetFalse writes false.
func (f *Flag) SetFalse() { f.value = false }

// Toggle flips the value.
func (f *Flag) Toggle() { f.value = !f.value }

// ToggleToTrue guarantees the flag ends true. If it already was true, the
// write is recorded as a false->true pulse so that rising-edge bindings
// reading this flag fire again.
func (f *Flag) ToggleToTrue() {
	if f.value {
		f.pulses++
	}
	f.value = true
}

// Pulses returns how many false->true pulses ToggleToTrue has recorded.
// Bindings compare it against the count they saw last to detect a pulse.
func (f *Flag) Pulses() uint64 { return f.pulses }

// Latch copies the current value into Previous. Called once per tick by the engine.
func (f *Flag) Latch() { f.previous = f.value }

// Rose reports a false->true change since the last latch.
func (f *Flag) Rose() bool { return f.value && !f.previous }

// Fell reports a true->false change since the last latch.
func (f *Flag) Fell() bool { return !f.value && f.previous }

func (f *Flag) String() string { return f.name }
