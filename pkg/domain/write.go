package domain

// WriteKind describes what an action does to a flag.
type WriteKind int

const (
	WriteFalse WriteKind = iota
	WriteTrue
	// WriteToggle may end either way.
	WriteToggle
)

func (k WriteKind) String() string {
	switch k {
	case WriteTrue:
		return "true"
	case WriteFalse:
		return "false"
	default:
		return "toggle"
	}
}

// Write is a static description of one flag write performed by an action.
//
// Deferred writes happen on a later tick (timed expiry, wait-until).
// Conditional writes only happen when a guard holds at run time, so the
// validator never counts them as guaranteed.
type Write struct {
	Flag        *Flag
	Kind        WriteKind
	Deferred    bool
	Conditional bool
}

// MaySetTrue reports whether the write can leave the flag true.
func (w Write) MaySetTrue() bool {
	return w.Kind == WriteTrue || w.Kind == WriteToggle
}

// ClearsNow reports whether the write is an unconditional, immediate clear.
func (w Write) ClearsNow() bool {
	return w.Kind == WriteFalse && !w.Deferred && !w.Conditional
}
