package action

import "github.com/aretw0/cadence/pkg/domain"

type flagOp int

const (
	opFalse flagOp = iota
	opTrue
	opToggle
	opToggleToTrue
)

func (o flagOp) String() string {
	switch o {
	case opTrue:
		return "true"
	case opToggle:
		return "toggle"
	case opToggleToTrue:
		return "toggleToTrue"
	default:
		return "false"
	}
}

type flagAction struct {
	f  *domain.Flag
	op flagOp
}

// SetTrue writes true to f.
func SetTrue(f *domain.Flag) Action { return &flagAction{f: f, op: opTrue} }

// SetFalse writes false to f.
func SetFalse(f *domain.Flag) Action { return &flagAction{f: f, op: opFalse} }

// Set writes v to f.
func Set(f *domain.Flag, v bool) Action {
	if v {
		return SetTrue(f)
	}
	return SetFalse(f)
}

// Toggle flips f.
func Toggle(f *domain.Flag) Action { return &flagAction{f: f, op: opToggle} }

// ToggleToTrue leaves f true, pulsing it when it already was.
func ToggleToTrue(f *domain.Flag) Action { return &flagAction{f: f, op: opToggleToTrue} }

func (a *flagAction) Name() string { return a.f.Name() + "=" + a.op.String() }

func (a *flagAction) Run(Scope) {
	switch a.op {
	case opTrue:
		a.f.SetTrue()
	case opFalse:
		a.f.SetFalse()
	case opToggle:
		a.f.Toggle()
	case opToggleToTrue:
		a.f.ToggleToTrue()
	}
}

func (a *flagAction) Writes() []domain.Write {
	kind := domain.WriteTrue
	switch a.op {
	case opFalse:
		kind = domain.WriteFalse
	case opToggle:
		kind = domain.WriteToggle
	}
	return []domain.Write{{Flag: a.f, Kind: kind}}
}

type holdAction struct {
	f *domain.Flag
}

// Hold sets f true when started and false when stopped. Bound to a
// while-true edge it mirrors the condition into f.
func Hold(f *domain.Flag) Action { return &holdAction{f: f} }

func (a *holdAction) Name() string { return "hold(" + a.f.Name() + ")" }
func (a *holdAction) Run(Scope)    { a.f.SetTrue() }
func (a *holdAction) Stop(Scope)   { a.f.SetFalse() }
func (a *holdAction) Writes() []domain.Write {
	return []domain.Write{
		{Flag: a.f, Kind: domain.WriteTrue},
		{Flag: a.f, Kind: domain.WriteFalse, Deferred: true},
	}
}
