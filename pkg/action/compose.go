package action

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Group runs its actions in order as one named action.
type Group struct {
	name    string
	actions []Action
}

// All groups actions under name.
func All(name string, actions ...Action) *Group {
	return &Group{name: name, actions: actions}
}

func (g *Group) Name() string {
	if g.name != "" {
		return g.name
	}
	names := make([]string, len(g.actions))
	for i, a := range g.actions {
		names[i] = a.Name()
	}
	return strings.Join(names, ", ")
}

// Actions returns the grouped actions.
func (g *Group) Actions() []Action { return g.actions }

func (g *Group) Run(sc Scope) {
	for _, a := range g.actions {
		a.Run(sc)
	}
}

func (g *Group) Stop(sc Scope) {
	for _, a := range g.actions {
		Stop(a, sc)
	}
}

func (g *Group) Writes() []domain.Write {
	var ws []domain.Write
	for _, a := range g.actions {
		ws = append(ws, a.Writes()...)
	}
	return ws
}

type whenAction struct {
	cond trigger.Condition
	a    Action
}

// When runs a only if cond holds at the moment the action runs.
func When(cond trigger.Condition, a Action) Action {
	if cond == nil {
		cond = trigger.False
	}
	return &whenAction{cond: cond, a: a}
}

func (w *whenAction) Name() string { return fmt.Sprintf("%s if %s", w.a.Name(), w.cond) }

func (w *whenAction) Run(sc Scope) {
	if w.cond.Evaluate(sc.Sample()) {
		w.a.Run(sc)
	}
}

func (w *whenAction) Stop(sc Scope) { Stop(w.a, sc) }

func (w *whenAction) Writes() []domain.Write { return conditional(w.a.Writes()) }

// WaitUntilAction runs an action on the first later tick its condition holds.
type WaitUntilAction struct {
	cond trigger.Condition
	a    Action
}

// WaitUntil defers a until cond holds. The condition is first checked on the
// tick after the action runs.
func WaitUntil(cond trigger.Condition, a Action) *WaitUntilAction {
	if cond == nil {
		cond = trigger.False
	}
	return &WaitUntilAction{cond: cond, a: a}
}

func (w *WaitUntilAction) Name() string {
	return fmt.Sprintf("wait until %s, then %s", w.cond, w.a.Name())
}

func (w *WaitUntilAction) Run(sc Scope) { sc.Schedule(w) }

func (w *WaitUntilAction) Poll(sc Scope, _ time.Duration) bool {
	if !w.cond.Evaluate(sc.Sample()) {
		return false
	}
	w.a.Run(sc)
	return true
}

func (w *WaitUntilAction) Stop(sc Scope)  { w.Abort(sc) }
func (w *WaitUntilAction) Abort(sc Scope) { sc.Unschedule(w) }

func (w *WaitUntilAction) Writes() []domain.Write {
	return conditional(deferred(w.a.Writes()))
}

// RepeatAction runs an action on every tick for a bounded window.
type RepeatAction struct {
	a      Action
	window func() time.Duration
	spent  time.Duration
}

// Repeatedly runs a immediately and then once per tick until window has
// elapsed. Running it again restarts the window.
func Repeatedly(a Action, window func() time.Duration) *RepeatAction {
	return &RepeatAction{a: a, window: window}
}

func (r *RepeatAction) Name() string {
	return fmt.Sprintf("repeat %s for %s", r.a.Name(), r.windowOf())
}

func (r *RepeatAction) Run(sc Scope) {
	r.spent = 0
	r.a.Run(sc)
	sc.Schedule(r)
}

func (r *RepeatAction) Poll(sc Scope, elapsed time.Duration) bool {
	r.spent += elapsed
	if r.spent >= r.windowOf() {
		return true
	}
	r.a.Run(sc)
	return false
}

func (r *RepeatAction) Stop(sc Scope)  { r.Abort(sc) }
func (r *RepeatAction) Abort(sc Scope) { sc.Unschedule(r) }

func (r *RepeatAction) Writes() []domain.Write {
	ws := r.a.Writes()
	return append(ws, deferred(ws)...)
}

func (r *RepeatAction) windowOf() time.Duration {
	if r.window == nil {
		return 0
	}
	return r.window()
}

// ResetAction clears a fixed set of flags and aborts any countdown holding
// one of them.
type ResetAction struct {
	name  string
	flags []*domain.Flag
}

// Reset builds a composite reset of flags.
func Reset(name string, flags ...*domain.Flag) *ResetAction {
	return &ResetAction{name: name, flags: flags}
}

func (r *ResetAction) Name() string { return r.name }

// Flags returns the flags cleared by the reset.
func (r *ResetAction) Flags() []*domain.Flag { return r.flags }

// Extend returns a new reset clearing r's flags plus more.
func (r *ResetAction) Extend(name string, more ...*domain.Flag) *ResetAction {
	flags := make([]*domain.Flag, 0, len(r.flags)+len(more))
	flags = append(flags, r.flags...)
	flags = append(flags, more...)
	return Reset(name, flags...)
}

func (r *ResetAction) Run(sc Scope) {
	cleared := make(map[*domain.Flag]bool, len(r.flags))
	for _, f := range r.flags {
		f.SetFalse()
		cleared[f] = true
	}
	for _, t := range sc.Tasks() {
		if cd, ok := t.(Countdown); ok && cleared[cd.Target()] {
			cd.Abort(sc)
		}
	}
}

func (r *ResetAction) Writes() []domain.Write {
	ws := make([]domain.Write, len(r.flags))
	for i, f := range r.flags {
		ws[i] = domain.Write{Flag: f, Kind: domain.WriteFalse}
	}
	return ws
}
