package scoring

import (
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Binding order is evaluation order. A binding observes every write made by
// the bindings above it in the same tick.

var (
	flag = trigger.Flag
	and  = trigger.And
	or   = trigger.Or
	not  = trigger.Not
)

// enabled gates the scoring timers. It reads false when the disabled signal
// is faulted, not only when it reads true.
func (t *Table) enabled() trigger.Condition {
	d := t.signals.System.Disabled
	return and(not(d), trigger.Healthy(d))
}

// bindActionCycle wires homing, coast mode and the prep -> action cycle.
func (t *Table) bindActionCycle() {
	b, s := t.b, t.signals
	notDisabled := t.enabled()

	b.On(s.System.Disabled).Named("disable clear").
		Rising(action.Repeatedly(t.clearStates, t.disableWindow))

	// Homing
	b.On(t.home).Named("home hold").WhileTrue(action.ToggleToTrue(t.HomeAll))
	b.On(t.home).Named("home release").Falling(t.clearStates)
	b.On(s.Auton.ClearStates).Rising(t.partialReset)

	b.On(or(flag(t.Action), s.Operator.Staged)).Falling(action.SetFalse(t.Coral), action.SetFalse(t.Algae))
	b.On(s.Mechanism.AtHome).Rising(action.SetFalse(t.HomeAll))

	b.On(or(s.Pilot.CoastOn, s.Operator.CoastOn)).Rising(action.SetTrue(t.CoastMode))
	b.On(or(s.Pilot.CoastOff, s.Operator.CoastOff)).Rising(action.SetFalse(t.CoastMode))

	// Action prep and action
	b.On(s.Pilot.ActionReady).Falling(action.SetFalse(t.ActionPrep))
	b.On(s.Auton.ActionOff).Rising(action.SetFalse(t.ActionPrep))

	b.On(or(and(s.Pilot.ActionReady, or(flag(t.Coral), flag(t.Algae))), s.Auton.ActionOn)).Named("enter prep").
		Rising(action.SetTrue(t.ActionPrep), action.SetFalse(t.Action))

	b.On(or(flag(t.ActionPrep), s.Auton.ActionOn)).Rising(action.SetFalse(t.Action))

	b.On(flag(t.ActionPrep)).Named("enter action").Falling(
		action.When(and(not(flag(t.AutoScoreMode)), notDisabled),
			action.Timed(t.Action, t.scoreTime).WithCancel(flag(t.ActionPrep))),
	)

	b.On(s.Auton.ActionOff).Named("auton action").Falling(
		action.SetFalse(t.ActionPrep),
		action.When(notDisabled, action.Timed(t.Action, t.scoreTime)),
	)

	b.On(or(s.Operator.AlgaeStage, s.Operator.CoralStage)).Rising(action.SetFalse(t.Action))
	b.On(and(or(t.l2Algae, t.l3Algae, t.processorAlgae), flag(t.Action))).Rising(action.SetFalse(t.Action))
}

// bindIntake wires the intake states and algae removal.
func (t *Table) bindIntake() {
	b, s := t.b, t.signals
	rehome := action.ToggleToTrue(t.HomeAll)

	b.On(t.stationIntaking).
		WhileTrue(action.ToggleToTrue(t.Coral), action.SetFalse(t.Algae)).
		Falling(rehome)

	b.On(s.Pilot.GroundCoral).
		WhileTrue(action.ToggleToTrue(t.Coral), action.SetFalse(t.Algae)).
		Falling(rehome)

	b.On(s.Pilot.GroundAlgae).
		WhileTrue(action.ToggleToTrue(t.Algae), action.SetFalse(t.Coral)).
		Falling(rehome)

	b.On(s.Pilot.L2AlgaeRemoval).Named("l2 algae removal").
		Rising(
			action.SetTrue(t.Algae), action.SetFalse(t.Coral),
			action.SetTrue(t.L2), action.SetFalse(t.L1), action.SetFalse(t.L3), action.SetFalse(t.L4),
			action.SetTrue(t.ActionPrep), action.SetFalse(t.Action),
		).
		Falling(action.SetFalse(t.L2), action.SetFalse(t.ActionPrep))

	b.On(s.Pilot.L3AlgaeRemoval).Named("l3 algae removal").
		Rising(
			action.SetTrue(t.Algae), action.SetFalse(t.Coral),
			action.SetTrue(t.L3), action.SetFalse(t.L1), action.SetFalse(t.L2), action.SetFalse(t.L4),
			action.SetTrue(t.ActionPrep), action.SetFalse(t.Action),
		).
		Falling(action.SetFalse(t.L3), action.SetFalse(t.ActionPrep))
}

// bindStaging wires category, level, score side, twist and coral scoring.
func (t *Table) bindStaging() {
	b, s := t.b, t.signals
	op := s.Operator

	// Clear staged if we aren't scoring, holding or staged.
	b.On(and(not(flag(t.Coral)), not(flag(t.Algae)), not(flag(t.Action)), not(flag(t.ActionPrep)))).
		Named("idle").Rising(t.clearStaged)

	b.On(and(not(flag(t.Action)), not(op.CoralStage))).Rising(action.SetFalse(t.Coral))

	b.On(or(op.CoralStage, s.Auton.Coral)).Rising(action.SetTrue(t.Coral), action.SetFalse(t.Algae))
	b.On(or(op.AlgaeStage, s.Auton.Algae)).Rising(action.SetTrue(t.Algae), action.SetFalse(t.Coral))

	b.On(or(and(op.L1, op.Staged), s.Auton.L1)).
		Rising(action.SetTrue(t.L1), action.SetFalse(t.L2), action.SetFalse(t.L3), action.SetFalse(t.L4))
	b.On(or(and(op.L2, op.Staged), s.Auton.L2)).
		Rising(action.SetTrue(t.L2), action.SetFalse(t.L1), action.SetFalse(t.L3), action.SetFalse(t.L4))
	b.On(or(and(op.L3, op.Staged), s.Auton.L3)).
		Rising(action.SetTrue(t.L3), action.SetFalse(t.L1), action.SetFalse(t.L2), action.SetFalse(t.L4))
	b.On(or(and(op.L4, op.Staged), s.Auton.L4)).
		Rising(action.SetTrue(t.L4), action.SetFalse(t.L1), action.SetFalse(t.L2), action.SetFalse(t.L3))

	b.On(and(op.LeftScore, op.Staged)).Rising(action.SetFalse(t.RightScore))
	b.On(and(op.RightScore, op.Staged)).Rising(action.SetTrue(t.RightScore))

	// Twist settles at the reef once staged left/right for long enough.
	b.On(and(flag(t.ActionPrep), trigger.DebounceFunc(t.twistStageComplete, t.twistDelay))).
		Rising(action.SetTrue(t.TwistAtReef))
	b.On(flag(t.Action)).Rising(action.SetFalse(t.TwistAtReef))
	b.On(flag(t.Reversed)).Change(action.SetFalse(t.TwistAtReef))

	// Coral scoring holds from reaching the level in prep until homed.
	m := s.Mechanism
	b.On(and(flag(t.ActionPrep), t.l1Coral, m.AtL1Coral)).Rising(action.SetTrue(t.CoralScoring))
	b.On(and(flag(t.ActionPrep), t.l2Coral, m.AtL2Coral)).Rising(action.SetTrue(t.CoralScoring))
	b.On(and(flag(t.ActionPrep), t.l3Coral, m.AtL3Coral)).Rising(action.SetTrue(t.CoralScoring))
	b.On(and(flag(t.ActionPrep), t.l4Coral, t.atL4Coral)).Rising(action.SetTrue(t.CoralScoring))
	b.On(flag(t.Algae)).Rising(action.SetFalse(t.CoralScoring))
	b.On(flag(t.HomeAll)).Rising(action.SetFalse(t.CoralScoring))
}

// bindAuton wires the autonomous routine pulses.
func (t *Table) bindAuton() {
	b, a := t.b, t.signals.Auton

	b.On(a.SourceIntakeOn).Rising(action.SetTrue(t.AutonStationIntake))
	b.On(a.SourceIntakeOff).Rising(action.SetFalse(t.AutonStationIntake))
	b.On(a.Left).Rising(action.SetFalse(t.RightScore))
	b.On(a.Right).Rising(action.SetTrue(t.RightScore))
	b.On(a.Home).Rising(action.ToggleToTrue(t.HomeAll))
	b.On(a.Reverse).WhileTrue(action.SetTrue(t.Reversed))
	b.On(a.AutoScore).Rising(action.SetTrue(t.AutonAutoScoreMode))
}

// bindReversal recomputes which side of the robot faces the target. Every
// predicate has an explicit binding for each outcome.
func (t *Table) bindReversal() {
	b, s := t.b, t.signals
	f := s.Field
	reefTarget := or(t.stagedCoral, t.l2Algae, t.l3Algae)
	groundTarget := or(s.Pilot.GroundAlgae, s.Pilot.GroundCoral, t.processorAlgae)
	idle := and(not(flag(t.ActionPrep)), not(flag(t.Action)))

	b.On(t.toggleReverse).Rising(action.Toggle(t.Reversed))

	b.On(and(f.PoseReversal, reefTarget)).Rising(action.SetTrue(t.Reversed))
	b.On(and(not(f.PoseReversal), reefTarget)).Rising(action.SetFalse(t.Reversed))
	b.On(and(reefTarget, f.UsingRearTag, idle, not(f.PoseReversal))).Rising(action.SetTrue(t.Reversed))
	b.On(and(reefTarget, not(f.UsingRearTag), idle, not(f.PoseReversal))).Rising(action.SetFalse(t.Reversed))

	b.On(and(groundTarget, t.toggleReverse)).Rising(action.SetTrue(t.Reversed))
	b.On(and(groundTarget, not(t.toggleReverse))).Rising(action.SetFalse(t.Reversed))

	b.On(and(t.stationIntaking, f.BottomLeftZone, not(f.FrontClosestToLeftStation))).Rising(action.SetTrue(t.Reversed))
	b.On(and(t.stationIntaking, f.BottomLeftZone, f.FrontClosestToLeftStation)).Rising(action.SetFalse(t.Reversed))
	b.On(and(t.stationIntaking, f.BottomRightZone, not(f.FrontClosestToRightStation))).Rising(action.SetTrue(t.Reversed))
	b.On(and(t.stationIntaking, f.BottomRightZone, f.FrontClosestToRightStation)).Rising(action.SetFalse(t.Reversed))

	b.On(t.netAlgae).Rising(action.SetFalse(t.Reversed))
	b.On(s.Operator.ClimbPrep).Rising(action.SetFalse(t.Reversed))
}

// bindAutoscore wires alignment and the autoscore layer.
func (t *Table) bindAutoscore() {
	b, s := t.b, t.signals
	p := s.Pilot
	notDisabled := t.enabled()

	b.On(t.alignIntent).Named("aligned").
		Rising(action.SetTrue(t.Aligned)).
		Falling(action.SetFalse(t.Aligned))

	b.On(and(p.ReefAlignScore, t.stagedCoral)).Rising(action.SetTrue(t.AutoScoreMode))

	// Autoscore ends after a grace period once released, but never under a
	// running action.
	released := and(not(p.ReefAlignScore), flag(t.AutoScoreMode), not(s.System.AutoMode))
	b.On(trigger.DebounceFunc(released, t.prepToAction)).Named("autoscore release").
		Rising(action.WaitUntil(not(flag(t.Action)), action.SetFalse(t.AutoScoreMode)))

	b.On(p.ActionReady).Rising(action.SetFalse(t.AutoScoreMode))

	// Prep before autoscoring.
	approach := and(s.Field.CloseToReef, p.ReefAlignScore, t.stagedCoral)
	b.On(approach).Named("autoscore prep").
		Rising(action.SetTrue(t.ActionPrep), action.SetFalse(t.Action)).
		Falling(action.When(not(p.ActionReady), action.SetFalse(t.ActionPrep)))

	b.On(and(trigger.DebounceFunc(flag(t.Aligned), t.scoreAfterAlign),
		flag(t.AutoScoreMode), flag(t.ActionPrep), t.completeStagedCoral, not(p.ActionReady))).
		Named("autoscore").
		Rising(
			action.SetFalse(t.ActionPrep),
			action.When(notDisabled, action.Timed(t.Action, t.scoreTime).
				WithCancel(flag(t.ActionPrep)).
				Then(action.When(not(flag(t.ActionPrep)), action.SetFalse(t.AutoScoreMode)))),
		)

	b.On(and(trigger.DebounceFunc(flag(t.Aligned), t.autonScoreAfterAlign),
		flag(t.AutonAutoScoreMode), flag(t.ActionPrep), t.completeStagedCoral)).
		Named("auton autoscore").
		Rising(
			action.SetFalse(t.ActionPrep),
			action.When(notDisabled, action.Timed(t.Action, t.autonScoreTime).
				Then(action.SetFalse(t.AutonAutoScoreMode))),
		)
}
