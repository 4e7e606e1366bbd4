package scoring

import (
	"fmt"
	"time"

	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Table is the scoring robot's orchestration table.
//
// Flags are exported for mechanisms to read. Writing them from outside the
// engine goroutine is a data race; use Engine.Apply with one of the reset
// actions instead.
type Table struct {
	CoastMode          *domain.Flag
	Coral              *domain.Flag
	Algae              *domain.Flag
	L1                 *domain.Flag
	L2                 *domain.Flag
	L3                 *domain.Flag
	L4                 *domain.Flag
	ShrinkState        *domain.Flag
	RightScore         *domain.Flag
	Reversed           *domain.Flag
	ActionPrep         *domain.Flag
	Action             *domain.Flag
	HomeAll            *domain.Flag
	AutonStationIntake *domain.Flag
	TwistAtReef        *domain.Flag
	Aligned            *domain.Flag
	AutoScoreMode      *domain.Flag
	AutonAutoScoreMode *domain.Flag
	CoralScoring       *domain.Flag

	cfg     Config
	signals Signals
	schema  *schema.Table
	b       *dsl.Builder

	clearStaged  *action.ResetAction
	clearStates  *action.ResetAction
	partialReset *action.ResetAction

	// named conditions
	stationIntaking     *trigger.RefCond
	processorAlgae      *trigger.RefCond
	l2Algae             *trigger.RefCond
	l3Algae             *trigger.RefCond
	netAlgae            *trigger.RefCond
	stagedAlgae         *trigger.RefCond
	l1Coral             *trigger.RefCond
	l2Coral             *trigger.RefCond
	l3Coral             *trigger.RefCond
	l4Coral             *trigger.RefCond
	branch              *trigger.RefCond
	stagedCoral         *trigger.RefCond
	staged              *trigger.RefCond
	atL4Coral           *trigger.RefCond
	completeStagedCoral *trigger.RefCond
	completeStagedAlgae *trigger.RefCond
	toggleReverse       *trigger.RefCond
	twistStageComplete  *trigger.RefCond
	home                *trigger.RefCond
	alignIntent         *trigger.RefCond
	shrink              *trigger.RefCond
	poseUpdate          *trigger.RefCond
}

// New builds a scoring table reading s and tuned by cfg.
// It returns an error if the table fails static validation.
func New(s Signals, cfg Config) (*Table, error) {
	s.fill()
	t := &Table{cfg: cfg, signals: s, b: dsl.New()}
	t.declareFlags()
	t.declareResets()
	t.defineConditions()
	t.bindActionCycle()
	t.bindIntake()
	t.bindStaging()
	t.bindAuton()
	t.bindReversal()
	t.bindAutoscore()

	table, err := t.b.Build()
	t.schema = table
	t.b = nil
	if err != nil {
		return t, fmt.Errorf("build scoring table: %w", err)
	}
	return t, nil
}

func (t *Table) declareFlags() {
	b := t.b
	t.CoastMode = b.Flag("coastMode")
	t.Coral = b.Flag("coral")
	t.Algae = b.Flag("algae")
	t.L1 = b.Flag("l1")
	t.L2 = b.Flag("l2")
	t.L3 = b.Flag("l3")
	t.L4 = b.Flag("l4")
	t.ShrinkState = b.Flag("shrinkState")
	t.RightScore = b.Flag("rightScore")
	t.Reversed = b.Flag("reversed")
	t.ActionPrep = b.Flag("actionPrep")
	t.Action = b.Flag("action")
	t.HomeAll = b.Flag("homeAll")
	t.AutonStationIntake = b.Flag("autonStationIntake")
	t.TwistAtReef = b.Flag("twistAtReef")
	t.Aligned = b.Flag("aligned")
	t.AutoScoreMode = b.Flag("autoScoreMode")
	t.AutonAutoScoreMode = b.Flag("autonAutoScoreMode")
	t.CoralScoring = b.Flag("coralScoring")

	b.Exclusive(t.ActionPrep, t.Action)
	b.Exclusive(t.Coral, t.Algae)
	b.Exclusive(t.L1, t.L2, t.L3, t.L4)
}

func (t *Table) declareResets() {
	t.clearStaged = action.Reset("Clear Staged",
		t.L1, t.L2, t.L3, t.L4, t.RightScore, t.Coral, t.Algae, t.ShrinkState, t.AutonStationIntake)

	// Everything except homing, so an auton clear does not abort a re-home.
	t.partialReset = t.clearStaged.Extend("Auton Clear States",
		t.Reversed, t.ActionPrep, t.Action, t.CoastMode, t.TwistAtReef, t.Aligned,
		t.AutoScoreMode, t.AutonAutoScoreMode, t.CoralScoring)

	t.clearStates = t.partialReset.Extend("Clear States", t.HomeAll)
}

func (t *Table) defineConditions() {
	b := t.b
	s := t.signals

	t.stationIntaking = b.Define("stationIntaking", or(s.Pilot.StationIntake, flag(t.AutonStationIntake)))

	t.processorAlgae = b.Define("processorAlgae", and(flag(t.L1), flag(t.Algae)))
	t.l2Algae = b.Define("l2Algae", or(and(flag(t.L2), flag(t.Algae)), s.Auton.LowAlgae))
	t.l3Algae = b.Define("l3Algae", or(and(flag(t.L3), flag(t.Algae)), s.Auton.HighAlgae))
	t.netAlgae = b.Define("netAlgae", or(and(flag(t.L4), flag(t.Algae)), s.Auton.Net))
	t.stagedAlgae = b.Define("stagedAlgae", or(t.processorAlgae, t.l2Algae, t.l3Algae, t.netAlgae))

	t.l1Coral = b.Define("l1Coral", or(and(flag(t.L1), flag(t.Coral)), s.Auton.L1))
	t.l2Coral = b.Define("l2Coral", and(flag(t.L2), flag(t.Coral)))
	t.l3Coral = b.Define("l3Coral", and(flag(t.L3), flag(t.Coral)))
	t.l4Coral = b.Define("l4Coral", and(flag(t.L4), flag(t.Coral)))
	t.branch = b.Define("branch", or(t.l2Coral, t.l3Coral, t.l4Coral))
	t.stagedCoral = b.Define("stagedCoral", or(t.l1Coral, t.l2Coral, t.l3Coral, t.l4Coral))
	t.staged = b.Define("staged", or(t.stagedAlgae, t.stagedCoral))

	t.atL4Coral = b.Define("atL4Coral", or(s.Mechanism.AtL4Coral, s.Auton.AtL4Coral))
	t.completeStagedCoral = b.Define("completeStagedCoral",
		or(s.Mechanism.AtL1Coral, s.Mechanism.AtL2Coral, s.Mechanism.AtL3Coral, t.atL4Coral))
	t.completeStagedAlgae = b.Define("completeStagedAlgae", or(s.Mechanism.AtL2Algae, s.Mechanism.AtL3Algae))

	t.toggleReverse = b.Define("toggleReverse", or(s.Pilot.ToggleReverse, s.Operator.ToggleReverse))
	t.twistStageComplete = b.Define("twistStageComplete", and(t.branch, or(
		and(s.Mechanism.TwistLeft, not(flag(t.RightScore))),
		and(s.Mechanism.TwistRight, flag(t.RightScore)),
	)))
	t.home = b.Define("home", or(s.Pilot.Home, s.Operator.Home))
	t.alignIntent = b.Define("alignIntent", and(s.Field.AlignedToReef,
		or(s.Pilot.ReefAlignScore, s.Pilot.ReefVision, s.System.AutoMode)))

	t.shrink = b.Define("shrink", or(s.Pilot.Fn, flag(t.ShrinkState)))
	t.poseUpdate = b.Define("poseUpdate", or(s.Auton.PoseUpdate, flag(t.AutonAutoScoreMode)))
}

// Schema returns the built table for the engine, validator and renderers.
func (t *Table) Schema() *schema.Table { return t.schema }

// Config returns the current tuning.
func (t *Table) Config() Config { return t.cfg }

// Configure replaces the tuning. Durations are read when a timed action
// fires or a debounce is evaluated, so the change applies from the next one.
// Must be called from the engine goroutine.
func (t *Table) Configure(cfg Config) { t.cfg = cfg }

// ClearStaged clears the staged category, level and score side.
func (t *Table) ClearStaged() action.Action { return t.clearStaged }

// ClearStates is the full reset used on disable and when homing ends.
func (t *Table) ClearStates() action.Action { return t.clearStates }

// PartialReset is the auton clear: ClearStates without stopping a re-home.
func (t *Table) PartialReset() action.Action { return t.partialReset }

// Shrink reads true while the arm should stay tucked.
func (t *Table) Shrink() trigger.Condition { return t.shrink }

// HasPayload reports the intake game-piece sensor.
func (t *Table) HasPayload() trigger.Condition { return t.signals.System.HasGamePiece }

// PoseUpdate reads true while vision pose updates should be accepted in auton.
func (t *Table) PoseUpdate() trigger.Condition { return t.poseUpdate }

// Staged reads true while any category/level combination is staged.
func (t *Table) Staged() trigger.Condition { return t.staged }

// CompleteStagedAlgae reads true when the joints reached an algae removal setpoint.
func (t *Table) CompleteStagedAlgae() trigger.Condition { return t.completeStagedAlgae }

func (t *Table) scoreTime() time.Duration            { return t.cfg.ScoreTime }
func (t *Table) autonScoreTime() time.Duration       { return t.cfg.AutonScoreTime }
func (t *Table) twistDelay() time.Duration           { return t.cfg.TwistAtReefDelay }
func (t *Table) scoreAfterAlign() time.Duration      { return t.cfg.ScoreAfterAlign }
func (t *Table) autonScoreAfterAlign() time.Duration { return t.cfg.AutonScoreAfterAlign }
func (t *Table) prepToAction() time.Duration         { return t.cfg.ActionPrepToAction }
func (t *Table) disableWindow() time.Duration        { return t.cfg.DisableClearWindow }
