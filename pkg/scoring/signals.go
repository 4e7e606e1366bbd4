package scoring

import (
	"reflect"

	"github.com/aretw0/cadence/pkg/trigger"
)

// Pilot holds the pilot controller inputs.
type Pilot struct {
	ActionReady    trigger.Condition `signal:"pilot.actionReady"`
	StationIntake  trigger.Condition `signal:"pilot.stationIntake"`
	GroundAlgae    trigger.Condition `signal:"pilot.groundAlgae"`
	GroundCoral    trigger.Condition `signal:"pilot.groundCoral"`
	Home           trigger.Condition `signal:"pilot.home"`
	ToggleReverse  trigger.Condition `signal:"pilot.toggleReverse"`
	ReefAlignScore trigger.Condition `signal:"pilot.reefAlignScore"`
	ReefVision     trigger.Condition `signal:"pilot.reefVision"`
	Fn             trigger.Condition `signal:"pilot.fn"`
	CoastOn        trigger.Condition `signal:"pilot.coastOn"`
	CoastOff       trigger.Condition `signal:"pilot.coastOff"`
	L2AlgaeRemoval trigger.Condition `signal:"pilot.l2AlgaeRemoval"`
	L3AlgaeRemoval trigger.Condition `signal:"pilot.l3AlgaeRemoval"`
}

// Operator holds the operator panel inputs.
type Operator struct {
	Home          trigger.Condition `signal:"operator.home"`
	ToggleReverse trigger.Condition `signal:"operator.toggleReverse"`
	CoastOn       trigger.Condition `signal:"operator.coastOn"`
	CoastOff      trigger.Condition `signal:"operator.coastOff"`
	Staged        trigger.Condition `signal:"operator.staged"`
	CoralStage    trigger.Condition `signal:"operator.coralStage"`
	AlgaeStage    trigger.Condition `signal:"operator.algaeStage"`
	L1            trigger.Condition `signal:"operator.l1"`
	L2            trigger.Condition `signal:"operator.l2"`
	L3            trigger.Condition `signal:"operator.l3"`
	L4            trigger.Condition `signal:"operator.l4"`
	LeftScore     trigger.Condition `signal:"operator.leftScore"`
	RightScore    trigger.Condition `signal:"operator.rightScore"`
	ClimbPrep     trigger.Condition `signal:"operator.climbPrep"`
}

// Mechanism holds the at-target reports of the joints. Each one is the
// conjunction of elbow, shoulder and elevator being at the named setpoint.
type Mechanism struct {
	AtL1Coral  trigger.Condition `signal:"mechanism.atL1Coral"`
	AtL2Coral  trigger.Condition `signal:"mechanism.atL2Coral"`
	AtL3Coral  trigger.Condition `signal:"mechanism.atL3Coral"`
	AtL4Coral  trigger.Condition `signal:"mechanism.atL4Coral"`
	AtL2Algae  trigger.Condition `signal:"mechanism.atL2Algae"`
	AtL3Algae  trigger.Condition `signal:"mechanism.atL3Algae"`
	AtHome     trigger.Condition `signal:"mechanism.atHome"`
	TwistLeft  trigger.Condition `signal:"mechanism.twistLeft"`
	TwistRight trigger.Condition `signal:"mechanism.twistRight"`
}

// Field holds the pose, zone and vision predicates.
type Field struct {
	PoseReversal               trigger.Condition `signal:"field.poseReversal"`
	UsingRearTag               trigger.Condition `signal:"field.usingRearTag"`
	AlignedToReef              trigger.Condition `signal:"field.alignedToReef"`
	CloseToReef                trigger.Condition `signal:"field.closeToReef"`
	BottomLeftZone             trigger.Condition `signal:"field.bottomLeftZone"`
	BottomRightZone            trigger.Condition `signal:"field.bottomRightZone"`
	FrontClosestToLeftStation  trigger.Condition `signal:"field.frontClosestToLeftStation"`
	FrontClosestToRightStation trigger.Condition `signal:"field.frontClosestToRightStation"`
}

// Auton holds the pulses emitted by autonomous routines.
type Auton struct {
	ClearStates     trigger.Condition `signal:"auton.clearStates"`
	ActionOn        trigger.Condition `signal:"auton.actionOn"`
	ActionOff       trigger.Condition `signal:"auton.actionOff"`
	Coral           trigger.Condition `signal:"auton.coral"`
	Algae           trigger.Condition `signal:"auton.algae"`
	L1              trigger.Condition `signal:"auton.l1"`
	L2              trigger.Condition `signal:"auton.l2"`
	L3              trigger.Condition `signal:"auton.l3"`
	L4              trigger.Condition `signal:"auton.l4"`
	LowAlgae        trigger.Condition `signal:"auton.lowAlgae"`
	HighAlgae       trigger.Condition `signal:"auton.highAlgae"`
	Net             trigger.Condition `signal:"auton.net"`
	AtL4Coral       trigger.Condition `signal:"auton.atL4Coral"`
	SourceIntakeOn  trigger.Condition `signal:"auton.sourceIntakeOn"`
	SourceIntakeOff trigger.Condition `signal:"auton.sourceIntakeOff"`
	Left            trigger.Condition `signal:"auton.left"`
	Right           trigger.Condition `signal:"auton.right"`
	Home            trigger.Condition `signal:"auton.home"`
	Reverse         trigger.Condition `signal:"auton.reverse"`
	AutoScore       trigger.Condition `signal:"auton.autoScore"`
	PoseUpdate      trigger.Condition `signal:"auton.poseUpdate"`
}

// System holds robot-wide state.
type System struct {
	Disabled     trigger.Condition `signal:"system.disabled"`
	AutoMode     trigger.Condition `signal:"system.autoMode"`
	HasGamePiece trigger.Condition `signal:"system.hasGamePiece"`
}

// Signals is every external input the table reads. A nil signal reads as
// false.
type Signals struct {
	Pilot     Pilot
	Operator  Operator
	Mechanism Mechanism
	Field     Field
	Auton     Auton
	System    System
}

// SignalNames returns the name of every signal, in declaration order.
func SignalNames() []string {
	var names []string
	var s Signals
	eachSignal(&s, func(name string, _ *trigger.Condition) {
		names = append(names, name)
	})
	return names
}

// NewSignals creates Signals whose every input is a source reading read
// with the signal name. The harness uses it to back the table with a signal
// board.
func NewSignals(read func(name string) (bool, error)) Signals {
	var s Signals
	eachSignal(&s, func(name string, c *trigger.Condition) {
		*c = trigger.SourceErr(name, func() (bool, error) { return read(name) })
	})
	return s
}

// fill replaces nil signals with trigger.False.
func (s *Signals) fill() {
	eachSignal(s, func(_ string, c *trigger.Condition) {
		if *c == nil {
			*c = trigger.False
		}
	})
}

var conditionType = reflect.TypeOf((*trigger.Condition)(nil)).Elem()

// eachSignal visits every tagged condition field of s.
func eachSignal(s *Signals, fn func(name string, c *trigger.Condition)) {
	groups := reflect.ValueOf(s).Elem()
	for i := 0; i < groups.NumField(); i++ {
		group := groups.Field(i)
		for j := 0; j < group.NumField(); j++ {
			field := group.Type().Field(j)
			name, ok := field.Tag.Lookup("signal")
			if !ok || field.Type != conditionType {
				continue
			}
			fn(name, group.Field(j).Addr().Interface().(*trigger.Condition))
		}
	}
}
