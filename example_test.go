package cadence_test

import (
	"fmt"
	"log"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/adapters/clock"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/aretw0/cadence/pkg/trigger"
)

// ExampleNew shows a timed action driven from an external input on a manual
// clock, so every tick is exactly 20ms.
func ExampleNew() {
	pressed := false

	b := dsl.New()
	busy := b.Flag("busy")
	start := trigger.Source("start", func() bool { return pressed })
	b.On(start).Named("start").Rising(action.For(busy, 60*time.Millisecond))

	table, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := cadence.New(table, cadence.WithClock(clock.NewManual().Stepped(20*time.Millisecond)))
	if err != nil {
		log.Fatal(err)
	}

	pressed = true
	for i := 0; i < 5; i++ {
		snap := eng.Tick()
		fmt.Printf("tick %d busy=%v\n", snap.Tick, snap.Get("busy"))
	}
	// Output:
	// tick 1 busy=true
	// tick 2 busy=true
	// tick 3 busy=true
	// tick 4 busy=false
	// tick 5 busy=false
}

// ExampleEngine_Inspect lists the bindings in evaluation order.
func ExampleEngine_Inspect() {
	b := dsl.New()
	a := b.Flag("a")
	c := b.Flag("c")
	b.On(trigger.Flag(a)).Named("copy").Rising(action.SetTrue(c))
	b.On(trigger.Flag(c)).Falling(action.SetFalse(a))

	table, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	eng, err := cadence.New(table)
	if err != nil {
		log.Fatal(err)
	}

	for _, info := range eng.Inspect() {
		fmt.Println(info.Index, info.Edge, info.Condition, info.Writes)
	}
	// Output:
	// 0 rising a [c=true]
	// 1 falling c [a=false]
}
