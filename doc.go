// Package calcx implements a four-function calculator as a small statechart.
//
// A Snapshot holds the whole calculator state and its methods are pure
// transitions. An Engine wraps a Snapshot in a two-state input-mode chart
// (fresh, entering) built with MachineBuilder, logs each press, and fans the
// resulting Step out to any configured Sink.
//
// Example:
//
//	e, _ := calcx.NewEngine()
//	e.Digit(6)
//	e.Operator(calcx.OpAdd)
//	e.Digit(4)
//	e.Equals()
//	fmt.Println(e.Display()) // 10
//
// There are no error states. Dividing by zero shows 0.
package calcx
