// Package hardware is the boundary between a resolved protocol and the
// liquid-handling robot.
//
// The Driver interface accepts plate and well identifiers plus opaque
// liquid-class records and performs the motion. The Operator interface covers
// the human-in-the-loop pauses. Simulator and the operators in this package
// are the implementations shipped with platerun; real robot drivers live
// outside this module.
package hardware

import (
	"context"
	"errors"

	"github.com/danieljhkim/platerun/internal/labware"
	"github.com/danieljhkim/platerun/internal/protocol"
)

// ErrAborted indicates that the operator aborted the run at a pause.
var ErrAborted = errors.New("run aborted by operator")

// Driver executes protocol instructions on a robot.
type Driver interface {
	// LoadDeck places modules, labware and pipettes.
	LoadDeck(ctx context.Context, deck *labware.Deck) error

	// LoadLiquid records the starting liquid in a set of wells.
	LoadLiquid(ctx context.Context, step protocol.Step) error

	// SetTemperature sets a temperature module and waits for it to settle.
	SetTemperature(ctx context.Context, module string, celsius float64) error

	// Distribute aspirates once and dispenses into every destination.
	Distribute(ctx context.Context, step protocol.Step) error

	// Transfer moves liquid source[i] -> dest[i].
	Transfer(ctx context.Context, step protocol.Step) error
}

// Operator is the person standing at the robot.
type Operator interface {
	// Resume shows message and blocks until the operator resumes the run.
	// It returns ErrAborted if the operator aborts.
	Resume(ctx context.Context, message string) error
}
