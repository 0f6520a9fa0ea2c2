// Package protocol builds the ordered instruction list of a transformation run.
//
// A protocol is derived from validated run parameters and a destination plan.
// Building it has no side effects; executing it is the engine's job.
package protocol

import (
	"fmt"

	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/labware"
	"github.com/danieljhkim/platerun/internal/liquidclass"
	"github.com/danieljhkim/platerun/internal/planner"
)

// Step type constants
const (
	StepLoadLiquid     = "load_liquid"
	StepSetTemperature = "set_temperature"
	StepPause          = "pause"
	StepDistribute     = "distribute"
	StepTransfer       = "transfer"
)

// Tip handling modes
const (
	TipOnce   = "once"
	TipAlways = "always"
	TipNever  = "never"
)

// Fixed volumes (µL) and temperatures of the run.
const (
	CompCellsLoadVolume = 50
	AssemblyLoadVolume  = 5
	SOCLoadVolume       = 12000
	SOCTo384Volume      = 10
	RecoveryVolume      = 40
	HoldCelsius         = 4

	recoveryMixHeadroom = 20
)

// Operator prompts shown at the pause points.
const (
	PromptLoadCells   = "put Competent cells strip in Column 12. \n"
	PromptRemovePlate = "Take the plate out AND PRESS RESUME to let the protocol pre-fill the destination plate with SOC.\n"
	PromptReturnPlate = "Put the plate back into B2"
)

const (
	compCellsColumn     = 12
	compCellsSourceWell = "A12"
	socReservoirWell    = "A1"
)

// Location is a well on a piece of labware.
type Location struct {
	Labware string `json:"labware"`
	Well    string `json:"well"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%s", l.Labware, l.Well)
}

// Step is a single instruction for the hardware layer.
type Step struct {
	// Type is the step type: "load_liquid", "set_temperature", "pause", "distribute", "transfer"
	Type string `json:"type"`

	// Message is the operator prompt for pause steps
	Message string `json:"message,omitempty"`

	// Module is the target module for set_temperature steps
	Module string `json:"module,omitempty"`

	// Celsius is the target temperature for set_temperature steps
	Celsius float64 `json:"celsius,omitempty"`

	// Liquid is the liquid name for load_liquid steps
	Liquid string `json:"liquid,omitempty"`

	// Targets are the wells receiving liquid in load_liquid steps
	Targets []Location `json:"targets,omitempty"`

	// Pipette is the mount used by distribute and transfer steps
	Pipette string `json:"pipette,omitempty"`

	// Volume is the volume per destination (µL)
	Volume float64 `json:"volume,omitempty"`

	// Sources are the aspirate locations
	Sources []Location `json:"sources,omitempty"`

	// Dests are the dispense locations, in dispense order
	Dests []Location `json:"dests,omitempty"`

	// NewTip is the tip handling mode: "once", "always", "never"
	NewTip string `json:"new_tip,omitempty"`

	// KeepLastTip leaves the last tip on the pipette after the step
	KeepLastTip bool `json:"keep_last_tip,omitempty"`

	// Trash is where used tips go
	Trash string `json:"trash,omitempty"`

	// LiquidClass is the opaque pipetting-motion record for the step
	LiquidClass *liquidclass.Class `json:"liquid_class,omitempty"`
}

// Protocol is a fully resolved run.
type Protocol struct {
	Params config.RunParams `json:"params"`
	Plan   *planner.Plan    `json:"plan"`
	Deck   *labware.Deck    `json:"deck"`
	Steps  []Step           `json:"steps"`
}

// RecoveryMixVolume is the dispense mix volume of the 384-to-96 transfer.
func RecoveryMixVolume(p config.RunParams) float64 {
	return (p.SOCVolume + p.CellVolume + SOCTo384Volume + recoveryMixHeadroom) / 2
}

// Build resolves the step list for a run.
func Build(params config.RunParams, plan *planner.Plan, catalog liquidclass.Catalog) (*Protocol, error) {
	if plan == nil {
		return nil, fmt.Errorf("protocol requires a plan")
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	deck := labware.FlexDeck()
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}

	distributeClass, err := catalog.Get(liquidclass.DistributeCells)
	if err != nil {
		return nil, err
	}
	prefillClass, err := catalog.Get(liquidclass.PrefillSOC)
	if err != nil {
		return nil, err
	}
	socTo384Class, err := catalog.Get(liquidclass.SOCTo384)
	if err != nil {
		return nil, err
	}
	recoveryBase, err := catalog.Get(liquidclass.Recovery)
	if err != nil {
		return nil, err
	}
	recoveryClass, err := recoveryBase.WithDispenseMixVolume(RecoveryMixVolume(params))
	if err != nil {
		return nil, err
	}

	wells384 := make([]Location, len(plan.Wells384))
	for i, w := range plan.Wells384 {
		wells384[i] = Location{Labware: labware.Plate384, Well: w.String()}
	}
	columns96 := make([]Location, len(plan.Columns96))
	for i, col := range plan.Columns96 {
		columns96[i] = Location{Labware: labware.Plate96, Well: fmt.Sprintf("A%d", col)}
	}
	socSource := Location{Labware: labware.Reservoir, Well: socReservoirWell}
	socSources := make([]Location, plan.NumColumns)
	for i := range socSources {
		socSources[i] = socSource
	}

	cellTargets := make([]Location, 0, 8)
	for _, well := range labware.ColumnWells(compCellsColumn) {
		cellTargets = append(cellTargets, Location{Labware: labware.ColdBlock, Well: well})
	}

	steps := []Step{
		{Type: StepLoadLiquid, Liquid: labware.LiquidCompCells, Targets: cellTargets, Volume: CompCellsLoadVolume},
		{Type: StepLoadLiquid, Liquid: labware.LiquidAssembly, Targets: wells384, Volume: AssemblyLoadVolume},
		{Type: StepLoadLiquid, Liquid: labware.LiquidSOC, Targets: []Location{socSource}, Volume: SOCLoadVolume},
		{Type: StepSetTemperature, Module: labware.TempModule, Celsius: HoldCelsius},
		{Type: StepPause, Message: PromptLoadCells},
		{
			Type:        StepDistribute,
			Pipette:     labware.LeftPipette,
			Volume:      params.CellVolume,
			Sources:     []Location{{Labware: labware.ColdBlock, Well: compCellsSourceWell}},
			Dests:       wells384,
			NewTip:      TipOnce,
			Trash:       labware.WasteChute,
			LiquidClass: distributeClass,
		},
		{Type: StepPause, Message: PromptRemovePlate},
		{
			Type:        StepTransfer,
			Pipette:     labware.RightPipette,
			Volume:      params.SOCVolume,
			Sources:     socSources,
			Dests:       columns96,
			NewTip:      TipOnce,
			Trash:       labware.WasteChute,
			LiquidClass: prefillClass,
		},
		{Type: StepPause, Message: PromptReturnPlate},
	}

	for i := 0; i < plan.NumColumns; i++ {
		steps = append(steps,
			Step{
				Type:        StepTransfer,
				Pipette:     labware.LeftPipette,
				Volume:      SOCTo384Volume,
				Sources:     []Location{socSources[i]},
				Dests:       []Location{wells384[i]},
				NewTip:      TipAlways,
				KeepLastTip: true,
				LiquidClass: socTo384Class,
			},
			Step{
				Type:        StepTransfer,
				Pipette:     labware.LeftPipette,
				Volume:      RecoveryVolume,
				Sources:     []Location{wells384[i]},
				Dests:       []Location{columns96[i]},
				NewTip:      TipNever,
				Trash:       labware.WasteChute,
				LiquidClass: recoveryClass,
			},
		)
	}

	return &Protocol{
		Params: params,
		Plan:   plan,
		Deck:   deck,
		Steps:  steps,
	}, nil
}

// Count returns the number of steps of the given type.
func (p *Protocol) Count(stepType string) int {
	n := 0
	for _, s := range p.Steps {
		if s.Type == stepType {
			n++
		}
	}
	return n
}

// Describe returns a one-line description of a step.
func (s Step) Describe() string {
	switch s.Type {
	case StepLoadLiquid:
		return fmt.Sprintf("load %g µL %s into %d wells", s.Volume, s.Liquid, len(s.Targets))
	case StepSetTemperature:
		return fmt.Sprintf("set %s to %g °C", s.Module, s.Celsius)
	case StepPause:
		return fmt.Sprintf("pause: %s", trimPrompt(s.Message))
	case StepDistribute:
		return fmt.Sprintf("distribute %g µL from %s to %d destinations (%s pipette)",
			s.Volume, joinLocations(s.Sources), len(s.Dests), s.Pipette)
	case StepTransfer:
		return fmt.Sprintf("transfer %g µL %s -> %s (%s pipette, new tip %s)",
			s.Volume, joinLocations(s.Sources), joinLocations(s.Dests), s.Pipette, s.NewTip)
	default:
		return s.Type
	}
}
