// Package labware describes the deck used by the transformation run.
package labware

import (
	"fmt"
	"strings"
)

// Labware handles referenced by protocol steps.
const (
	TempModule   = "temperature_module"
	TipRack50A   = "tip_rack_1"
	TipRack50B   = "tip_rack_2"
	TipRack200   = "tip_rack_3"
	Reservoir    = "reservoir"
	ColdBlock    = "aluminum_block"
	Plate96      = "pcr_plate_96"
	Plate384     = "plate_384"
	LeftPipette  = "left"
	RightPipette = "right"
	WasteChute   = "waste_chute"
)

// Liquid names.
const (
	LiquidAssembly  = "Assembly"
	LiquidSOC       = "SOC"
	LiquidCompCells = "comp cells"
)

// Module is a powered deck module.
type Module struct {
	Handle string `json:"handle"`
	Model  string `json:"model"`
	Slot   string `json:"slot"`
}

// Item is a piece of labware on a slot or on top of a module.
type Item struct {
	Handle    string `json:"handle"`
	LoadName  string `json:"load_name"`
	Slot      string `json:"slot,omitempty"`
	Module    string `json:"module,omitempty"`
	Label     string `json:"label,omitempty"`
	Namespace string `json:"namespace"`
	Version   int    `json:"version"`
}

// Pipette is a mounted instrument.
type Pipette struct {
	Mount    string   `json:"mount"`
	Model    string   `json:"model"`
	TipRacks []string `json:"tip_racks"`
}

// Liquid is a named liquid with a display color.
type Liquid struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Deck is the full static layout of a run.
type Deck struct {
	Modules  []Module  `json:"modules"`
	Labware  []Item    `json:"labware"`
	Pipettes []Pipette `json:"pipettes"`
	Waste    string    `json:"waste"`
	Liquids  []Liquid  `json:"liquids"`
}

// FlexDeck returns the deck layout of the transformation run.
func FlexDeck() *Deck {
	return &Deck{
		Modules: []Module{
			{Handle: TempModule, Model: "temperatureModuleV2", Slot: "B1"},
		},
		Labware: []Item{
			{Handle: TipRack50A, LoadName: "opentrons_flex_96_tiprack_50ul", Slot: "A2", Namespace: "opentrons", Version: 1},
			{Handle: TipRack50B, LoadName: "opentrons_flex_96_tiprack_50ul", Slot: "A1", Namespace: "opentrons", Version: 1},
			{Handle: TipRack200, LoadName: "opentrons_flex_96_tiprack_200ul", Slot: "A3", Namespace: "opentrons", Version: 1},
			{Handle: Reservoir, LoadName: "nest_12_reservoir_22ml", Slot: "B3", Label: "reservoir", Namespace: "opentrons", Version: 1},
			{Handle: ColdBlock, LoadName: "opentrons_96_aluminumblock_generic_pcr_strip_200ul", Module: TempModule, Namespace: "opentrons", Version: 4},
			{Handle: Plate96, LoadName: "biorad_96_wellplate_200ul_pcr", Slot: "C2", Namespace: "opentrons", Version: 3},
			{Handle: Plate384, LoadName: "appliedbiosystemsmicroamp_384_wellplate_40ul", Slot: "B2", Namespace: "opentrons", Version: 2},
		},
		Pipettes: []Pipette{
			{Mount: LeftPipette, Model: "flex_8channel_50", TipRacks: []string{TipRack50A, TipRack50B}},
			{Mount: RightPipette, Model: "flex_8channel_1000", TipRacks: []string{TipRack200}},
		},
		Waste: WasteChute,
		Liquids: []Liquid{
			{Name: LiquidAssembly, Color: "#ff4f4fff"},
			{Name: LiquidSOC, Color: "#ffd600ff"},
			{Name: LiquidCompCells, Color: "#ff9900ff"},
		},
	}
}

// Validate checks that no two items share a slot, that every module-mounted
// item references a known module, and that pipettes only use known tip racks.
func (d *Deck) Validate() error {
	slots := make(map[string]string)
	handles := make(map[string]bool)

	claim := func(slot, handle string) error {
		if slot == "" {
			return nil
		}
		if owner, ok := slots[slot]; ok {
			return fmt.Errorf("slot %s used by both %s and %s", slot, owner, handle)
		}
		slots[slot] = handle
		return nil
	}

	modules := make(map[string]bool)
	for _, m := range d.Modules {
		if err := claim(m.Slot, m.Handle); err != nil {
			return err
		}
		modules[m.Handle] = true
		handles[m.Handle] = true
	}

	for _, item := range d.Labware {
		if item.Slot == "" && item.Module == "" {
			return fmt.Errorf("labware %s has no location", item.Handle)
		}
		if item.Module != "" && !modules[item.Module] {
			return fmt.Errorf("labware %s sits on unknown module %s", item.Handle, item.Module)
		}
		if err := claim(item.Slot, item.Handle); err != nil {
			return err
		}
		if handles[item.Handle] {
			return fmt.Errorf("duplicate handle %s", item.Handle)
		}
		handles[item.Handle] = true
	}

	for _, p := range d.Pipettes {
		for _, rack := range p.TipRacks {
			if !handles[rack] {
				return fmt.Errorf("pipette %s uses unknown tip rack %s", p.Mount, rack)
			}
		}
	}

	return nil
}

// Item returns the labware with the given handle.
func (d *Deck) Item(handle string) (Item, bool) {
	for _, item := range d.Labware {
		if item.Handle == handle {
			return item, true
		}
	}
	return Item{}, false
}

// Pipette returns the pipette on the given mount.
func (d *Deck) Pipette(mount string) (Pipette, bool) {
	for _, p := range d.Pipettes {
		if p.Mount == mount {
			return p, true
		}
	}
	return Pipette{}, false
}

// Location returns a human-readable location for a labware handle.
func (d *Deck) Location(handle string) string {
	item, ok := d.Item(handle)
	if !ok {
		return handle
	}
	if item.Module != "" {
		return fmt.Sprintf("%s on %s", item.LoadName, item.Module)
	}
	return fmt.Sprintf("%s in %s", item.LoadName, strings.ToUpper(item.Slot))
}

// ColumnWells returns the eight wells A..H of a 96-format column, the set a
// single 8-channel stroke touches.
func ColumnWells(column int) []string {
	wells := make([]string, 0, 8)
	for _, row := range "ABCDEFGH" {
		wells = append(wells, fmt.Sprintf("%c%d", row, column))
	}
	return wells
}
