package hardware

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/danieljhkim/platerun/internal/labware"
	"github.com/danieljhkim/platerun/internal/protocol"
)

// Call names recorded in the simulator journal.
const (
	CallLoadDeck       = "load_deck"
	CallLoadLiquid     = "load_liquid"
	CallSetTemperature = "set_temperature"
	CallDistribute     = "distribute"
	CallTransfer       = "transfer"
)

// Entry is one recorded driver call.
type Entry struct {
	Seq    int    `json:"seq"`
	Call   string `json:"call"`
	Detail string `json:"detail"`
}

// Simulator is a Driver that validates and records calls without moving
// anything.
type Simulator struct {
	logger *zap.Logger

	mu           sync.Mutex
	journal      []Entry
	deck         *labware.Deck
	temperatures map[string]float64
	tipsUsed     map[string]int
	failOn       map[string]error
}

// NewSimulator creates a new Simulator.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		logger:       logger.Named("simulator"),
		temperatures: make(map[string]float64),
		tipsUsed:     make(map[string]int),
		failOn:       make(map[string]error),
	}
}

// FailOn makes the next call named call return err.
func (s *Simulator) FailOn(call string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[call] = err
}

// Journal returns a copy of the recorded calls in order.
func (s *Simulator) Journal() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.journal))
	copy(out, s.journal)
	return out
}

// Temperature returns the last set temperature of a module.
func (s *Simulator) Temperature(module string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.temperatures[module]
	return c, ok
}

// TipsUsed returns how many tips a pipette has picked up.
func (s *Simulator) TipsUsed(mount string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tipsUsed[mount]
}

// LoadDeck records the deck layout.
func (s *Simulator) LoadDeck(ctx context.Context, deck *labware.Deck) error {
	if err := s.begin(ctx, CallLoadDeck); err != nil {
		return err
	}
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("invalid deck: %w", err)
	}

	s.mu.Lock()
	s.deck = deck
	s.mu.Unlock()

	s.record(CallLoadDeck, fmt.Sprintf("%d modules, %d labware, %d pipettes",
		len(deck.Modules), len(deck.Labware), len(deck.Pipettes)))
	return nil
}

// LoadLiquid records a starting liquid.
func (s *Simulator) LoadLiquid(ctx context.Context, step protocol.Step) error {
	if err := s.begin(ctx, CallLoadLiquid); err != nil {
		return err
	}
	if err := s.checkLocations(step.Targets); err != nil {
		return err
	}
	s.record(CallLoadLiquid, fmt.Sprintf("%g µL %s -> %s", step.Volume, step.Liquid, locations(step.Targets)))
	return nil
}

// SetTemperature records a temperature change.
func (s *Simulator) SetTemperature(ctx context.Context, module string, celsius float64) error {
	if err := s.begin(ctx, CallSetTemperature); err != nil {
		return err
	}

	s.mu.Lock()
	s.temperatures[module] = celsius
	s.mu.Unlock()

	s.record(CallSetTemperature, fmt.Sprintf("%s %g°C", module, celsius))
	return nil
}

// Distribute records a one-to-many dispense.
func (s *Simulator) Distribute(ctx context.Context, step protocol.Step) error {
	if err := s.begin(ctx, CallDistribute); err != nil {
		return err
	}
	if len(step.Sources) != 1 {
		return fmt.Errorf("distribute needs exactly one source, got %d", len(step.Sources))
	}
	if len(step.Dests) == 0 {
		return fmt.Errorf("distribute has no destinations")
	}
	if err := s.checkPipetting(step); err != nil {
		return err
	}

	s.useTips(step, 1)
	s.record(CallDistribute, fmt.Sprintf("%s %g µL %s -> %s [%s]",
		step.Pipette, step.Volume, locations(step.Sources), locations(step.Dests), className(step)))
	return nil
}

// Transfer records a pairwise transfer.
func (s *Simulator) Transfer(ctx context.Context, step protocol.Step) error {
	if err := s.begin(ctx, CallTransfer); err != nil {
		return err
	}
	if len(step.Sources) != len(step.Dests) {
		return fmt.Errorf("transfer has %d sources for %d destinations", len(step.Sources), len(step.Dests))
	}
	if len(step.Dests) == 0 {
		return fmt.Errorf("transfer has no destinations")
	}
	if err := s.checkPipetting(step); err != nil {
		return err
	}

	s.useTips(step, len(step.Dests))
	s.record(CallTransfer, fmt.Sprintf("%s %g µL %s -> %s [%s]",
		step.Pipette, step.Volume, locations(step.Sources), locations(step.Dests), className(step)))
	return nil
}

// begin checks for cancellation and injected failures.
func (s *Simulator) begin(ctx context.Context, call string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failOn[call]; ok {
		delete(s.failOn, call)
		return err
	}
	return nil
}

func (s *Simulator) checkPipetting(step protocol.Step) error {
	s.mu.Lock()
	deck := s.deck
	s.mu.Unlock()

	if deck == nil {
		return fmt.Errorf("deck not loaded")
	}
	if _, ok := deck.Pipette(step.Pipette); !ok {
		return fmt.Errorf("no pipette on mount %q", step.Pipette)
	}
	if step.Volume <= 0 {
		return fmt.Errorf("volume must be positive, got %g", step.Volume)
	}
	if err := s.checkLocations(step.Sources); err != nil {
		return err
	}
	return s.checkLocations(step.Dests)
}

func (s *Simulator) checkLocations(locs []protocol.Location) error {
	s.mu.Lock()
	deck := s.deck
	s.mu.Unlock()

	if deck == nil {
		return fmt.Errorf("deck not loaded")
	}
	for _, l := range locs {
		if _, ok := deck.Item(l.Labware); !ok {
			return fmt.Errorf("unknown labware %q", l.Labware)
		}
	}
	return nil
}

// useTips counts tip pickups the way the tip mode implies.
func (s *Simulator) useTips(step protocol.Step, strokes int) {
	var n int
	switch step.NewTip {
	case protocol.TipOnce:
		n = 1
	case protocol.TipAlways:
		n = strokes
	}

	s.mu.Lock()
	s.tipsUsed[step.Pipette] += n
	s.mu.Unlock()
}

func (s *Simulator) record(call, detail string) {
	s.mu.Lock()
	entry := Entry{Seq: len(s.journal) + 1, Call: call, Detail: detail}
	s.journal = append(s.journal, entry)
	s.mu.Unlock()

	s.logger.Debug("driver call",
		zap.Int("seq", entry.Seq),
		zap.String("call", call),
		zap.String("detail", detail))
}

func locations(locs []protocol.Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

func className(step protocol.Step) string {
	if step.LiquidClass == nil {
		return "default"
	}
	return step.LiquidClass.Name
}
