package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is a row letter on the 384-well plate as seen by an 8-channel pipette.
type Row string

const (
	RowA Row = "A"
	RowB Row = "B"
)

// Well identifies a single well by row and column.
type Well struct {
	Row    Row
	Column int
}

// String returns the label form of the well, e.g. "B7".
func (w Well) String() string {
	return fmt.Sprintf("%s%d", w.Row, w.Column)
}

// MarshalText encodes the well as its label.
func (w Well) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText decodes a well label.
func (w *Well) UnmarshalText(text []byte) error {
	parsed, err := ParseWell(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWell parses a 384-well start label: A or B followed by a column pair
// index in [1, Plate384ColumnPairs].
func ParseWell(label string) (Well, error) {
	label = strings.TrimSpace(label)
	if len(label) < 2 {
		return Well{}, fmt.Errorf("%w: %q", ErrInvalidWell, label)
	}

	row := Row(strings.ToUpper(label[:1]))
	if row != RowA && row != RowB {
		return Well{}, fmt.Errorf("%w: %q: row must be A or B", ErrInvalidWell, label)
	}

	col, err := strconv.Atoi(label[1:])
	if err != nil {
		return Well{}, fmt.Errorf("%w: %q: column is not a number", ErrInvalidWell, label)
	}
	if col < 1 || col > Plate384ColumnPairs {
		return Well{}, fmt.Errorf("%w: %q: column must be between 1 and %d", ErrInvalidWell, label, Plate384ColumnPairs)
	}

	return Well{Row: row, Column: col}, nil
}

// WellChoices returns every valid 384-well start label in display order
// (A1, B1, A2, B2, ...).
func WellChoices() []string {
	choices := make([]string, 0, 2*Plate384ColumnPairs)
	for col := 1; col <= Plate384ColumnPairs; col++ {
		choices = append(choices,
			Well{Row: RowA, Column: col}.String(),
			Well{Row: RowB, Column: col}.String(),
		)
	}
	return choices
}
