package planner

import "fmt"

const (
	// SamplesPerColumn is the number of samples one 8-channel stroke moves.
	SamplesPerColumn = 8

	// Plate96Columns is the number of columns on the 96-well plate.
	Plate96Columns = 12

	// Plate384ColumnPairs is the number of addressable A/B column pairs on the
	// 384-well plate.
	Plate384ColumnPairs = 12
)

// Plan is the destination layout for one run.
type Plan struct {
	// Samples is the requested sample count
	Samples int `json:"samples"`

	// NumColumns is the number of 8-sample columns the run processes
	NumColumns int `json:"num_columns"`

	// StartColumn96 is the first 96-well column used
	StartColumn96 int `json:"start_column_96"`

	// StartWell384 is the first 384-well destination
	StartWell384 Well `json:"start_well_384"`

	// Columns96 is the ordered list of 96-well columns, one per sample column
	Columns96 []int `json:"columns_96"`

	// Wells384 is the ordered list of 384-well destinations, one per sample column
	Wells384 []Well `json:"wells_384"`
}

// NumColumns returns how many 8-sample columns are needed for samples.
func NumColumns(samples int) int {
	if samples <= 0 {
		return 0
	}
	return (samples + SamplesPerColumn - 1) / SamplesPerColumn
}

// PlanColumns computes the destination plan for a run.
//
// Both plates are checked for capacity before any destination is generated,
// so a returned error always means nothing should be dispensed.
func PlanColumns(samples, startColumn96 int, startWell384 string) (*Plan, error) {
	if samples < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamples, samples)
	}
	if startColumn96 < 1 || startColumn96 > Plate96Columns {
		return nil, fmt.Errorf("%w: %d is outside 1-%d", ErrInvalidStart, startColumn96, Plate96Columns)
	}

	numColumns := NumColumns(samples)

	endColumn96 := startColumn96 + numColumns - 1
	if endColumn96 > Plate96Columns {
		return nil, fmt.Errorf("%w: need %d columns starting from column %d", ErrCapacity96, numColumns, startColumn96)
	}

	start, err := ParseWell(startWell384)
	if err != nil {
		return nil, err
	}

	endColumn384 := start.Column + numColumns - 1
	if endColumn384 > Plate384ColumnPairs {
		return nil, fmt.Errorf("%w: need %d columns starting from column %d", ErrCapacity384, numColumns, start.Column)
	}

	plan := &Plan{
		Samples:       samples,
		NumColumns:    numColumns,
		StartColumn96: startColumn96,
		StartWell384:  start,
		Wells384:      wells384(start, numColumns),
		Columns96:     make([]int, 0, numColumns),
	}
	for offset := 0; offset < numColumns; offset++ {
		plan.Columns96 = append(plan.Columns96, startColumn96+offset)
	}

	return plan, nil
}

// wells384 walks the plate column pair by column pair. An A start fills both
// rows of each pair; a B start fills B and then wraps to A of the next pair.
// The walk overproduces and is trimmed to n.
func wells384(start Well, n int) []Well {
	wells := make([]Well, 0, 2*n)
	for offset := 0; offset < n; offset++ {
		col := start.Column + offset
		if start.Row == RowA {
			wells = append(wells, Well{Row: RowA, Column: col}, Well{Row: RowB, Column: col})
			continue
		}
		wells = append(wells, Well{Row: RowB, Column: col})
		if col < Plate384ColumnPairs {
			wells = append(wells, Well{Row: RowA, Column: col + 1})
		}
	}
	if len(wells) > n {
		wells = wells[:n]
	}
	return wells
}

// Validate checks that the plan still satisfies its output guarantees.
func (p *Plan) Validate() error {
	if len(p.Columns96) != p.NumColumns {
		return fmt.Errorf("plan has %d 96-well columns, want %d", len(p.Columns96), p.NumColumns)
	}
	if len(p.Wells384) != p.NumColumns {
		return fmt.Errorf("plan has %d 384-well destinations, want %d", len(p.Wells384), p.NumColumns)
	}
	for _, col := range p.Columns96 {
		if col < 1 || col > Plate96Columns {
			return fmt.Errorf("%w: column %d", ErrCapacity96, col)
		}
	}
	for _, w := range p.Wells384 {
		if w.Column < 1 || w.Column > Plate384ColumnPairs {
			return fmt.Errorf("%w: well %s", ErrCapacity384, w)
		}
	}
	return nil
}

// WellLabels returns the 384-well destinations as labels.
func (p *Plan) WellLabels() []string {
	labels := make([]string, len(p.Wells384))
	for i, w := range p.Wells384 {
		labels[i] = w.String()
	}
	return labels
}
