package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/platerun/internal/planner"
)

// ErrInvalidParams indicates that one or more run parameters are out of range.
var ErrInvalidParams = errors.New("invalid run parameters")

// RunParams are the operator-supplied inputs of a transformation run.
// They are resolved once per invocation and never mutated afterwards.
type RunParams struct {
	// Samples is the total number of samples to process
	Samples int `yaml:"number_of_samples" json:"number_of_samples"`

	// CellVolume is the competent cell volume dispensed per well (µL)
	CellVolume float64 `yaml:"bacteria_volume" json:"bacteria_volume"`

	// SOCVolume is the SOC volume pre-filled per 96-well column (µL)
	SOCVolume float64 `yaml:"soc_volume" json:"soc_volume"`

	// StartWell384 is the first destination well on the 384-well plate
	StartWell384 string `yaml:"start_well_384" json:"start_well_384"`

	// StartColumn96 is the first destination column on the 96-well plate
	StartColumn96 int `yaml:"start_column_96" json:"start_column_96"`
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v is within the range.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// VolumeRange is an inclusive volume range in µL.
type VolumeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v is within the range.
func (r VolumeRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges lists the accepted values for every run parameter.
type Ranges struct {
	Samples       IntRange    `json:"number_of_samples"`
	CellVolume    VolumeRange `json:"bacteria_volume"`
	SOCVolume     VolumeRange `json:"soc_volume"`
	StartColumn96 IntRange    `json:"start_column_96"`
	StartWell384  []string    `json:"start_well_384"`
}

// DefaultRanges returns the accepted parameter ranges.
func DefaultRanges() Ranges {
	return Ranges{
		Samples:       IntRange{Min: 8, Max: 96},
		CellVolume:    VolumeRange{Min: 1, Max: 25},
		SOCVolume:     VolumeRange{Min: 10, Max: 200},
		StartColumn96: IntRange{Min: 1, Max: planner.Plate96Columns},
		StartWell384:  planner.WellChoices(),
	}
}

// DefaultParams returns the parameters used when nothing else is supplied.
func DefaultParams() RunParams {
	return RunParams{
		Samples:       24,
		CellVolume:    7,
		SOCVolume:     50,
		StartWell384:  "A1",
		StartColumn96: 1,
	}
}

// LoadParams reads a YAML parameter file on top of base. Keys missing from
// the file keep their value from base; unknown keys are rejected.
func LoadParams(path string, base RunParams) (RunParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read params file: %w", err)
	}
	return ParseParams(data, base)
}

// ParseParams decodes YAML parameter data on top of base.
func ParseParams(data []byte, base RunParams) (RunParams, error) {
	params := base
	if len(bytes.TrimSpace(data)) == 0 {
		return params, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("failed to parse params: %w", err)
	}
	return params, nil
}

// YAML renders the parameters as a params file.
func (p RunParams) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyEnvOverrides overrides parameters from PLATERUN_* environment variables.
func (p *RunParams) ApplyEnvOverrides() error {
	if v := os.Getenv("PLATERUN_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLATERUN_SAMPLES: %w", err)
		}
		p.Samples = n
	}
	if v := os.Getenv("PLATERUN_CELL_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PLATERUN_CELL_VOLUME: %w", err)
		}
		p.CellVolume = f
	}
	if v := os.Getenv("PLATERUN_SOC_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PLATERUN_SOC_VOLUME: %w", err)
		}
		p.SOCVolume = f
	}
	if v := os.Getenv("PLATERUN_START_WELL_384"); v != "" {
		p.StartWell384 = v
	}
	if v := os.Getenv("PLATERUN_START_COLUMN_96"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLATERUN_START_COLUMN_96: %w", err)
		}
		p.StartColumn96 = n
	}
	return nil
}

// Validate checks every parameter against DefaultRanges and reports all
// violations at once.
func (p RunParams) Validate() error {
	r := DefaultRanges()
	var problems []string

	if !r.Samples.Contains(p.Samples) {
		problems = append(problems, fmt.Sprintf("number_of_samples %d outside %d-%d", p.Samples, r.Samples.Min, r.Samples.Max))
	}
	if !r.CellVolume.Contains(p.CellVolume) {
		problems = append(problems, fmt.Sprintf("bacteria_volume %g outside %g-%g µL", p.CellVolume, r.CellVolume.Min, r.CellVolume.Max))
	}
	if !r.SOCVolume.Contains(p.SOCVolume) {
		problems = append(problems, fmt.Sprintf("soc_volume %g outside %g-%g µL", p.SOCVolume, r.SOCVolume.Min, r.SOCVolume.Max))
	}
	if !r.StartColumn96.Contains(p.StartColumn96) {
		problems = append(problems, fmt.Sprintf("start_column_96 %d outside %d-%d", p.StartColumn96, r.StartColumn96.Min, r.StartColumn96.Max))
	}
	if _, err := planner.ParseWell(p.StartWell384); err != nil {
		problems = append(problems, fmt.Sprintf("start_well_384 %q is not one of A1..B%d", p.StartWell384, planner.Plate384ColumnPairs))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(problems, "; "))
	}
	return nil
}

// Warnings returns non-fatal remarks about the parameters.
func (p RunParams) Warnings() []string {
	var warnings []string
	if p.Samples > 0 && p.Samples%planner.SamplesPerColumn != 0 {
		warnings = append(warnings, fmt.Sprintf(
			"number_of_samples %d is not a multiple of %d; the last column is partially filled",
			p.Samples, planner.SamplesPerColumn))
	}
	return warnings
}
