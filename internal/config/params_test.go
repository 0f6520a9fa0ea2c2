package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams_Valid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Empty(t, p.Warnings())
	assert.Equal(t, 24, p.Samples)
	assert.Equal(t, "A1", p.StartWell384)
}

func TestDefaultRanges(t *testing.T) {
	r := DefaultRanges()
	assert.Equal(t, IntRange{Min: 8, Max: 96}, r.Samples)
	assert.Equal(t, IntRange{Min: 1, Max: 12}, r.StartColumn96)
	assert.Len(t, r.StartWell384, 24)
	assert.True(t, r.CellVolume.Contains(25))
	assert.False(t, r.CellVolume.Contains(25.5))
	assert.True(t, r.SOCVolume.Contains(10))
	assert.False(t, r.SOCVolume.Contains(9.9))
}

func TestRunParams_Validate(t *testing.T) {
	t.Run("reports every violation", func(t *testing.T) {
		p := RunParams{
			Samples:       4,
			CellVolume:    30,
			SOCVolume:     5,
			StartWell384:  "C1",
			StartColumn96: 13,
		}
		err := p.Validate()
		require.ErrorIs(t, err, ErrInvalidParams)
		for _, key := range []string{"number_of_samples", "bacteria_volume", "soc_volume", "start_column_96", "start_well_384"} {
			assert.Contains(t, err.Error(), key)
		}
	})

	t.Run("boundaries accepted", func(t *testing.T) {
		p := RunParams{
			Samples:       96,
			CellVolume:    1,
			SOCVolume:     200,
			StartWell384:  "B12",
			StartColumn96: 12,
		}
		assert.NoError(t, p.Validate())
	})
}

func TestRunParams_Warnings(t *testing.T) {
	p := DefaultParams()
	p.Samples = 20
	warnings := p.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "multiple of 8")
}

func TestParseParams(t *testing.T) {
	t.Run("overrides only given keys", func(t *testing.T) {
		data := []byte("number_of_samples: 48\nstart_well_384: B3\n")
		p, err := ParseParams(data, DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, 48, p.Samples)
		assert.Equal(t, "B3", p.StartWell384)
		assert.Equal(t, 7.0, p.CellVolume)
		assert.Equal(t, 1, p.StartColumn96)
	})

	t.Run("empty and comment-only data keep base", func(t *testing.T) {
		for _, data := range []string{"", "   \n", "# nothing here\n"} {
			p, err := ParseParams([]byte(data), DefaultParams())
			require.NoError(t, err)
			assert.Equal(t, DefaultParams(), p)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := ParseParams([]byte("sample_count: 8\n"), DefaultParams())
		assert.Error(t, err)
	})

	t.Run("fractional volume", func(t *testing.T) {
		p, err := ParseParams([]byte("soc_volume: 42.5\n"), DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, 42.5, p.SOCVolume)
	})
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_column_96: 4\n"), 0644))

	p, err := LoadParams(path, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 4, p.StartColumn96)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing.yaml"), DefaultParams())
	assert.Error(t, err)
}

func TestRunParams_YAMLRoundTrip(t *testing.T) {
	want := RunParams{Samples: 40, CellVolume: 5, SOCVolume: 120, StartWell384: "B2", StartColumn96: 3}
	data, err := want.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "start_well_384: B2")

	got, err := ParseParams(data, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("PLATERUN_SAMPLES", "16")
		t.Setenv("PLATERUN_CELL_VOLUME", "3.5")
		t.Setenv("PLATERUN_SOC_VOLUME", "100")
		t.Setenv("PLATERUN_START_WELL_384", "B5")
		t.Setenv("PLATERUN_START_COLUMN_96", "6")

		p := DefaultParams()
		require.NoError(t, p.ApplyEnvOverrides())
		assert.Equal(t, RunParams{Samples: 16, CellVolume: 3.5, SOCVolume: 100, StartWell384: "B5", StartColumn96: 6}, p)
	})

	t.Run("unset variables leave values alone", func(t *testing.T) {
		t.Setenv("PLATERUN_SAMPLES", "")
		t.Setenv("PLATERUN_CELL_VOLUME", "")
		t.Setenv("PLATERUN_SOC_VOLUME", "")
		t.Setenv("PLATERUN_START_WELL_384", "")
		t.Setenv("PLATERUN_START_COLUMN_96", "")

		p := DefaultParams()
		require.NoError(t, p.ApplyEnvOverrides())
		assert.Equal(t, DefaultParams(), p)
	})

	t.Run("malformed number", func(t *testing.T) {
		t.Setenv("PLATERUN_SAMPLES", "many")
		p := DefaultParams()
		assert.Error(t, p.ApplyEnvOverrides())
	})
}
