package liquidclass

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{SOCTo384, DistributeCells, PrefillSOC, Recovery}, catalog.Names())

	for _, name := range catalog.Names() {
		class, err := catalog.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, class.Name)
		assert.Len(t, class.Properties, 1, "one pipette per class")
	}

	_, err = catalog.Get("shared")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestLoad_PipetteKeys(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	prefill, err := catalog.Get(PrefillSOC)
	require.NoError(t, err)
	assert.Contains(t, prefill.Properties, "flex_8channel_1000")

	distribute, err := catalog.Get(DistributeCells)
	require.NoError(t, err)
	assert.Contains(t, distribute.Properties, "flex_8channel_50")
}

func TestLoad_AnchorsExpanded(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	class, err := catalog.Get(Recovery)
	require.NoError(t, err)

	retract, err := lookup(class.Properties["flex_8channel_50"],
		"opentrons/opentrons_flex_96_tiprack_50ul/1", "aspirate", "retract")
	require.NoError(t, err)
	assert.Equal(t, 50, retract["speed"])
}

func TestWithDispenseMixVolume(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	original, err := catalog.Get(Recovery)
	require.NoError(t, err)

	updated, err := original.WithDispenseMixVolume(43.5)
	require.NoError(t, err)

	mix, err := lookup(updated.Properties["flex_8channel_50"],
		"opentrons/opentrons_flex_96_tiprack_50ul/1", "dispense", "mix")
	require.NoError(t, err)
	assert.Equal(t, 43.5, mix["volume"])
	assert.Equal(t, true, mix["enabled"])

	// Original is untouched.
	origMix, err := lookup(original.Properties["flex_8channel_50"],
		"opentrons/opentrons_flex_96_tiprack_50ul/1", "dispense", "mix")
	require.NoError(t, err)
	assert.Equal(t, 0, origMix["volume"])
}

func TestWithDispenseMixVolume_MissingMix(t *testing.T) {
	catalog, err := Parse([]byte(`
classes:
  bare:
    p50:
      tips: {aspirate: {}}
`))
	require.NoError(t, err)

	class, err := catalog.Get("bare")
	require.NoError(t, err)
	_, err = class.WithDispenseMixVolume(10)
	assert.Error(t, err)
}

func TestParse_EmptyClass(t *testing.T) {
	_, err := Parse([]byte("classes:\n  empty: {}\n"))
	assert.Error(t, err)
}

func TestClass_JSON(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	for _, name := range catalog.Names() {
		class, _ := catalog.Get(name)
		data, err := json.Marshal(class)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), `"name":`)
	}
}
