package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# thermal configuration
		-t_chip			0.5e-3
		-k_chip			150.0

-model_type block
		-init_file		(null)
-block_omit_lateral	1
-leakage_used	0
`

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.True(t, c.IsBlock())
	assert.InDelta(t, 318.15, c.Ambient, 1e-9)
}

func TestReadPairs(t *testing.T) {
	pairs, err := ReadPairs(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, pairs, 6)
	assert.Equal(t, Pair{Name: "t_chip", Value: "0.5e-3"}, pairs[0])
	assert.Equal(t, "leakage_used", pairs[5].Name)
}

func TestReadPairsErrors(t *testing.T) {
	_, err := ReadPairs(strings.NewReader("-t_chip\n"))
	assert.Error(t, err)
	_, err = ReadPairs(strings.NewReader("- 1\n"))
	assert.Error(t, err)

	var sb strings.Builder
	for i := 0; i <= MaxEntries; i++ {
		sb.WriteString("-x 1\n")
	}
	_, err = ReadPairs(strings.NewReader(sb.String()))
	assert.Error(t, err)
}

func TestReadPairsTrailingFields(t *testing.T) {
	pairs, err := ReadPairs(strings.NewReader("-t_chip 0.15e-3 # note\n-k_chip 100 extra words\n"))
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Name: "t_chip", Value: "0.15e-3"}, {Name: "k_chip", Value: "100"}}, pairs)
}

func TestApply(t *testing.T) {
	pairs, err := ReadPairs(strings.NewReader(sample))
	require.NoError(t, err)

	c := Default()
	unused, err := c.Apply(pairs)
	require.NoError(t, err)
	assert.Equal(t, []string{"leakage_used"}, unused)
	assert.Equal(t, 0.5e-3, c.ChipThickness)
	assert.Equal(t, 150.0, c.ChipConductivity)
	assert.True(t, c.BlockOmitLateral)
	assert.Equal(t, "", c.InitFile)
}

func TestApplyInvalidValues(t *testing.T) {
	for _, p := range []Pair{
		{"t_chip", "thin"},
		{"grid_rows", "1.5"},
		{"dtm_used", "2"},
	} {
		_, err := Default().Apply([]Pair{p})
		assert.Error(t, err, p.Name)
	}
	for _, p := range []Pair{
		{"k_sink", "NaN"},
		{"ambient", "Inf"},
		{"t_chip", "-Inf"},
	} {
		_, err := Default().Apply([]Pair{p})
		assert.ErrorIs(t, err, ErrInvalid, p.Name)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"thickness":    func(c *Config) { c.ChipThickness = 0 },
		"conductivity": func(c *Config) { c.SinkConductivity = -1 },
		"heat":         func(c *Config) { c.InterfaceHeat = 0 },
		"convection":   func(c *Config) { c.ConvectionResistance = -0.1 },
		"sink":         func(c *Config) { c.SinkSide = c.SpreaderSide / 2 },
		"ambient":      func(c *Config) { c.Ambient = 0 },
		"sampling":     func(c *Config) { c.SamplingInterval = 0 },
		"frequency":    func(c *Config) { c.BaseFrequency = 0 },
		"grid":         func(c *Config) { c.GridRows = 48 },
		"model":        func(c *Config) { c.ModelType = "3d" },
		"map":          func(c *Config) { c.GridMapMode = "median" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.True(t, errors.Is(c.Validate(), ErrInvalid))
		})
	}

	c := Default()
	c.ModelType = "GRID"
	assert.NoError(t, c.Validate())
	assert.False(t, c.IsBlock())
}

func TestWriteRoundTrip(t *testing.T) {
	c := Default()
	c.SinkThickness = 8e-3
	c.SteadyFile = "chip.steady"
	c.DTMUsed = true

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))

	pairs, err := ReadPairs(&buf)
	require.NoError(t, err)
	again := Default()
	unused, err := again.Apply(pairs)
	require.NoError(t, err)
	assert.Empty(t, unused)
	assert.Equal(t, c, again)
}

func TestGet(t *testing.T) {
	c := Default()
	v, ok := c.Get("model_type")
	assert.True(t, ok)
	assert.Equal(t, "block", v)
	v, _ = c.Get("init_file")
	assert.Equal(t, "(null)", v)
	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	dir := t.TempDir()
	path := filepath.Join(dir, "hotspot.config")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5e-3, c.ChipThickness)

	bad := filepath.Join(dir, "bad.config")
	require.NoError(t, os.WriteFile(bad, []byte("-s_sink 0.01\n"), 0o644))
	_, err = Load(bad)
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = Load(filepath.Join(dir, "missing.config"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HOTSPOT_AMBIENT", "300")
	t.Setenv("HOTSPOT_MODEL_TYPE", "grid")
	c := Default()
	require.NoError(t, c.ApplyEnv())
	assert.Equal(t, 300.0, c.Ambient)
	assert.Equal(t, "grid", c.ModelType)
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("-ambient = 300")
	require.NoError(t, err)
	assert.Equal(t, Pair{Name: "ambient", Value: "300"}, p)
	_, err = ParsePair("ambient")
	assert.Error(t, err)
}
