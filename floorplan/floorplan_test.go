package floorplan

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2x2 网格，左下角不在原点
const grid = `# unit	width	height	left-x	bottom-y
A	0.002	0.001	0.001	0.001
B	0.002	0.001	0.003	0.001

C	0.002	0.001	0.001	0.002
D	0.002	0.001	0.003	0.002
`

func TestParseTranslatesOrigin(t *testing.T) {
	flp, err := Parse(strings.NewReader(grid))
	require.NoError(t, err)
	require.Equal(t, 4, flp.Len())

	a := flp.Units[0]
	assert.InDelta(t, 0, a.LeftX, 1e-12)
	assert.InDelta(t, 0, a.BottomY, 1e-12)
	assert.InDelta(t, 0.004, flp.TotalWidth(), 1e-12)
	assert.InDelta(t, 0.002, flp.TotalHeight(), 1e-12)
	assert.InDelta(t, 8e-6, flp.Area(), 1e-15)

	i, ok := flp.Index("D")
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	assert.Equal(t, []string{"A", "B", "C", "D"}, flp.Names())
}

func TestEq(t *testing.T) {
	assert.True(t, Eq(0.001, 0.001+Delta/2))
	assert.False(t, Eq(0.001, 0.001+2*Delta))
	assert.True(t, Eq(float32(1), float32(1)))
}

func TestAdjacency(t *testing.T) {
	flp, err := Parse(strings.NewReader(grid))
	require.NoError(t, err)

	// A|B 左右相邻，A/C 上下相邻，A 与 D 只有角点接触
	assert.True(t, flp.IsHorizAdj(0, 1))
	assert.True(t, flp.IsHorizAdj(1, 0))
	assert.False(t, flp.IsVertAdj(0, 1))
	assert.True(t, flp.IsVertAdj(0, 2))
	assert.False(t, flp.IsHorizAdj(0, 3))
	assert.False(t, flp.IsVertAdj(0, 3))
	assert.False(t, flp.IsHorizAdj(0, 0))

	assert.InDelta(t, 0.001, flp.SharedLength(0, 1), 1e-12)
	assert.InDelta(t, 0.002, flp.SharedLength(0, 2), 1e-12)
	assert.Zero(t, flp.SharedLength(0, 3))
	assert.Zero(t, flp.SharedLength(2, 2))
}

func TestPartialSharedEdge(t *testing.T) {
	flp, err := New([]Unit{
		{Name: "big", Width: 2, Height: 4},
		{Name: "small", Width: 1, Height: 1, LeftX: 2, BottomY: 1},
	})
	require.NoError(t, err)
	assert.True(t, flp.IsHorizAdj(0, 1))
	assert.InDelta(t, 1.0, flp.SharedLength(0, 1), 1e-12)
	assert.InDelta(t, 1.0, flp.SharedLength(1, 0), 1e-12)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"fields":    "A 1 2 3\n",
		"number":    "A 1 x 0 0\n",
		"negative":  "A -1 1 0 0\n",
		"duplicate": "A 1 1 0 0\nA 1 1 1 0\n",
		"material":  "A 1 1 0 0 -1 2\n",
		"nan width": "A NaN 1 0 0\n",
		"inf x":     "A 1 1 +Inf 0\n",
		"nan heat":  "A 1 1 0 0 NaN 2\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(text))
			assert.Error(t, err)
		})
	}

	_, err := Parse(strings.NewReader("# nothing\n\n"))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestNewRejectsNonFinite(t *testing.T) {
	_, err := New([]Unit{{Name: "a", Width: math.NaN(), Height: 1}})
	assert.Error(t, err)
	_, err = New([]Unit{{Name: "a", Width: 1, Height: 1, LeftX: math.Inf(-1)}})
	assert.Error(t, err)
}

func TestParseLineNumber(t *testing.T) {
	_, err := Parse(strings.NewReader("A 1 1 0 0\n\nB 1 oops 1 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestMaterialOverrides(t *testing.T) {
	flp, err := Parse(strings.NewReader("core 0.001 0.001 0 0 1.6e6 0.01\n"))
	require.NoError(t, err)
	u := flp.Units[0]
	assert.True(t, u.HasSpecificHeat)
	assert.True(t, u.HasResistivity)
	assert.Equal(t, 1.6e6, u.SpecificHeat)
	assert.Equal(t, 0.01, u.Resistivity)
}

func TestValidateOverlap(t *testing.T) {
	flp, err := New([]Unit{
		{Name: "a", Width: 2, Height: 2},
		{Name: "b", Width: 2, Height: 2, LeftX: 1, BottomY: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}}, flp.Overlaps())
	assert.True(t, errors.Is(flp.Validate(), ErrOverlap))

	flp, err = Parse(strings.NewReader(grid))
	require.NoError(t, err)
	assert.NoError(t, flp.Validate())
}

func TestWriteRoundTrip(t *testing.T) {
	flp, err := Parse(strings.NewReader(grid + "E 0.001 0.001 0.005 0.001 1.6e6 0.01\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, flp.Write(&buf))

	again, err := Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, flp.Len(), again.Len())
	for i := range flp.Units {
		assert.Equal(t, flp.Units[i].Name, again.Units[i].Name)
		assert.InDelta(t, flp.Units[i].LeftX, again.Units[i].LeftX, 1e-12)
		assert.Equal(t, flp.Units[i].HasResistivity, again.Units[i].HasResistivity)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.flp")
	require.NoError(t, os.WriteFile(path, []byte(grid), 0o644))
	flp, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, flp.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.flp"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
