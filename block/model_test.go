package block

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotspot/config"
	"hotspot/floorplan"
)

const grid = `A	0.002	0.001	0	0
B	0.002	0.001	0.002	0
C	0.002	0.001	0	0.001
D	0.002	0.001	0.002	0.001
`

func build(t *testing.T, text string, mutate func(c *config.Config)) *Model {
	t.Helper()
	flp, err := floorplan.Parse(strings.NewReader(text))
	require.NoError(t, err)
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	m, err := New(cfg, flp)
	require.NoError(t, err)
	require.NoError(t, m.PopulateR())
	require.NoError(t, m.PopulateC())
	return m
}

func TestNodeCount(t *testing.T) {
	m := build(t, grid, nil)
	assert.Equal(t, 4, m.N)
	assert.Equal(t, 28, m.Nodes)
	assert.Equal(t, NodeCount(4), m.Nodes)
	assert.Len(t, m.Capacitance(), m.Nodes)
	assert.Len(t, m.Conductance(), m.Nodes*m.Nodes)
	assert.True(t, m.Ready())
}

func TestConductanceSymmetric(t *testing.T) {
	m := build(t, grid, nil)
	for i := 0; i < m.Nodes; i++ {
		assert.Greater(t, m.B.Get(i, i), 0.0, m.NodeName(i))
		for j := 0; j < i; j++ {
			assert.InDelta(t, m.B.Get(i, j), m.B.Get(j, i), 1e-15)
			assert.LessOrEqual(t, m.B.Get(i, j), 0.0)
		}
	}
}

// 只有散热器层功能块与散热器外围节点接地，其余行之和为零
func TestRowSums(t *testing.T) {
	m := build(t, grid, nil)
	total := 0.0
	for i := 0; i < m.Nodes; i++ {
		sum := 0.0
		for j := 0; j < m.Nodes; j++ {
			sum += m.B.Get(i, j)
		}
		total += sum
		grounded := (i >= m.Index(Sink, 0) && i < int(NL)*m.N) || i >= m.Peripheral(SinkInnerWest)
		if grounded {
			assert.Greater(t, sum, 0.0, m.NodeName(i))
		} else {
			assert.InDelta(t, 0, sum, 1e-9*m.B.Get(i, i), m.NodeName(i))
		}
	}
	amb := 0.0
	for _, g := range m.GAmb {
		amb += g
	}
	assert.InDelta(t, amb, total, 1e-9*amb)
}

func TestLateralConductance(t *testing.T) {
	// 左右相邻: B = -2·k·t·s/(w_i+w_j)
	m := build(t, grid, nil)
	assert.InDelta(t, -2*100*0.15e-3*0.001/0.004, m.B.Get(0, 1), 1e-12)
	// 上下相邻: 共享边 0.002，半高 0.0005
	assert.InDelta(t, -2*100*0.15e-3*0.002/0.002, m.B.Get(0, 2), 1e-12)
	// 角点接触
	assert.Zero(t, m.B.Get(0, 3))

	m = build(t, grid, func(c *config.Config) { c.BlockOmitLateral = true })
	assert.Zero(t, m.B.Get(0, 1))
	assert.NotZero(t, m.B.Get(m.Index(Spreader, 0), m.Index(Spreader, 1)))
}

func TestVerticalConductance(t *testing.T) {
	m := build(t, "core 0.004 0.004 0 0\n", nil)
	area := 0.004 * 0.004
	cfg := m.Config
	assert.InDelta(t, -1/getr(cfg.ChipConductivity, cfg.ChipThickness, area),
		m.B.Get(m.Index(Silicon, 0), m.Index(Interface, 0)), 1e-9)
	assert.InDelta(t, -1/getr(cfg.InterfaceConductivity, cfg.InterfaceThickness, area),
		m.B.Get(m.Index(Interface, 0), m.Index(Spreader, 0)), 1e-9)
	assert.InDelta(t, -1/getr(cfg.SpreaderConductivity, cfg.SpreaderThickness, area),
		m.B.Get(m.Index(Spreader, 0), m.Index(Sink, 0)), 1e-9)

	// 单个功能块位于四条边界上
	assert.Equal(t, [4]bool{true, true, true, true}, m.OnBorder(0))
	for d := SpreaderWest; d <= SpreaderSouth; d++ {
		assert.Less(t, m.B.Get(m.Index(Spreader, 0), m.Peripheral(d)), 0.0)
	}
	assert.Zero(t, m.B.Get(m.Index(Silicon, 0), m.Peripheral(SpreaderWest)))
}

func TestInteriorUnitNotOnBorder(t *testing.T) {
	text := grid + "E 0.002 0.001 0.004 0\nF 0.002 0.001 0.004 0.001\n" +
		"G 0.006 0.001 0 0.002\nH 0.006 0.001 0 -0.001\n"
	m := build(t, text, nil)
	i, _ := m.Floorplan.Index("B")
	assert.Equal(t, [4]bool{false, false, false, false}, m.OnBorder(i))
	assert.Zero(t, m.B.Get(m.Index(Spreader, i), m.Peripheral(SpreaderNorth)))
}

func TestMaterialOverride(t *testing.T) {
	text := "A 0.002 0.001 0 0 1.0e6 0.005\nB 0.002 0.001 0.002 0 1.0e6 0.005\n"
	m := build(t, text, nil)
	// 热阻率 0.005 → k = 200
	assert.InDelta(t, -2*200*0.15e-3*0.001/0.004, m.B.Get(0, 1), 1e-12)
	assert.InDelta(t, CFactor*1.0e6*0.15e-3*0.002*0.001, m.A.Get(0), 1e-15)
}

func TestCapacitance(t *testing.T) {
	m := build(t, grid, nil)
	cfg := m.Config
	area := 0.002 * 0.001
	assert.InDelta(t, getcap(cfg.ChipHeat, cfg.ChipThickness, area), m.A.Get(m.Index(Silicon, 0)), 1e-15)
	assert.InDelta(t, getcap(cfg.InterfaceHeat, cfg.InterfaceThickness, area), m.A.Get(m.Index(Interface, 0)), 1e-15)
	for i, a := range m.A.ToDense() {
		assert.Greater(t, a, 0.0, m.NodeName(i))
		assert.InDelta(t, 1/a, m.InvA.Get(i), 1e-9/a)
	}
	// C = InvA·B
	assert.InDelta(t, m.InvA.Get(3)*m.B.Get(3, 1), m.C.Get(3, 1), 1e-9)
}

func TestNodeNames(t *testing.T) {
	m := build(t, grid, nil)
	names := m.NodeNames()
	assert.Equal(t, "A", names[0])
	assert.Equal(t, "iface_B", names[m.Index(Interface, 1)])
	assert.Equal(t, "hsp_C", names[m.Index(Spreader, 2)])
	assert.Equal(t, "hsink_D", names[m.Index(Sink, 3)])
	assert.Equal(t, "hsp_west", names[m.Peripheral(SpreaderWest)])
	assert.Equal(t, "hsink_inner_north", names[m.Peripheral(SinkInnerNorth)])
	assert.Equal(t, "hsink_south", names[m.Nodes-1])
	assert.Panics(t, func() { m.NodeName(m.Nodes) })
}

func TestNewErrors(t *testing.T) {
	flp, err := floorplan.Parse(strings.NewReader(grid))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.ModelType = config.GridModel
	_, err = New(cfg, flp)
	assert.True(t, errors.Is(err, ErrUnsupportedModel))

	huge, err := floorplan.Parse(strings.NewReader("die 0.05 0.01 0 0\n"))
	require.NoError(t, err)
	_, err = New(config.Default(), huge)
	assert.True(t, errors.Is(err, ErrFloorplanSize))

	cfg = config.Default()
	cfg.ChipThickness = -1
	_, err = New(cfg, flp)
	assert.True(t, errors.Is(err, config.ErrInvalid))

	m, err := New(config.Default(), flp)
	require.NoError(t, err)
	assert.True(t, errors.Is(m.PopulateC(), ErrNotPopulated))
}

func TestPackageRC(t *testing.T) {
	var p packageRC
	cfg := config.Default()
	p.populateR(cfg, 0.01, 0.01)
	p.populateC(cfg, 0.01, 0.01)
	// 正方形芯片时 x/y 对称
	assert.InDelta(t, p.rSp1X, p.rSp1Y, 1e-12)
	assert.InDelta(t, p.cHsCPerX, p.cHsCPerY, 1e-12)
	for _, v := range []float64{p.rSp1X, p.rHs1X, p.rHs2X, p.rHs, p.rSpPerX, p.rHsCPerX, p.rHsPer,
		p.rAmbCPerX, p.rAmbPer, p.cSpPerX, p.cHsCPerX, p.cHsPer, p.cAmbCPerX, p.cAmbPer} {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		assert.Greater(t, v, 0.0)
	}
}
