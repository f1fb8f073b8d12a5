// Package block 由芯片布局构建块级热 RC 模型
//
// 每个功能块在硅片、界面材料、均热板、散热器四层中各有一个节点，
// 另有均热板与散热器外围的 12 个节点，共 4n+12 个节点。
// 模型满足 A·dT/dt + B·T = P，其中 T 为相对环境的温升，
// A 为节点热容（对角），B 为电导矩阵。
package block

import (
	"errors"
	"fmt"

	"hotspot/config"
	"hotspot/floorplan"
	"hotspot/mat"
)

var (
	// ErrUnsupportedModel 配置的模型类型不是块模型
	ErrUnsupportedModel = errors.New("only the block thermal model is supported")
	// ErrFloorplanSize 芯片尺寸超出均热板或散热器
	ErrFloorplanSize = errors.New("inordinate floorplan size")
	// ErrNotPopulated 热阻尚未计算
	ErrNotPopulated = errors.New("thermal resistances not populated")
)

// Model 块级热 RC 模型
type Model struct {
	Config    *config.Config
	Floorplan *floorplan.Floorplan
	N         int // 功能块数量
	Nodes     int // 节点数量

	// 每个功能块到四条边界的标记（west, east, north, south）
	border [][4]bool
	// 半块电导：G[i][j] 为从 i 一侧看到的 i→j 电导
	G mat.Matrix
	// 节点到环境的电导，前 n 项为散热器层功能块，其后为散热器外围 8 个节点
	GAmb []float64
	// 电导矩阵 B（稳态 B·T = P）
	B mat.Matrix
	// 节点热容 A 及其倒数
	A    mat.Vector
	InvA mat.Vector
	// C = InvA·B，瞬态 dT/dt + C·T = InvA·P
	C mat.Matrix

	pack   packageRC
	rReady bool
	cReady bool
}

// New 为布局分配块模型
func New(cfg *config.Config, flp *floorplan.Floorplan) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.IsBlock() {
		return nil, fmt.Errorf("%w: model type %q", ErrUnsupportedModel, cfg.ModelType)
	}
	if flp == nil || flp.Len() == 0 {
		return nil, floorplan.ErrEmpty
	}
	w, h := flp.TotalWidth(), flp.TotalHeight()
	if w >= cfg.SpreaderSide || h >= cfg.SpreaderSide || w >= cfg.SinkSide || h >= cfg.SinkSide {
		return nil, fmt.Errorf("%w: chip %gx%g, spreader %g, sink %g",
			ErrFloorplanSize, w, h, cfg.SpreaderSide, cfg.SinkSide)
	}
	n := flp.Len()
	nodes := NodeCount(n)
	return &Model{
		Config:    cfg,
		Floorplan: flp,
		N:         n,
		Nodes:     nodes,
		border:    make([][4]bool, n),
		G:         mat.NewDenseMatrix(nodes, nodes),
		GAmb:      make([]float64, n+Extra-4),
		B:         mat.NewDenseMatrix(nodes, nodes),
		A:         mat.NewDenseVector(nodes),
		InvA:      mat.NewDenseVector(nodes),
		C:         mat.NewDenseMatrix(nodes, nodes),
	}, nil
}

// chipMaterial 功能块 i 的硅层导热系数与比热
func (m *Model) chipMaterial(i int) (k, p float64) {
	u := &m.Floorplan.Units[i]
	k, p = m.Config.ChipConductivity, m.Config.ChipHeat
	if u.HasResistivity {
		k = 1.0 / u.Resistivity
	}
	if u.HasSpecificHeat {
		p = u.SpecificHeat
	}
	return k, p
}

// link 在节点 i、j 之间加盖对称的半块电导
func (m *Model) link(i, j int, g float64) {
	m.G.Set(i, j, g)
	m.G.Set(j, i, g)
}

// PopulateR 计算热阻网络并生成电导矩阵 B
func (m *Model) PopulateR() error {
	cfg, flp, n := m.Config, m.Floorplan, m.N
	width, height := flp.TotalWidth(), flp.TotalHeight()

	// 各层功能块中心到 x/y 方向边缘的电导
	var gx, gy [NL][]float64
	for l := range gx {
		gx[l] = make([]float64, n)
		gy[l] = make([]float64, n)
	}
	thickness := [NL]float64{cfg.ChipThickness, cfg.InterfaceThickness, cfg.SpreaderThickness, cfg.SinkThickness}
	conductivity := [NL]float64{0, cfg.InterfaceConductivity, cfg.SpreaderConductivity, cfg.SinkConductivity}
	for i := 0; i < n; i++ {
		u := &flp.Units[i]
		kChip, _ := m.chipMaterial(i)
		for l := Silicon; l < NL; l++ {
			k := conductivity[l]
			if l == Silicon {
				if cfg.BlockOmitLateral {
					continue
				}
				k = kChip
			}
			gx[l][i] = 1.0 / getr(k, u.Width/2.0, u.Height*thickness[l])
			gy[l][i] = 1.0 / getr(k, u.Height/2.0, u.Width*thickness[l])
		}
	}

	m.pack.populateR(cfg, width, height)

	// 将位于芯片边界的功能块短接到外围节点
	var gEdgeSp, gEdgeHs [4]float64
	for i := 0; i < n; i++ {
		u := &flp.Units[i]
		m.border[i] = [4]bool{
			west:  floorplan.Eq(u.LeftX, 0),
			east:  floorplan.Eq(u.RightX(), width),
			north: floorplan.Eq(u.TopY(), height),
			south: floorplan.Eq(u.BottomY, 0),
		}
		for d, on := range m.border[i] {
			if !on {
				continue
			}
			if d == west || d == east {
				gEdgeSp[d] += gx[Spreader][i]
				gEdgeHs[d] += gx[Sink][i]
			} else {
				gEdgeSp[d] += gy[Spreader][i]
				gEdgeHs[d] += gy[Sink][i]
			}
		}
	}

	m.G.Clear()
	clear(m.GAmb)

	for i := 0; i < n; i++ {
		u := &flp.Units[i]
		area := u.Area()

		// 同层相邻功能块之间
		for j := 0; j < n; j++ {
			var part [NL]float64
			switch {
			case flp.IsHorizAdj(i, j):
				for l := range part {
					part[l] = gx[l][i] / u.Height
				}
			case flp.IsVertAdj(i, j):
				for l := range part {
					part[l] = gy[l][i] / u.Width
				}
			default:
				continue
			}
			shared := flp.SharedLength(i, j)
			for l := Silicon; l < NL; l++ {
				m.G.Set(m.Index(l, i), m.Index(l, j), part[l]*shared)
			}
		}

		// 层间纵向电导，系数 2.0 使两侧串联后得到完整的纵向热阻
		kChip, _ := m.chipMaterial(i)
		m.link(m.Index(Silicon, i), m.Index(Interface, i), 2.0/getr(kChip, cfg.ChipThickness, area))
		m.link(m.Index(Interface, i), m.Index(Spreader, i), 2.0/getr(cfg.InterfaceConductivity, cfg.InterfaceThickness, area))
		m.link(m.Index(Spreader, i), m.Index(Sink, i), 2.0/getr(cfg.SpreaderConductivity, cfg.SpreaderThickness, area))

		// 散热器到环境：按面积分配对流热阻
		rAmb := cfg.ConvectionResistance * (cfg.SinkSide * cfg.SinkSide) / area
		m.GAmb[i] = 1.0 / (getr(cfg.SinkConductivity, cfg.SinkThickness, area) + rAmb)

		// 边界功能块到均热板、散热器外围节点
		for d, on := range m.border[i] {
			if !on {
				continue
			}
			gSp, gHs := gx[Spreader][i], gx[Sink][i]
			rSp, rHs := m.pack.rSp1X, m.pack.rHs1X
			if d == north || d == south {
				gSp, gHs = gy[Spreader][i], gy[Sink][i]
				rSp, rHs = m.pack.rSp1Y, m.pack.rHs1Y
			}
			m.link(m.Index(Spreader, i), m.Peripheral(SpreaderWest+d), 2.0/(1.0/gSp+rSp*gEdgeSp[d]/gSp))
			m.link(m.Index(Sink, i), m.Peripheral(SinkInnerWest+d), 2.0/(1.0/gHs+rHs*gEdgeHs[d]/gHs))
		}
	}

	// 外围节点
	for d := west; d <= south; d++ {
		rSpPer, rHs2, rHsCPer, rAmbCPer := m.pack.rSpPerX, m.pack.rHs2X, m.pack.rHsCPerX, m.pack.rAmbCPerX
		if d == north || d == south {
			rSpPer, rHs2, rHsCPer, rAmbCPer = m.pack.rSpPerY, m.pack.rHs2Y, m.pack.rHsCPerY, m.pack.rAmbCPerY
		}
		// 均热板外围到散热器内圈外围（纵向）
		m.link(m.Peripheral(SpreaderWest+d), m.Peripheral(SinkInnerWest+d), 2.0/rSpPer)
		// 散热器内圈到外圈（横向）
		m.link(m.Peripheral(SinkInnerWest+d), m.Peripheral(SinkWest+d), 2.0/(m.pack.rHs+rHs2))
		// 散热器外围到环境
		m.GAmb[n+d] = 1.0 / (rHsCPer + rAmbCPer)
		m.GAmb[n+4+d] = 1.0 / (m.pack.rHsPer + m.pack.rAmbPer)
	}

	m.assembleB()
	m.rReady = true
	if m.cReady {
		m.computeC()
	}
	return nil
}

// assembleB 由半块电导串联得到电导矩阵 B
func (m *Model) assembleB() {
	n, nodes := m.N, m.Nodes
	m.B.Clear()
	for i := 0; i < nodes; i++ {
		for j := 0; j < i; j++ {
			gij, gji := m.G.Get(i, j), m.G.Get(j, i)
			if gij == 0 || gji == 0 {
				continue
			}
			b := 1.0 / (1.0/gij + 1.0/gji)
			m.B.Set(i, j, -b)
			m.B.Set(j, i, -b)
			m.B.Increment(i, i, b)
			m.B.Increment(j, j, b)
		}
	}
	for i := 0; i < n; i++ {
		m.B.Increment(m.Index(Sink, i), m.Index(Sink, i), m.GAmb[i])
	}
	for k := 0; k < Extra-4; k++ {
		m.B.Increment(m.Peripheral(SinkInnerWest+k), m.Peripheral(SinkInnerWest+k), m.GAmb[n+k])
	}
}

// PopulateC 计算节点热容
func (m *Model) PopulateC() error {
	if !m.rReady {
		return ErrNotPopulated
	}
	cfg, flp, n := m.Config, m.Floorplan, m.N
	m.pack.populateC(cfg, flp.TotalWidth(), flp.TotalHeight())

	for i := 0; i < n; i++ {
		area := flp.Units[i].Area()
		_, pChip := m.chipMaterial(i)
		m.A.Set(m.Index(Silicon, i), getcap(pChip, cfg.ChipThickness, area))
		m.A.Set(m.Index(Interface, i), getcap(cfg.InterfaceHeat, cfg.InterfaceThickness, area))
		m.A.Set(m.Index(Spreader, i), getcap(cfg.SpreaderHeat, cfg.SpreaderThickness, area))
		// 散热器：按面积分配对流热容
		cAmb := CFactor * cfg.ConvectionCapacitance / (cfg.SinkSide * cfg.SinkSide) * area
		m.A.Set(m.Index(Sink, i), getcap(cfg.SinkHeat, cfg.SinkThickness, area) + cAmb)
	}
	for d := west; d <= south; d++ {
		p := &m.pack
		cSp, cHsC, cAmbC := p.cSpPerX, p.cHsCPerX, p.cAmbCPerX
		if d == north || d == south {
			cSp, cHsC, cAmbC = p.cSpPerY, p.cHsCPerY, p.cAmbCPerY
		}
		m.A.Set(m.Peripheral(SpreaderWest+d), cSp)
		m.A.Set(m.Peripheral(SinkInnerWest+d), cHsC + cAmbC)
		m.A.Set(m.Peripheral(SinkWest+d), p.cHsPer + p.cAmbPer)
	}
	m.computeC()
	m.cReady = true
	return nil
}

// computeC C = InvA·B
func (m *Model) computeC() {
	for i := 0; i < m.A.Length(); i++ {
		m.InvA.Set(i, 1.0/m.A.Get(i))
	}
	for i := 0; i < m.Nodes; i++ {
		for j := 0; j < m.Nodes; j++ {
			m.C.Set(i, j, m.InvA.Get(i)*m.B.Get(i, j))
		}
	}
}

// Ready 热阻与热容是否均已计算
func (m *Model) Ready() bool { return m.rReady && m.cReady }

// OnBorder 功能块 i 是否位于芯片的西、东、北、南边界
func (m *Model) OnBorder(i int) [4]bool { return m.border[i] }

// Capacitance 节点热容的副本
func (m *Model) Capacitance() []float64 {
	return m.A.ToDense()
}

// Conductance 电导矩阵 B 按行优先展开的副本
func (m *Model) Conductance() []float64 {
	return m.B.ToDense()
}
