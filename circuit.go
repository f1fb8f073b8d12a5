// Package hotspot 由芯片平面布局与配置文件构建等效热电路
//
// 热电路包含每个节点的热容与节点间的电导矩阵，满足
// diag(Capacitance)·dT/dt + Conductance·T = P，
// 其中 T 为节点相对环境的温升。
package hotspot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"hotspot/block"
	"hotspot/config"
	"hotspot/floorplan"
)

var (
	// ErrFloorplanNotFound 布局文件不存在
	ErrFloorplanNotFound = errors.New("the floorplan file does not exist")
	// ErrConfigNotFound 配置文件不存在
	ErrConfigNotFound = errors.New("the configuration file does not exist")
	// ErrUnsupportedModel 仅支持块模型
	ErrUnsupportedModel = block.ErrUnsupportedModel
	// ErrInconsistent 节点数与数组长度不一致
	ErrInconsistent = errors.New("inconsistent thermal circuit dimensions")
)

// Circuit 等效热电路
type Circuit struct {
	// Cores 功能块数量
	Cores int `json:"cores"`
	// Nodes 热节点数量
	Nodes int `json:"nodes"`
	// Capacitance 每个节点的热容，长度为 Nodes
	Capacitance []float64 `json:"capacitance"`
	// Conductance Nodes×Nodes 电导矩阵，按行优先展开
	Conductance []float64 `json:"conductance"`
}

// New 由布局文件与配置文件构建热电路，配置文件名为空时使用默认配置
func New(floorplanFile, configFile string) (*Circuit, error) {
	if _, err := os.Stat(floorplanFile); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFloorplanNotFound, floorplanFile)
	}
	cfg := config.Default()
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configFile)
		}
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	flp, err := floorplan.Load(floorplanFile)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(flp, cfg)
}

// NewWithConfig 由内存中的布局与配置构建热电路
func NewWithConfig(flp *floorplan.Floorplan, cfg *config.Config) (*Circuit, error) {
	model, err := Model(flp, cfg)
	if err != nil {
		return nil, err
	}
	return FromModel(model)
}

// Model 构建并计算块模型
func Model(flp *floorplan.Floorplan, cfg *config.Config) (*block.Model, error) {
	if err := flp.Validate(); err != nil {
		return nil, err
	}
	model, err := block.New(cfg, flp)
	if err != nil {
		return nil, err
	}
	if err := model.PopulateR(); err != nil {
		return nil, err
	}
	if err := model.PopulateC(); err != nil {
		return nil, err
	}
	return model, nil
}

// FromModel 复制已计算的块模型
func FromModel(model *block.Model) (*Circuit, error) {
	if !model.Ready() {
		return nil, block.ErrNotPopulated
	}
	c := &Circuit{
		Cores:       model.N,
		Nodes:       model.Nodes,
		Capacitance: model.Capacitance(),
		Conductance: model.Conductance(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 检查数组长度与节点数一致
func (c *Circuit) Validate() error {
	switch {
	case c.Nodes <= 0 || c.Cores <= 0 || c.Cores > c.Nodes:
		return fmt.Errorf("%w: %d cores, %d nodes", ErrInconsistent, c.Cores, c.Nodes)
	case len(c.Capacitance) != c.Nodes:
		return fmt.Errorf("%w: %d capacitances for %d nodes", ErrInconsistent, len(c.Capacitance), c.Nodes)
	case len(c.Conductance) != c.Nodes*c.Nodes:
		return fmt.Errorf("%w: %d conductances for %d nodes", ErrInconsistent, len(c.Conductance), c.Nodes)
	}
	return nil
}

// At 电导矩阵第 i 行第 j 列
func (c *Circuit) At(i, j int) float64 {
	if i < 0 || i >= c.Nodes || j < 0 || j >= c.Nodes {
		panic(fmt.Sprintf("conductance index out of range: (%d, %d) with %d nodes", i, j, c.Nodes))
	}
	return c.Conductance[i*c.Nodes+j]
}

// ConductanceMatrix 电导矩阵的对称矩阵副本（取上三角）
func (c *Circuit) ConductanceMatrix() *mat.SymDense {
	return mat.NewSymDense(c.Nodes, append([]float64(nil), c.Conductance...))
}

// CapacitanceVector 热容向量副本
func (c *Circuit) CapacitanceVector() *mat.VecDense {
	return mat.NewVecDense(c.Nodes, append([]float64(nil), c.Capacitance...))
}

// Export 以 JSON 导出
func (c *Circuit) Export(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

// Load 读取 Export 导出的热电路
func Load(r io.Reader) (*Circuit, error) {
	var c Circuit
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
