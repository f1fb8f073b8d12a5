// Package thermal 在热电路上计算稳态与瞬态温度
package thermal

import (
	"errors"
	"fmt"

	"hotspot"
	"hotspot/mat"
)

// ErrPowerLength 功耗向量长度与热电路不匹配
var ErrPowerLength = errors.New("power vector length mismatch")

// Expand 将功能块功耗扩展为全部节点的功耗，非硅片节点为零
// power 的长度可以是 Cores 或 Nodes
func Expand(c *hotspot.Circuit, power []float64) ([]float64, error) {
	switch len(power) {
	case c.Nodes:
		return append([]float64(nil), power...), nil
	case c.Cores:
		p := make([]float64, c.Nodes)
		copy(p, power)
		return p, nil
	}
	return nil, fmt.Errorf("%w: %d values for %d cores and %d nodes", ErrPowerLength, len(power), c.Cores, c.Nodes)
}

// conductance 电导矩阵
func conductance(c *hotspot.Circuit) mat.Matrix {
	return mat.NewDenseMatrixFromSlice(c.Nodes, c.Nodes, c.Conductance)
}

// Steady 稳态温度：求解 B·ΔT = P，返回 ΔT + ambient（开尔文）
func Steady(c *hotspot.Circuit, power []float64, ambient float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := Expand(c, power)
	if err != nil {
		return nil, err
	}
	lu, err := mat.NewLU(c.Nodes)
	if err != nil {
		return nil, err
	}
	if err := lu.Decompose(conductance(c)); err != nil {
		return nil, fmt.Errorf("steady state: %w", err)
	}
	temps := make([]float64, c.Nodes)
	if err := lu.SolveReuse(p, temps); err != nil {
		return nil, err
	}
	for i := range temps {
		temps[i] += ambient
	}
	return temps, nil
}

// Max 返回最高温度及其节点编号
func Max(temps []float64) (int, float64) {
	idx := -1
	var peak float64
	for i, t := range temps {
		if idx < 0 || t > peak {
			idx, peak = i, t
		}
	}
	return idx, peak
}
