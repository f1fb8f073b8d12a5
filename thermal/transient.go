package thermal

import (
	"errors"
	"fmt"
	"math"

	"hotspot"
	"hotspot/mat"
)

// Method 时间积分方法
type Method int

const (
	// BackwardEuler 后向欧拉
	BackwardEuler Method = iota
	// Trapezoidal 梯形法
	Trapezoidal
)

// String 方法名称
func (m Method) String() string {
	switch m {
	case BackwardEuler:
		return "euler"
	case Trapezoidal:
		return "trapezoidal"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod 由名称解析积分方法
func ParseMethod(s string) (Method, error) {
	switch s {
	case "euler", "be":
		return BackwardEuler, nil
	case "trapezoidal", "trap":
		return Trapezoidal, nil
	}
	return 0, fmt.Errorf("unknown integration method %q", s)
}

// ErrTimeStep 时间步长不合法
var ErrTimeStep = errors.New("time step must be positive")

// Observer 每个采样点结束时回调，temps 为绝对温度（只读）
type Observer func(time float64, temps []float64)

// Solver 瞬态求解器
// 热容以伴随电导 A/h 加盖到电导矩阵上：
//
//	后向欧拉: (A/h + B)·x₁ = P + (A/h)·x₀
//	梯形法:   (A/h + B/2)·x₁ = P + (A/h - B/2)·x₀
//
// x 为相对环境的温升
type Solver struct {
	Method  Method
	Ambient float64
	Time    float64

	circuit *hotspot.Circuit
	b       mat.Matrix
	rise    []float64
	rhs     []float64
	next    []float64

	lu     mat.LU
	h      float64 // 已分解矩阵对应的步长
	method Method  // 已分解矩阵对应的积分方法
}

// NewSolver 创建瞬态求解器，初始温度为环境温度
func NewSolver(c *hotspot.Circuit, ambient float64, method Method) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lu, err := mat.NewLU(c.Nodes)
	if err != nil {
		return nil, err
	}
	return &Solver{
		Method:  method,
		Ambient: ambient,
		circuit: c,
		b:       conductance(c),
		rise:    make([]float64, c.Nodes),
		rhs:     make([]float64, c.Nodes),
		next:    make([]float64, c.Nodes),
		lu:      lu,
	}, nil
}

// SetUniform 所有节点设为同一温度
func (s *Solver) SetUniform(temp float64) {
	for i := range s.rise {
		s.rise[i] = temp - s.Ambient
	}
}

// SetTemperatures 设置各节点绝对温度
func (s *Solver) SetTemperatures(temps []float64) error {
	if len(temps) != len(s.rise) {
		return fmt.Errorf("%d temperatures for %d nodes", len(temps), len(s.rise))
	}
	for i, t := range temps {
		s.rise[i] = t - s.Ambient
	}
	return nil
}

// Temperatures 当前各节点绝对温度
func (s *Solver) Temperatures() []float64 {
	temps := make([]float64, len(s.rise))
	for i, x := range s.rise {
		temps[i] = x + s.Ambient
	}
	return temps
}

// factor 按步长 h 与当前积分方法组装并分解伴随矩阵
func (s *Solver) factor(h float64) error {
	if s.h == h && s.method == s.Method {
		return nil
	}
	n := s.circuit.Nodes
	scale := 1.0
	if s.Method == Trapezoidal {
		scale = 0.5
	}
	m := mat.NewDenseMatrix(n, n)
	for i := 0; i < n; i++ {
		cols, values := s.b.GetRow(i)
		for k, j := range cols {
			m.Set(i, j, scale*values[k])
		}
		m.Increment(i, i, s.circuit.Capacitance[i]/h)
	}
	if err := s.lu.Decompose(m); err != nil {
		s.h = 0
		return err
	}
	s.h, s.method = h, s.Method
	return nil
}

// Step 以恒定功耗推进 dt 秒
func (s *Solver) Step(power []float64, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %g", ErrTimeStep, dt)
	}
	p, err := Expand(s.circuit, power)
	if err != nil {
		return err
	}
	if err := s.factor(dt); err != nil {
		return err
	}
	c := s.circuit.Capacitance
	var bx []float64
	if s.Method == Trapezoidal {
		bx = s.b.MatrixVectorMultiply(s.rise)
	}
	for i := range s.rhs {
		s.rhs[i] = p[i] + c[i]/dt*s.rise[i]
		if bx != nil {
			s.rhs[i] -= 0.5 * bx[i]
		}
	}
	if err := s.lu.SolveReuse(s.rhs, s.next); err != nil {
		return err
	}
	s.rise, s.next = s.next, s.rise
	s.Time += dt
	return nil
}

// Run 依次对每一行功耗推进 interval 秒，每个采样点拆分为 steps 个子步
func (s *Solver) Run(power [][]float64, interval float64, steps int, observe Observer) error {
	if steps < 1 {
		steps = 1
	}
	if !(interval > 0) {
		return fmt.Errorf("%w: interval %g", ErrTimeStep, interval)
	}
	h := interval / float64(steps)
	for row, p := range power {
		for k := 0; k < steps; k++ {
			if err := s.Step(p, h); err != nil {
				return fmt.Errorf("sample %d: %w", row, err)
			}
		}
		if observe != nil {
			observe(s.Time, s.Temperatures())
		}
	}
	return nil
}
