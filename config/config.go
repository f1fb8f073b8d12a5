// Package config 热模型配置，兼容 HotSpot 的 "-name value" 配置文件
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// 模型类型
const (
	BlockModel = "block"
	GridModel  = "grid"
)

// ErrInvalid 配置参数不合法
var ErrInvalid = errors.New("invalid thermal configuration")

// Config 热模型配置（单位均为国际单位制，温度为开尔文）
type Config struct {
	// 芯片
	ChipThickness    float64 // t_chip
	ChipConductivity float64 // k_chip
	ChipHeat         float64 // p_chip 体积比热
	ThermalThreshold float64 // thermal_threshold

	// 散热器
	ConvectionCapacitance float64 // c_convec
	ConvectionResistance  float64 // r_convec
	SinkSide              float64 // s_sink
	SinkThickness         float64 // t_sink
	SinkConductivity      float64 // k_sink
	SinkHeat              float64 // p_sink

	// 均热板
	SpreaderSide         float64 // s_spreader
	SpreaderThickness    float64 // t_spreader
	SpreaderConductivity float64 // k_spreader
	SpreaderHeat         float64 // p_spreader

	// 界面材料
	InterfaceThickness    float64 // t_interface
	InterfaceConductivity float64 // k_interface
	InterfaceHeat         float64 // p_interface

	// 仿真
	Ambient          float64 // ambient
	InitFile         string  // init_file
	InitTemp         float64 // init_temp
	SteadyFile       string  // steady_file
	SamplingInterval float64 // sampling_intvl
	BaseFrequency    float64 // base_proc_freq
	DTMUsed          bool    // dtm_used

	// 模型
	ModelType        string // model_type
	BlockOmitLateral bool   // block_omit_lateral
	GridRows         int    // grid_rows
	GridCols         int    // grid_cols
	GridLayerFile    string // grid_layer_file
	GridSteadyFile   string // grid_steady_file
	GridMapMode      string // grid_map_mode
}

// Default 默认配置
func Default() *Config {
	return &Config{
		ChipThickness:    0.15e-3,
		ChipConductivity: 100.0,
		ChipHeat:         1.75e6,
		ThermalThreshold: 354.95,

		ConvectionCapacitance: 140.4,
		ConvectionResistance:  0.1,
		SinkSide:              60e-3,
		SinkThickness:         6.9e-3,
		SinkConductivity:      400.0,
		SinkHeat:              3.55e6,

		SpreaderSide:         30e-3,
		SpreaderThickness:    1e-3,
		SpreaderConductivity: 400.0,
		SpreaderHeat:         3.55e6,

		InterfaceThickness:    20e-6,
		InterfaceConductivity: 4.0,
		InterfaceHeat:         4.0e6,

		Ambient:          318.15,
		InitTemp:         333.15,
		SamplingInterval: 3.333e-6,
		BaseFrequency:    3e9,

		ModelType:   BlockModel,
		GridRows:    64,
		GridCols:    64,
		GridMapMode: "avg",
	}
}

// field 配置项与结构体字段的对应关系
type field struct {
	name string
	ptr  any // *float64 | *int | *bool | *string
}

func (c *Config) fields() []field {
	return []field{
		{"t_chip", &c.ChipThickness},
		{"k_chip", &c.ChipConductivity},
		{"p_chip", &c.ChipHeat},
		{"thermal_threshold", &c.ThermalThreshold},
		{"c_convec", &c.ConvectionCapacitance},
		{"r_convec", &c.ConvectionResistance},
		{"s_sink", &c.SinkSide},
		{"t_sink", &c.SinkThickness},
		{"k_sink", &c.SinkConductivity},
		{"p_sink", &c.SinkHeat},
		{"s_spreader", &c.SpreaderSide},
		{"t_spreader", &c.SpreaderThickness},
		{"k_spreader", &c.SpreaderConductivity},
		{"p_spreader", &c.SpreaderHeat},
		{"t_interface", &c.InterfaceThickness},
		{"k_interface", &c.InterfaceConductivity},
		{"p_interface", &c.InterfaceHeat},
		{"ambient", &c.Ambient},
		{"init_file", &c.InitFile},
		{"init_temp", &c.InitTemp},
		{"steady_file", &c.SteadyFile},
		{"sampling_intvl", &c.SamplingInterval},
		{"base_proc_freq", &c.BaseFrequency},
		{"dtm_used", &c.DTMUsed},
		{"model_type", &c.ModelType},
		{"block_omit_lateral", &c.BlockOmitLateral},
		{"grid_rows", &c.GridRows},
		{"grid_cols", &c.GridCols},
		{"grid_layer_file", &c.GridLayerFile},
		{"grid_steady_file", &c.GridSteadyFile},
		{"grid_map_mode", &c.GridMapMode},
	}
}

// "(null)" 表示未设置的文件名
const null = "(null)"

func (f field) set(value string) error {
	switch p := f.ptr.(type) {
	case *float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s: invalid number %q", ErrInvalid, f.name, value)
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", f.name, value)
		}
		*p = v
	case *bool:
		v, err := strconv.Atoi(value)
		if err != nil || (v != 0 && v != 1) {
			return fmt.Errorf("%s: expected 0 or 1, got %q", f.name, value)
		}
		*p = v == 1
	case *string:
		if value == null {
			value = ""
		}
		*p = value
	}
	return nil
}

func (f field) String() string {
	switch p := f.ptr.(type) {
	case *float64:
		return strconv.FormatFloat(*p, 'g', -1, 64)
	case *int:
		return strconv.Itoa(*p)
	case *bool:
		if *p {
			return "1"
		}
		return "0"
	case *string:
		if *p == "" {
			return null
		}
		return *p
	}
	return ""
}

// Apply 将配置项叠加到当前配置，返回无法识别的名称
func (c *Config) Apply(pairs []Pair) (unused []string, err error) {
	fields := c.fields()
	index := make(map[string]field, len(fields))
	for _, f := range fields {
		index[f.name] = f
	}
	for _, p := range pairs {
		f, ok := index[p.Name]
		if !ok {
			unused = append(unused, p.Name)
			continue
		}
		if err := f.set(p.Value); err != nil {
			return unused, err
		}
	}
	return unused, nil
}

// Pairs 导出全部配置项
func (c *Config) Pairs() []Pair {
	fields := c.fields()
	pairs := make([]Pair, len(fields))
	for i, f := range fields {
		pairs[i] = Pair{Name: f.name, Value: f.String()}
	}
	return pairs
}

// Get 按名称读取配置项的文本值
func (c *Config) Get(name string) (string, bool) {
	for _, f := range c.fields() {
		if f.name == name {
			return f.String(), true
		}
	}
	return "", false
}

// Write 按配置文件格式导出
func (c *Config) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	for _, p := range c.Pairs() {
		fmt.Fprintf(writer, "-%s\t%s\n", p.Name, p.Value)
	}
	return writer.Flush()
}

// ApplyEnv 使用 HOTSPOT_<NAME> 环境变量覆盖配置
func (c *Config) ApplyEnv() error {
	var pairs []Pair
	for _, f := range c.fields() {
		if v, ok := os.LookupEnv("HOTSPOT_" + strings.ToUpper(f.name)); ok {
			pairs = append(pairs, Pair{Name: f.name, Value: v})
		}
	}
	_, err := c.Apply(pairs)
	return err
}

// Load 读取配置文件并叠加到默认配置上，空文件名返回默认配置
func Load(filename string) (*Config, error) {
	c := Default()
	if filename == "" {
		return c, nil
	}
	pairs, err := LoadPairs(filename)
	if err != nil {
		return nil, err
	}
	if _, err := c.Apply(pairs); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// Validate 检查配置参数
func (c *Config) Validate() error {
	switch {
	case c.ChipThickness <= 0 || c.SinkSide <= 0 || c.SinkThickness <= 0 ||
		c.SpreaderSide <= 0 || c.SpreaderThickness <= 0 || c.InterfaceThickness <= 0:
		return fmt.Errorf("%w: chip and package dimensions should be greater than zero", ErrInvalid)
	case c.ChipConductivity <= 0 || c.SinkConductivity <= 0 ||
		c.SpreaderConductivity <= 0 || c.InterfaceConductivity <= 0:
		return fmt.Errorf("%w: conductivity should be greater than zero", ErrInvalid)
	case c.ChipHeat <= 0 || c.SinkHeat <= 0 || c.SpreaderHeat <= 0 || c.InterfaceHeat <= 0:
		return fmt.Errorf("%w: specific heat should be greater than zero", ErrInvalid)
	case c.ConvectionResistance < 0 || c.ConvectionCapacitance < 0:
		return fmt.Errorf("%w: convection resistance and capacitance should not be negative", ErrInvalid)
	case c.SinkSide < c.SpreaderSide:
		return fmt.Errorf("%w: heatsink should be larger than heat spreader", ErrInvalid)
	case c.Ambient <= 0:
		return fmt.Errorf("%w: ambient temperature should be greater than zero (kelvin)", ErrInvalid)
	case c.InitTemp <= 0:
		return fmt.Errorf("%w: initial temperature should be greater than zero (kelvin)", ErrInvalid)
	case c.SamplingInterval <= 0:
		return fmt.Errorf("%w: sampling interval should be greater than zero", ErrInvalid)
	case c.BaseFrequency <= 0:
		return fmt.Errorf("%w: base processor frequency should be greater than zero", ErrInvalid)
	case !powerOfTwo(c.GridRows) || !powerOfTwo(c.GridCols):
		return fmt.Errorf("%w: grid rows and columns should be powers of two", ErrInvalid)
	}
	switch strings.ToLower(c.ModelType) {
	case BlockModel, GridModel:
	default:
		return fmt.Errorf("%w: model type %q, use %q or %q", ErrInvalid, c.ModelType, BlockModel, GridModel)
	}
	switch c.GridMapMode {
	case "avg", "min", "max", "center":
	default:
		return fmt.Errorf("%w: grid map mode %q", ErrInvalid, c.GridMapMode)
	}
	return nil
}

func powerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// IsBlock 是否为块模型
func (c *Config) IsBlock() bool { return strings.EqualFold(c.ModelType, BlockModel) }
