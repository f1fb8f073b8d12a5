// Package floorplan 读取芯片平面布局（.flp）并提供块之间的几何关系
package floorplan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Delta 坐标比较容差（米）
const Delta = 1e-6

var (
	// ErrEmpty 布局中没有任何功能块
	ErrEmpty = errors.New("floorplan has no units")
	// ErrOverlap 功能块相互重叠
	ErrOverlap = errors.New("floorplan units overlap")
)

// Eq 在容差 Delta 范围内比较两个坐标
func Eq[T constraints.Float](x, y T) bool {
	return math.Abs(float64(x-y)) < Delta
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Unit 功能块
type Unit struct {
	Name    string
	Width   float64 // x 方向尺寸
	Height  float64 // y 方向尺寸
	LeftX   float64
	BottomY float64
	// 可选的硅层材料参数，覆盖配置中的 p_chip / k_chip
	SpecificHeat    float64 // 体积比热 J/(m^3·K)
	Resistivity     float64 // 热阻率 (m·K)/W
	HasSpecificHeat bool
	HasResistivity  bool
}

// Area 面积
func (u *Unit) Area() float64 { return u.Width * u.Height }

// RightX 右边界
func (u *Unit) RightX() float64 { return u.LeftX + u.Width }

// TopY 上边界
func (u *Unit) TopY() float64 { return u.BottomY + u.Height }

// Floorplan 芯片平面布局
type Floorplan struct {
	Units []Unit
	index map[string]int
}

// New 由功能块列表创建布局，原点平移到 (0,0)
func New(units []Unit) (*Floorplan, error) {
	if len(units) == 0 {
		return nil, ErrEmpty
	}
	flp := &Floorplan{
		Units: append([]Unit(nil), units...),
		index: make(map[string]int, len(units)),
	}
	for i := range flp.Units {
		u := &flp.Units[i]
		if !finite(u.Width, u.Height, u.LeftX, u.BottomY, u.SpecificHeat, u.Resistivity) {
			return nil, fmt.Errorf("unit %q: non-finite dimension", u.Name)
		}
		if u.Width <= 0 || u.Height <= 0 {
			return nil, fmt.Errorf("unit %q: width and height must be positive", u.Name)
		}
		if _, ok := flp.index[u.Name]; ok {
			return nil, fmt.Errorf("duplicate unit name %q", u.Name)
		}
		flp.index[u.Name] = i
	}
	flp.translate()
	return flp, nil
}

// Load 从文件读取布局
func Load(filename string) (*Floorplan, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	flp, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return flp, nil
}

// Parse 解析布局文本
// 每行格式: <name> <width> <height> <left-x> <bottom-y> [<specific-heat> <resistivity>]
func Parse(r io.Reader) (*Floorplan, error) {
	var units []Unit
	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 5 && len(fields) != 7 {
			return nil, fmt.Errorf("line %d: expected 5 or 7 fields, got %d", line, len(fields))
		}
		values := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: invalid number %q", line, f)
			}
			values[i] = v
		}
		u := Unit{
			Name:    fields[0],
			Width:   values[0],
			Height:  values[1],
			LeftX:   values[2],
			BottomY: values[3],
		}
		if len(values) == 6 {
			u.SpecificHeat, u.HasSpecificHeat = values[4], true
			u.Resistivity, u.HasResistivity = values[5], true
			if u.SpecificHeat <= 0 || u.Resistivity <= 0 {
				return nil, fmt.Errorf("line %d: specific heat and resistivity must be positive", line)
			}
		}
		if u.Width <= 0 || u.Height <= 0 {
			return nil, fmt.Errorf("line %d: width and height must be positive", line)
		}
		for _, o := range units {
			if o.Name == u.Name {
				return nil, fmt.Errorf("line %d: duplicate unit name %q", line, u.Name)
			}
		}
		units = append(units, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(units)
}

// Write 按 .flp 格式导出
func (flp *Floorplan) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	fmt.Fprintln(writer, "# <unit-name>\t<width>\t<height>\t<left-x>\t<bottom-y>")
	for _, u := range flp.Units {
		fmt.Fprintf(writer, "%s\t%.6g\t%.6g\t%.6g\t%.6g", u.Name, u.Width, u.Height, u.LeftX, u.BottomY)
		if u.HasSpecificHeat || u.HasResistivity {
			fmt.Fprintf(writer, "\t%.6g\t%.6g", u.SpecificHeat, u.Resistivity)
		}
		writer.WriteByte('\n')
	}
	return writer.Flush()
}

// translate 将最小 left-x 与最小 bottom-y 平移到原点
func (flp *Floorplan) translate() {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, u := range flp.Units {
		minX = math.Min(minX, u.LeftX)
		minY = math.Min(minY, u.BottomY)
	}
	for i := range flp.Units {
		flp.Units[i].LeftX -= minX
		flp.Units[i].BottomY -= minY
	}
}

// Len 功能块数量
func (flp *Floorplan) Len() int { return len(flp.Units) }

// Index 按名称查找功能块下标
func (flp *Floorplan) Index(name string) (int, bool) {
	i, ok := flp.index[name]
	return i, ok
}

// Names 功能块名称列表
func (flp *Floorplan) Names() []string {
	names := make([]string, len(flp.Units))
	for i, u := range flp.Units {
		names[i] = u.Name
	}
	return names
}
