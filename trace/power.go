// Package trace 读写功耗轨迹、温度轨迹与稳态温度文件
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hotspot/floorplan"
)

// ErrMissingUnit 轨迹中缺少布局中的功能块
var ErrMissingUnit = errors.New("unit missing from trace")

// Power 功耗轨迹，首行为功能块名称，其后每行为一个采样点的功耗（瓦）
type Power struct {
	Names   []string
	Samples [][]float64
}

// ReadPower 读取 .ptrace
func ReadPower(r io.Reader) (*Power, error) {
	p := &Power{}
	line := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if p.Names == nil {
			seen := make(map[string]bool, len(fields))
			for _, name := range fields {
				if seen[name] {
					return nil, fmt.Errorf("line %d: duplicate unit %q", line, name)
				}
				seen[name] = true
			}
			p.Names = fields
			continue
		}
		if len(fields) != len(p.Names) {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", line, len(p.Names), len(fields))
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid number %q", line, f)
			}
			row[i] = v
		}
		p.Samples = append(p.Samples, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if p.Names == nil {
		return nil, errors.New("power trace has no header")
	}
	return p, nil
}

// LoadPower 从文件读取功耗轨迹
func LoadPower(filename string) (*Power, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	p, err := ReadPower(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// Reorder 将各列按布局中功能块的顺序重新排列
// 轨迹中多余的列被忽略
func (p *Power) Reorder(flp *floorplan.Floorplan) (*Power, error) {
	column := make(map[string]int, len(p.Names))
	for i, name := range p.Names {
		column[name] = i
	}
	order := make([]int, flp.Len())
	for i, u := range flp.Units {
		c, ok := column[u.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingUnit, u.Name)
		}
		order[i] = c
	}
	out := &Power{Names: flp.Names(), Samples: make([][]float64, len(p.Samples))}
	for s, row := range p.Samples {
		out.Samples[s] = make([]float64, len(order))
		for i, c := range order {
			out.Samples[s][i] = row[c]
		}
	}
	return out, nil
}

// Average 各列的平均功耗
func (p *Power) Average() []float64 {
	avg := make([]float64, len(p.Names))
	if len(p.Samples) == 0 {
		return avg
	}
	for _, row := range p.Samples {
		for i, v := range row {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(len(p.Samples))
	}
	return avg
}

// Write 按 .ptrace 格式导出
func (p *Power) Write(w io.Writer) error {
	return writeTable(w, p.Names, p.Samples, 6)
}

func writeTable(w io.Writer, names []string, rows [][]float64, prec int) error {
	writer := bufio.NewWriter(w)
	writer.WriteString(strings.Join(names, "\t"))
	writer.WriteByte('\n')
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				writer.WriteByte('\t')
			}
			writer.WriteString(strconv.FormatFloat(v, 'f', prec, 64))
		}
		writer.WriteByte('\n')
	}
	return writer.Flush()
}
