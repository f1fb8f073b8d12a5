// Package report 记录瞬态温度并生成图表
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record 记录历史温度
type Record struct {
	Names        []string    // 记录的节点名称
	Columns      []int       // 记录的节点编号
	Time         []float64   // 时间列
	Temperatures [][]float64 // 温度列（开尔文）
}

// NewRecord 记录 columns 指定的节点，columns 为空时记录全部节点
func NewRecord(names []string, columns []int) (*Record, error) {
	if len(columns) == 0 {
		columns = make([]int, len(names))
		for i := range columns {
			columns[i] = i
		}
	}
	list := &Record{Columns: columns, Names: make([]string, len(columns))}
	for i, c := range columns {
		if c < 0 || c >= len(names) {
			return nil, fmt.Errorf("column %d out of range", c)
		}
		list.Names[i] = names[c]
	}
	return list, nil
}

// Update 记录数据
func (list *Record) Update(time float64, temps []float64) {
	row := make([]float64, len(list.Columns))
	for i, c := range list.Columns {
		row[i] = temps[c]
	}
	list.Time = append(list.Time, time)
	list.Temperatures = append(list.Temperatures, row)
}

// Len 记录的采样点数
func (list *Record) Len() int { return len(list.Time) }

// Series 第 i 个记录节点的温度序列
func (list *Record) Series(i int) []float64 {
	s := make([]float64, len(list.Temperatures))
	for t, row := range list.Temperatures {
		s[t] = row[i]
	}
	return s
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }
