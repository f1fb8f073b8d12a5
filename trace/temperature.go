package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Writer 温度轨迹（.ttrace）写入器，温度以摄氏度输出
type Writer struct {
	w       *bufio.Writer
	columns []int
}

// NewWriter 写入表头，columns 为需要输出的节点编号
func NewWriter(w io.Writer, names []string, columns []int) (*Writer, error) {
	tw := &Writer{w: bufio.NewWriter(w), columns: columns}
	header := make([]string, len(columns))
	for i, c := range columns {
		if c < 0 || c >= len(names) {
			return nil, fmt.Errorf("column %d out of range", c)
		}
		header[i] = names[c]
	}
	tw.w.WriteString(strings.Join(header, "\t"))
	tw.w.WriteByte('\n')
	return tw, nil
}

// Write 写入一行开尔文温度
func (tw *Writer) Write(temps []float64) error {
	for i, c := range tw.columns {
		if i > 0 {
			tw.w.WriteByte('\t')
		}
		tw.w.WriteString(strconv.FormatFloat(ToCelsius(temps[c]), 'f', 2, 64))
	}
	return tw.w.WriteByte('\n')
}

// Flush 刷新缓冲
func (tw *Writer) Flush() error { return tw.w.Flush() }

// ToCelsius 开尔文转摄氏度
func ToCelsius(k float64) float64 { return k - 273.15 }

// WriteSteady 按 "名称<TAB>温度" 写出各节点温度（开尔文）
func WriteSteady(w io.Writer, names []string, temps []float64) error {
	if len(names) != len(temps) {
		return fmt.Errorf("%d names for %d temperatures", len(names), len(temps))
	}
	writer := bufio.NewWriter(w)
	for i, name := range names {
		fmt.Fprintf(writer, "%s\t%.2f\n", name, temps[i])
	}
	return writer.Flush()
}

// ReadSteady 读取稳态温度文件，按 names 的顺序返回温度
func ReadSteady(r io.Reader, names []string) ([]float64, error) {
	values := make(map[string]float64, len(names))
	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"name temperature\"", line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %q", line, fields[1])
		}
		values[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	temps := make([]float64, len(names))
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingUnit, name)
		}
		temps[i] = v
	}
	return temps, nil
}

// LoadSteady 从文件读取稳态温度
func LoadSteady(filename string, names []string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	temps, err := ReadSteady(file, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return temps, nil
}
