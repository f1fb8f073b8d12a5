package mat

import "fmt"

// denseMatrix 稠密矩阵数据结构
type denseMatrix struct {
	rows, cols int
	data       [][]float64 // 二维数组存储所有元素
}

// NewDenseMatrix 创建新的稠密矩阵
func NewDenseMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return &denseMatrix{
		rows: rows,
		cols: cols,
		data: data,
	}
}

// NewDenseMatrixFromSlice 由行优先一维切片构建 rows×cols 矩阵
func NewDenseMatrixFromSlice(rows, cols int, flat []float64) Matrix {
	if len(flat) != rows*cols {
		panic(fmt.Sprintf("dimension mismatch: %d values for %dx%d", len(flat), rows, cols))
	}
	m := NewDenseMatrix(rows, cols).(*denseMatrix)
	for i := 0; i < rows; i++ {
		copy(m.data[i], flat[i*cols:(i+1)*cols])
	}
	return m
}

func (m *denseMatrix) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
}

// Set 设置矩阵元素
func (m *denseMatrix) Set(row, col int, value float64) {
	m.check(row, col)
	m.data[row][col] = value
}

// Increment 增量设置矩阵元素（累加值）
func (m *denseMatrix) Increment(row, col int, value float64) {
	m.check(row, col)
	m.data[row][col] += value
}

// Get 获取矩阵元素
func (m *denseMatrix) Get(row, col int) float64 {
	m.check(row, col)
	return m.data[row][col]
}

// Rows 返回行数
func (m *denseMatrix) Rows() int { return m.rows }

// Cols 返回列数
func (m *denseMatrix) Cols() int { return m.cols }

// Copy 复制矩阵
func (m *denseMatrix) Copy(a Matrix) {
	switch dm := a.(type) {
	case *denseMatrix:
		dm.rows, dm.cols = m.rows, m.cols
		dm.data = make([][]float64, m.rows)
		for i := range m.data {
			dm.data[i] = make([]float64, m.cols)
			copy(dm.data[i], m.data[i])
		}
	default:
		if a.Rows() != m.rows || a.Cols() != m.cols {
			panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
		}
		a.Clear()
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				if value := m.data[i][j]; value != 0 {
					a.Set(i, j, value)
				}
			}
		}
	}
}

// GetRow 获取指定行的非零元素
func (m *denseMatrix) GetRow(row int) ([]int, []float64) {
	if row < 0 || row >= m.rows {
		panic("row index out of range")
	}
	cols := make([]int, 0, m.cols)
	values := make([]float64, 0, m.cols)
	for j, v := range m.data[row] {
		if v != 0 {
			cols = append(cols, j)
			values = append(values, v)
		}
	}
	return cols, values
}

// MatrixVectorMultiply 执行矩阵向量乘法
func (m *denseMatrix) MatrixVectorMultiply(x []float64) []float64 {
	if len(x) != m.cols {
		panic("vector dimension mismatch")
	}
	result := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result[i] += m.data[i][j] * x[j]
		}
	}
	return result
}

// Clear 将矩阵重置为零矩阵
func (m *denseMatrix) Clear() {
	for i := range m.data {
		clear(m.data[i])
	}
}

// ToDense 按行优先展开
func (m *denseMatrix) ToDense() []float64 {
	result := make([]float64, 0, m.rows*m.cols)
	for i := range m.data {
		result = append(result, m.data[i]...)
	}
	return result
}
