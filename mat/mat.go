package mat

// Matrix 通用矩阵接口
// 热网络的电导矩阵与求解过程中的伴随矩阵都通过该接口访问
type Matrix interface {
	// Clear 清空矩阵，重置为零矩阵
	Clear()
	// Cols 返回矩阵列数
	Cols() int
	// Copy 复制矩阵内容到另一个矩阵
	Copy(a Matrix)
	// Get 获取指定位置的元素值
	Get(row int, col int) float64
	// GetRow 获取指定行的非零元素
	GetRow(row int) ([]int, []float64)
	// Increment 增量设置矩阵元素（累加值）
	Increment(row int, col int, value float64)
	// MatrixVectorMultiply 执行矩阵向量乘法
	MatrixVectorMultiply(x []float64) []float64
	// Rows 返回矩阵行数
	Rows() int
	// Set 设置矩阵元素值
	Set(row int, col int, value float64)
	// ToDense 按行优先展开为一维切片
	ToDense() []float64
}

// Vector 通用向量接口
type Vector interface {
	// Get 获取指定位置的元素值
	Get(index int) float64
	// Length 返回向量长度
	Length() int
	// Set 设置向量元素值
	Set(index int, value float64)
	// ToDense 转换为稠密切片
	ToDense() []float64
}

// LU 带部分主元的LU分解
type LU interface {
	// Decompose 分解方阵 A，矩阵奇异时返回 ErrSingular
	Decompose(matrix Matrix) error
	// SolveReuse 利用已有分解求解 Ax = b，结果写入 x
	SolveReuse(b []float64, x []float64) error
}
