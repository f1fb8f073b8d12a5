package mat

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon 主元判零阈值
const Epsilon = 1e-16

// ErrSingular 矩阵奇异或接近奇异
var ErrSingular = errors.New("matrix is singular or nearly singular")

// lu 稠密LU分解
// PA = LU，L 为单位下三角矩阵，U 为上三角矩阵
type lu struct {
	n        int    // 矩阵维度
	L        Matrix // 下三角矩阵，对角线元素为1
	U        Matrix // 上三角矩阵
	P        []int  // 置换向量，P[i]表示第i行原始位置
	Pinverse []int  // 逆置换向量
	pb, y    []float64
}

// NewLU 创建 n 维LU分解器
func NewLU(n int) (LU, error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	return &lu{
		n:        n,
		L:        NewDenseMatrix(n, n),
		U:        NewDenseMatrix(n, n),
		P:        make([]int, n),
		Pinverse: make([]int, n),
		pb:       make([]float64, n),
		y:        make([]float64, n),
	}, nil
}

// Decompose 执行LU分解
// 算法步骤：
// 1. 复制原始矩阵到U矩阵
// 2. 初始化置换向量
// 3. 对每个列进行部分主元选择
// 4. 执行高斯消元，更新L和U矩阵
func (lu *lu) Decompose(matrix Matrix) error {
	n := lu.n
	if matrix.Rows() != n || matrix.Cols() != n {
		return fmt.Errorf("matrix dimension mismatch: %dx%d, expected %dx%d", matrix.Rows(), matrix.Cols(), n, n)
	}
	matrix.Copy(lu.U)
	lu.L.Clear()
	for i := 0; i < n; i++ {
		lu.P[i] = i
		lu.Pinverse[i] = i
	}
	for k := 0; k < n; k++ {
		// 寻找主元
		maxRow := k
		maxVal := math.Abs(lu.U.Get(lu.P[k], k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(lu.U.Get(lu.P[i], k)); v > maxVal {
				maxVal = v
				maxRow = i
			}
		}
		if maxVal < Epsilon {
			return fmt.Errorf("pivot %d: %w", k, ErrSingular)
		}
		if maxRow != k {
			lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
			lu.Pinverse[lu.P[k]] = k
			lu.Pinverse[lu.P[maxRow]] = maxRow
			// L 按消元位置存储，已求出的乘子随行交换
			for j := 0; j < k; j++ {
				lk, lm := lu.L.Get(k, j), lu.L.Get(maxRow, j)
				lu.L.Set(k, j, lm)
				lu.L.Set(maxRow, j, lk)
			}
		}
		lu.L.Set(k, k, 1.0)
		pivotRow := lu.P[k]
		pivot := lu.U.Get(pivotRow, k)
		for i := k + 1; i < n; i++ {
			row := lu.P[i]
			factor := lu.U.Get(row, k) / pivot
			lu.L.Set(i, k, factor)
			if factor == 0 {
				continue
			}
			for j := k; j < n; j++ {
				lu.U.Set(row, j, lu.U.Get(row, j)-factor*lu.U.Get(pivotRow, j))
			}
		}
	}
	return nil
}

// SolveReuse 解线性方程组 Ax = b
// 1. 前向替换：求解 Ly = Pb
// 2. 后向替换：求解 Ux = y
func (lu *lu) SolveReuse(b, x []float64) error {
	if len(b) != lu.n || len(x) != lu.n {
		return fmt.Errorf("vector dimension mismatch")
	}
	for i := 0; i < lu.n; i++ {
		lu.pb[i] = b[lu.P[i]]
	}
	for i := 0; i < lu.n; i++ {
		sum := lu.pb[i]
		for j := 0; j < i; j++ {
			sum -= lu.L.Get(i, j) * lu.y[j]
		}
		lu.y[i] = sum
	}
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.y[i]
		uRow := lu.P[i]
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.U.Get(uRow, j) * x[j]
		}
		x[i] = sum / lu.U.Get(uRow, i)
	}
	return nil
}
