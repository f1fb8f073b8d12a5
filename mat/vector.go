package mat

import "fmt"

// denseVector 稠密向量数据结构
type denseVector struct {
	data []float64
}

// NewDenseVector 创建新的稠密向量
func NewDenseVector(length int) Vector {
	return &denseVector{data: make([]float64, length)}
}

func (v *denseVector) check(index int) {
	if index < 0 || index >= len(v.data) {
		panic(fmt.Sprintf("vector index out of range: %d (length=%d)", index, len(v.data)))
	}
}

// Set 设置向量元素
func (v *denseVector) Set(index int, value float64) {
	v.check(index)
	v.data[index] = value
}

// Get 获取向量元素
func (v *denseVector) Get(index int) float64 {
	v.check(index)
	return v.data[index]
}

// Length 返回向量长度
func (v *denseVector) Length() int { return len(v.data) }

// ToDense 转换为稠密切片
func (v *denseVector) ToDense() []float64 {
	return append([]float64(nil), v.data...)
}
