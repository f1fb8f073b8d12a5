package floorplan

import (
	"fmt"
	"math"
)

// TotalWidth 芯片总宽度（x 方向）
func (flp *Floorplan) TotalWidth() float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, u := range flp.Units {
		minX = math.Min(minX, u.LeftX)
		maxX = math.Max(maxX, u.RightX())
	}
	return maxX - minX
}

// TotalHeight 芯片总高度（y 方向）
func (flp *Floorplan) TotalHeight() float64 {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, u := range flp.Units {
		minY = math.Min(minY, u.BottomY)
		maxY = math.Max(maxY, u.TopY())
	}
	return maxY - minY
}

// Area 功能块面积之和
func (flp *Floorplan) Area() float64 {
	sum := 0.0
	for i := range flp.Units {
		sum += flp.Units[i].Area()
	}
	return sum
}

// IsHorizAdj 判断 i 与 j 是否左右相邻（共享一条竖直边）
// 仅角点接触不算相邻
func (flp *Floorplan) IsHorizAdj(i, j int) bool {
	if i == j {
		return false
	}
	a, b := &flp.Units[i], &flp.Units[j]
	x1, x2, x3, x4 := a.LeftX, a.RightX(), b.LeftX, b.RightX()
	y1, y2, y3, y4 := a.BottomY, a.TopY(), b.BottomY, b.TopY()

	if (Eq(x2, x3) || Eq(x1, x4)) && (Eq(y2, y3) || Eq(y1, y4)) {
		return false
	}
	if Eq(x1, x4) || Eq(x2, x3) {
		return overlaps(y1, y2, y3, y4)
	}
	return false
}

// IsVertAdj 判断 i 与 j 是否上下相邻（共享一条水平边）
func (flp *Floorplan) IsVertAdj(i, j int) bool {
	if i == j {
		return false
	}
	a, b := &flp.Units[i], &flp.Units[j]
	x1, x2, x3, x4 := a.LeftX, a.RightX(), b.LeftX, b.RightX()
	y1, y2, y3, y4 := a.BottomY, a.TopY(), b.BottomY, b.TopY()

	if (Eq(x2, x3) || Eq(x1, x4)) && (Eq(y2, y3) || Eq(y1, y4)) {
		return false
	}
	if Eq(y1, y4) || Eq(y2, y3) {
		return overlaps(x1, x2, x3, x4)
	}
	return false
}

// overlaps 区间 [a1,a2] 与 [b1,b2] 是否有交集
func overlaps(a1, a2, b1, b2 float64) bool {
	return (b1 >= a1 && b1 <= a2) || (b2 >= a1 && b2 <= a2) ||
		(a1 >= b1 && a1 <= b2) || (a2 >= b1 && a2 <= b2)
}

// SharedLength 相邻功能块共享边长度，不相邻时为 0
func (flp *Floorplan) SharedLength(i, j int) float64 {
	if i == j {
		return 0
	}
	a, b := &flp.Units[i], &flp.Units[j]
	var p11, p12, p21, p22 float64
	switch {
	case flp.IsHorizAdj(i, j):
		p11, p12 = a.BottomY, a.TopY()
		p21, p22 = b.BottomY, b.TopY()
	case flp.IsVertAdj(i, j):
		p11, p12 = a.LeftX, a.RightX()
		p21, p22 = b.LeftX, b.RightX()
	default:
		return 0
	}
	return math.Min(p12, p22) - math.Max(p11, p21)
}

// Overlaps 返回内部相互重叠的功能块对
func (flp *Floorplan) Overlaps() [][2]int {
	var pairs [][2]int
	for i := range flp.Units {
		for j := i + 1; j < len(flp.Units); j++ {
			a, b := &flp.Units[i], &flp.Units[j]
			dx := math.Min(a.RightX(), b.RightX()) - math.Max(a.LeftX, b.LeftX)
			dy := math.Min(a.TopY(), b.TopY()) - math.Max(a.BottomY, b.BottomY)
			if dx > Delta && dy > Delta {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Validate 检查布局中没有重叠的功能块
func (flp *Floorplan) Validate() error {
	if len(flp.Units) == 0 {
		return ErrEmpty
	}
	if pairs := flp.Overlaps(); len(pairs) > 0 {
		p := pairs[0]
		return fmt.Errorf("%w: %q and %q", ErrOverlap, flp.Units[p[0]].Name, flp.Units[p[1]].Name)
	}
	return nil
}
