package block

import "fmt"

// Layer 热模型中的层
type Layer int

const (
	Silicon   Layer = iota // 硅片
	Interface              // 界面材料
	Spreader               // 均热板
	Sink                   // 散热器
	// NL 层数
	NL
)

var layerPrefix = [NL]string{"", "iface_", "hsp_", "hsink_"}

// String 层名称
func (l Layer) String() string {
	switch l {
	case Silicon:
		return "silicon"
	case Interface:
		return "interface"
	case Spreader:
		return "spreader"
	case Sink:
		return "sink"
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// 外围节点（位于 NL*n 之后）
const (
	SpreaderWest = iota
	SpreaderEast
	SpreaderNorth
	SpreaderSouth
	SinkInnerWest
	SinkInnerEast
	SinkInnerNorth
	SinkInnerSouth
	SinkWest
	SinkEast
	SinkNorth
	SinkSouth
	// Extra 外围节点数量
	Extra
)

var extraNames = [Extra]string{
	"hsp_west", "hsp_east", "hsp_north", "hsp_south",
	"hsink_inner_west", "hsink_inner_east", "hsink_inner_north", "hsink_inner_south",
	"hsink_west", "hsink_east", "hsink_north", "hsink_south",
}

// 方向：功能块位于芯片的哪条边界上
const (
	west = iota
	east
	north
	south
)

// NodeCount n 个功能块对应的节点数
func NodeCount(n int) int { return int(NL)*n + Extra }

// Index 第 layer 层第 unit 个功能块的节点编号
func (m *Model) Index(layer Layer, unit int) int {
	if layer < 0 || layer >= NL || unit < 0 || unit >= m.N {
		panic(fmt.Sprintf("node out of range: layer=%v unit=%d", layer, unit))
	}
	return int(layer)*m.N + unit
}

// Peripheral 外围节点编号
func (m *Model) Peripheral(k int) int {
	if k < 0 || k >= Extra {
		panic(fmt.Sprintf("peripheral node out of range: %d", k))
	}
	return int(NL)*m.N + k
}

// NodeName 节点名称
// 功能块节点以层前缀加块名命名，外围节点使用固定名称
func (m *Model) NodeName(i int) string {
	if i < 0 || i >= m.Nodes {
		panic(fmt.Sprintf("node out of range: %d", i))
	}
	if i < int(NL)*m.N {
		return layerPrefix[i/m.N] + m.Floorplan.Units[i%m.N].Name
	}
	return extraNames[i-int(NL)*m.N]
}

// NodeNames 全部节点名称
func (m *Model) NodeNames() []string {
	names := make([]string, m.Nodes)
	for i := range names {
		names[i] = m.NodeName(i)
	}
	return names
}
