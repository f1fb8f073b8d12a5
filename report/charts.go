package report

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"hotspot"
)

// 图中节点分类
var categories = []*opts.GraphCategory{
	{Name: "硅片", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
	{Name: "界面材料", ItemStyle: &opts.ItemStyle{Color: "#c78a19b7"}},
	{Name: "均热板", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
	{Name: "散热器", ItemStyle: &opts.ItemStyle{Color: "#19c76ab7"}},
	{Name: "环境", ItemStyle: &opts.ItemStyle{Color: "#000000de"}},
}

const ambientNode = "ambient"

func category(name string) int {
	switch {
	case strings.HasPrefix(name, "iface_"):
		return 1
	case strings.HasPrefix(name, "hsp_"):
		return 2
	case strings.HasPrefix(name, "hsink_"):
		return 3
	}
	return 0
}

// Charts 热网络与温度曲线
type Charts struct {
	Record
	Circuit *hotspot.Circuit
	Nodes   []string // 全部节点名称
}

func legend() charts.GlobalOpts {
	return charts.WithLegendOpts(opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	})
}

// graph 热阻网络图，连线数值为节点间热导（W/K）
func (c *Charts) graph() (*charts.Graph, error) {
	n := c.Circuit.Nodes
	if len(c.Nodes) != n {
		return nil, fmt.Errorf("%d node names for %d nodes", len(c.Nodes), n)
	}
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "热网络",
			Subtitle: "节点热导连接图",
		}),
		legend(),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.3,
		}),
	)
	nodes := make([]opts.GraphNode, 0, n+1)
	for _, name := range c.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:     name,
			Category: category(name),
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		})
	}
	nodes = append(nodes, opts.GraphNode{Name: ambientNode, Category: 4})
	links := make([]opts.GraphLink, 0)
	for i := 0; i < n; i++ {
		// 行和即为到环境的热导
		sum := 0.0
		for j := 0; j < n; j++ {
			g := c.Circuit.At(i, j)
			sum += g
			if j > i && g != 0 {
				links = append(links, opts.GraphLink{
					Source: c.Nodes[i],
					Target: c.Nodes[j],
					Value:  float32(-g),
				})
			}
		}
		if sum > 1e-12 {
			links = append(links, opts.GraphLink{
				Source: c.Nodes[i],
				Target: ambientNode,
				Value:  float32(sum),
			})
		}
	}
	graph.AddSeries("热网络", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Categories:         categories,
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 80},
			FocusNodeAdjacency: opts.Bool(true),
		}))
	return graph, nil
}

// line 温度随时间变化曲线（摄氏度）
func (c *Charts) line() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "温度曲线",
			Subtitle: "节点温度随时间变化曲线",
		}),
		legend(),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	line.SetXAxis(c.Time)
	series := make([]charts.SingleSeries, len(c.Names))
	for i, name := range c.Names {
		data := make([]opts.LineData, len(c.Time))
		for t, row := range c.Temperatures {
			data[t].Value = row[i] - 273.15
		}
		series[i] = charts.SingleSeries{
			Name: name,
			Data: data,
			Type: types.ChartLine,
		}
		series[i].InitSeriesDefaultOpts(line.BaseConfiguration)
	}
	line.MultiSeries = series
	return line
}

// Render 输出 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	if c.Circuit != nil {
		graph, err := c.graph()
		if err != nil {
			return err
		}
		page.AddCharts(graph)
	}
	if c.Len() > 0 {
		page.AddCharts(c.line())
	}
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
