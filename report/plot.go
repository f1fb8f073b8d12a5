package report

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"hotspot/floorplan"
)

// PlotFloorplan 绘制布局图，功能块按温度着色并标注名称与温度（摄氏度）
// temps 按布局顺序给出各功能块的开尔文温度，为空时只绘制轮廓
func PlotFloorplan(flp *floorplan.Floorplan, temps []float64, title string) (*plot.Plot, error) {
	if temps != nil && len(temps) < flp.Len() {
		return nil, fmt.Errorf("%d temperatures for %d units", len(temps), flp.Len())
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	colors := moreland.SmoothBlueRed()
	if temps != nil {
		low, high := math.Inf(1), math.Inf(-1)
		for _, t := range temps[:flp.Len()] {
			low = math.Min(low, t)
			high = math.Max(high, t)
		}
		if high-low < 1e-9 {
			high = low + 1
		}
		colors.SetMax(high)
		colors.SetMin(low)
	}

	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, flp.Len()),
		Labels: make([]string, flp.Len()),
	}
	for i, u := range flp.Units {
		x0, y0 := u.LeftX*1e3, u.BottomY*1e3
		x1, y1 := u.RightX()*1e3, u.TopY()*1e3
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		})
		if err != nil {
			return nil, err
		}
		poly.Color = nil
		labels.Labels[i] = u.Name
		if temps != nil {
			c, err := colors.At(temps[i])
			if err != nil {
				return nil, err
			}
			poly.Color = c
			labels.Labels[i] = fmt.Sprintf("%s\n%.1f", u.Name, temps[i]-273.15)
		}
		p.Add(poly)
		labels.XYs[i] = plotter.XY{X: x0 + (x1-x0)/8, Y: (y0 + y1) / 2}
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(l)
	return p, nil
}

// PlotTransient 绘制记录中各节点温度（摄氏度）随时间的变化
func PlotTransient(rec *Record, title string) (*plot.Plot, error) {
	if rec.Len() == 0 {
		return nil, fmt.Errorf("empty record")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "temperature (C)"
	p.Add(plotter.NewGrid())
	for i, name := range rec.Names {
		xys := make(plotter.XYs, rec.Len())
		for t, row := range rec.Temperatures {
			xys[t] = plotter.XY{X: rec.Time[t], Y: row[i] - 273.15}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(name, line)
	}
	return p, nil
}

// WritePNG 以 PNG 格式输出图像，宽高单位为厘米
func WritePNG(w io.Writer, p *plot.Plot, width, height float64) error {
	c := vgimg.New(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter)
	p.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
