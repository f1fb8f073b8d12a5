package block

import "hotspot/config"

// CFactor 集总电容的拟合系数
const CFactor = 0.333

// getr 厚度为 thickness、截面积为 area 的热阻
func getr(conductivity, thickness, area float64) float64 {
	return thickness / (conductivity * area)
}

// getcap 厚度为 thickness、面积为 area 的热容
func getcap(specificHeat, thickness, area float64) float64 {
	return CFactor * specificHeat * thickness * area
}

// packageRC 均热板与散热器外围部分的热阻、热容
// _x 对应东西两侧，_y 对应南北两侧
type packageRC struct {
	// 横向热阻
	rSp1X, rSp1Y float64 // 均热板内侧
	rHs1X, rHs1Y float64 // 散热器内侧（芯片下方到内圈外围）
	rHs2X, rHs2Y float64 // 散热器内圈外围
	rHs          float64 // 散热器外圈

	// 纵向热阻
	rSpPerX, rSpPerY   float64
	rHsCPerX, rHsCPerY float64
	rHsPer             float64

	// 到环境的对流热阻（按面积分配 r_convec）
	rAmbCPerX, rAmbCPerY float64
	rAmbPer              float64

	// 热容
	cSpPerX, cSpPerY     float64
	cHsCPerX, cHsCPerY   float64
	cHsPer               float64
	cAmbCPerX, cAmbCPerY float64
	cAmbPer              float64
}

// populateR 计算外围热阻，width/height 为芯片尺寸
func (p *packageRC) populateR(c *config.Config, width, height float64) {
	sSp, tSp, kSp := c.SpreaderSide, c.SpreaderThickness, c.SpreaderConductivity
	sHs, tHs, kHs := c.SinkSide, c.SinkThickness, c.SinkConductivity

	p.rSp1X = getr(kSp, (sSp-width)/4.0, (sSp+3*height)/4.0*tSp)
	p.rSp1Y = getr(kSp, (sSp-height)/4.0, (sSp+3*width)/4.0*tSp)
	p.rHs1X = getr(kHs, (sSp-width)/4.0, (sSp+3*height)/4.0*tHs)
	p.rHs1Y = getr(kHs, (sSp-height)/4.0, (sSp+3*width)/4.0*tHs)
	p.rHs2X = getr(kHs, (sSp-width)/4.0, sSp*tHs)
	p.rHs2Y = getr(kHs, (sSp-height)/4.0, sSp*tHs)
	p.rHs = getr(kHs, (sHs-sSp)/4.0, (sHs+3*sSp)/4.0*tHs)

	areaX, areaY, areaOut := periphery(c, width, height)
	p.rSpPerX = getr(kSp, tSp, areaX)
	p.rSpPerY = getr(kSp, tSp, areaY)
	p.rHsCPerX = getr(kHs, tHs, areaX)
	p.rHsCPerY = getr(kHs, tHs, areaY)
	p.rHsPer = getr(kHs, tHs, areaOut)

	scale := c.ConvectionResistance * sHs * sHs
	p.rAmbCPerX = scale / areaX
	p.rAmbCPerY = scale / areaY
	p.rAmbPer = scale / areaOut
}

// populateC 计算外围热容
func (p *packageRC) populateC(c *config.Config, width, height float64) {
	areaX, areaY, areaOut := periphery(c, width, height)
	p.cSpPerX = getcap(c.SpreaderHeat, c.SpreaderThickness, areaX)
	p.cSpPerY = getcap(c.SpreaderHeat, c.SpreaderThickness, areaY)
	p.cHsCPerX = getcap(c.SinkHeat, c.SinkThickness, areaX)
	p.cHsCPerY = getcap(c.SinkHeat, c.SinkThickness, areaY)
	p.cHsPer = getcap(c.SinkHeat, c.SinkThickness, areaOut)

	scale := CFactor * c.ConvectionCapacitance / (c.SinkSide * c.SinkSide)
	p.cAmbCPerX = scale * areaX
	p.cAmbCPerY = scale * areaY
	p.cAmbPer = scale * areaOut
}

// periphery 外围梯形区域的面积
// areaX: 均热板东西两侧，areaY: 南北两侧，areaOut: 散热器超出均热板的每一侧
func periphery(c *config.Config, width, height float64) (areaX, areaY, areaOut float64) {
	sSp, sHs := c.SpreaderSide, c.SinkSide
	areaX = (sSp + height) * (sSp - width) / 4.0
	areaY = (sSp + width) * (sSp - height) / 4.0
	areaOut = (sHs*sHs - sSp*sSp) / 4.0
	return
}
