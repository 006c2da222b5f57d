package effect

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 渲染常量
const (
	// 灯光闪烁角频率（弧度/毫秒）
	twinkleRate = 0.003
	// 雪花主臂线宽
	flakeStrokeWidth = 1.0
)

// 调色板
var (
	flakeColor      = color.RGBA{R: 240, G: 248, B: 255, A: 255}
	trunkColor      = color.RGBA{R: 101, G: 67, B: 33, A: 255}
	foliageDark     = color.RGBA{R: 20, G: 90, B: 40, A: 255}
	foliageLight    = color.RGBA{R: 40, G: 140, B: 60, A: 255}
	tinselColor     = color.RGBA{R: 218, G: 165, B: 32, A: 255}
	starColor       = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	snowColor       = color.RGBA{R: 250, G: 250, B: 255, A: 255}
	bowColor        = color.RGBA{R: 178, G: 34, B: 52, A: 255}
	reindeerColor   = color.RGBA{R: 139, G: 90, B: 43, A: 255}
	noseColor       = color.RGBA{R: 230, G: 40, B: 40, A: 255}
	sleighBodyColor = color.RGBA{R: 160, G: 30, B: 40, A: 255}
	riderColor      = color.RGBA{R: 40, G: 30, B: 30, A: 255}
	reinColor       = color.RGBA{R: 90, G: 60, B: 40, A: 255}
	elfSuitColor    = color.RGBA{R: 30, G: 120, B: 50, A: 255}
	elfSkinColor    = color.RGBA{R: 240, G: 200, B: 170, A: 255}
	elfHatColor     = color.RGBA{R: 190, G: 40, B: 50, A: 255}

	// 装饰球颜色循环
	ornamentColors = []color.RGBA{
		{R: 220, G: 50, B: 50, A: 255},
		{R: 240, G: 200, B: 60, A: 255},
		{R: 70, G: 110, B: 220, A: 255},
	}

	// 圣诞树装饰球/彩灯的固定挂点（按树冠宽高的比例，保持逐帧稳定）
	ornamentSpots = [...]struct{ fx, fy float64 }{
		{-0.18, 0.38}, {0.22, 0.45}, {-0.10, 0.62}, {0.15, 0.70},
		{-0.25, 0.78}, {0.05, 0.85}, {0.28, 0.88}, {-0.05, 0.50},
	}
)

// whiteSubImage 用于 DrawTriangles 填充纯色三角形（ebiten 常用手法：
// 取 3x3 白图中心 1x1 子图避免边缘采样出血）
var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// twinkle 计算某盏灯当前的闪烁强度 0~1
//
// (sin(clock*rate + 相位偏移) + 1) / 2，相位偏移逐灯不同，
// 映射到透明度和光晕半径。
func twinkle(clock, phaseOffset float64) float64 {
	return (math.Sin(clock*twinkleRate+phaseOffset) + 1) / 2
}

// withAlpha 按透明度缩放颜色（预乘 alpha）
func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// fillTriangle 用白色子图绘制单个纯色三角形
func fillTriangle(dst *ebiten.Image, x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	cr := float32(c.R) / 255
	cg := float32(c.G) / 255
	cb := float32(c.B) / 255
	ca := float32(c.A) / 255
	vs := []ebiten.Vertex{
		{DstX: float32(x0), DstY: float32(y0), SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: float32(x1), DstY: float32(y1), SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: float32(x2), DstY: float32(y2), SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
	}
	is := []uint16{0, 1, 2}
	dst.DrawTriangles(vs, is, whiteSubImage, nil)
}

// DrawFrame renders the current particle state onto dst.
//
// Pure drawing, no physics: clear, drift flakes first, then scene
// particles in collection order. twinkleClock drives light glow phases.
func DrawFrame(dst *ebiten.Image, drift []DriftParticle, scene []SceneParticle, twinkleClock float64) {
	dst.Clear()
	for i := range drift {
		drawFlake(dst, &drift[i])
	}
	for _, sp := range scene {
		switch p := sp.(type) {
		case *Tree:
			drawTree(dst, p, twinkleClock)
		case *Wreath:
			drawWreath(dst, p, twinkleClock)
		case *Sleigh:
			drawSleigh(dst, p)
		case *Elf:
			drawElf(dst, p)
		}
	}
}

// drawFlake 绘制六臂雪花晶体：6 条主臂 + 每臂 2 条侧枝
func drawFlake(dst *ebiten.Image, p *DriftParticle) {
	c := withAlpha(flakeColor, p.Opacity)
	for arm := 0; arm < 6; arm++ {
		angle := p.Rotation + float64(arm)*math.Pi/3
		dirX := math.Cos(angle)
		dirY := math.Sin(angle)
		tipX := p.X + dirX*p.Size
		tipY := p.Y + dirY*p.Size
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(tipX), float32(tipY), flakeStrokeWidth, c, true)

		// 侧枝从主臂 60% 处分出，±25 度，长度为主臂的 35%
		baseX := p.X + dirX*p.Size*0.6
		baseY := p.Y + dirY*p.Size*0.6
		for _, da := range [...]float64{0.44, -0.44} {
			bx := baseX + math.Cos(angle+da)*p.Size*0.35
			by := baseY + math.Sin(angle+da)*p.Size*0.35
			vector.StrokeLine(dst, float32(baseX), float32(baseY), float32(bx), float32(by), flakeStrokeWidth, c, true)
		}
	}
}

// drawTree 绘制圣诞树：树干、三层树冠、金丝彩带、装饰球、
// 闪烁彩灯、顶星和按积雪量缩放的雪盖
func drawTree(dst *ebiten.Image, t *Tree, clock float64) {
	h := t.Size
	baseY := t.Y
	topY := baseY - h

	// 树干（梯形：底部略宽）
	trunkW := h * 0.10
	trunkH := h * 0.18
	trunk := withAlpha(trunkColor, t.Opacity)
	fillTriangle(dst, t.X-trunkW*0.6, baseY, t.X+trunkW*0.6, baseY, t.X-trunkW*0.4, baseY-trunkH, trunk)
	fillTriangle(dst, t.X+trunkW*0.6, baseY, t.X+trunkW*0.4, baseY-trunkH, t.X-trunkW*0.4, baseY-trunkH, trunk)

	// 三层三角树冠，自下而上逐层收窄、颜色渐亮
	type tier struct {
		topFrac, bottomFrac, halfWidthFrac float64
	}
	tiers := [...]tier{
		{0.45, 1.0, 0.46},
		{0.22, 0.68, 0.36},
		{0.0, 0.42, 0.26},
	}
	for i, tr := range tiers {
		blend := float64(i) / float64(len(tiers)-1)
		c := withAlpha(lerpRGBA(foliageDark, foliageLight, blend), t.Opacity)
		tierTop := topY + tr.topFrac*h*0.82
		tierBottom := topY + tr.bottomFrac*h*0.82
		halfW := tr.halfWidthFrac * h
		fillTriangle(dst, t.X, tierTop, t.X-halfW, tierBottom, t.X+halfW, tierBottom, c)

		// 金丝彩带：沿层底上方的折线
		zigzagY := tierBottom - (tierBottom-tierTop)*0.25
		zigzagHalf := halfW * 0.75
		tc := withAlpha(tinselColor, t.Opacity*0.9)
		steps := 4
		for s := 0; s < steps; s++ {
			x0 := t.X - zigzagHalf + 2*zigzagHalf*float64(s)/float64(steps)
			x1 := t.X - zigzagHalf + 2*zigzagHalf*float64(s+1)/float64(steps)
			y0 := zigzagY
			y1 := zigzagY
			if s%2 == 0 {
				y1 -= h * 0.035
			} else {
				y0 -= h * 0.035
			}
			vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1.2, tc, true)
		}

		// 积雪盖：层顶白色覆盖条，宽度随积雪量增长
		if t.SnowLevel > 0 {
			frac := t.SnowLevel / t.SnowCap()
			sc := withAlpha(snowColor, t.Opacity*math.Min(1, frac))
			capHalf := halfW * 0.5 * frac
			vector.StrokeLine(dst, float32(t.X-capHalf), float32(tierTop+h*0.04),
				float32(t.X+capHalf), float32(tierTop+h*0.04), float32(2+3*frac), sc, true)
		}
	}

	// 装饰球与闪烁彩灯：固定挂点，逐灯相位偏移
	for i, spot := range ornamentSpots {
		ox := t.X + spot.fx*h
		oy := topY + spot.fy*h
		oc := withAlpha(ornamentColors[i%len(ornamentColors)], t.Opacity)
		vector.DrawFilledCircle(dst, float32(ox), float32(oy), float32(h*0.03), oc, true)

		glow := twinkle(clock, float64(i)*2.399)
		gc := withAlpha(starColor, t.Opacity*glow*0.8)
		vector.DrawFilledCircle(dst, float32(ox), float32(oy), float32(h*0.03*(1+glow)), gc, true)
	}

	// 顶星：上下两个交叠三角形 + 随相位呼吸的光晕
	starGlow := twinkle(clock, 0)
	sg := withAlpha(starColor, t.Opacity*(0.3+0.5*starGlow))
	vector.DrawFilledCircle(dst, float32(t.X), float32(topY), float32(h*0.07*(1+starGlow*0.5)), sg, true)
	sr := h * 0.05
	sc := withAlpha(starColor, t.Opacity)
	fillTriangle(dst, t.X, topY-sr, t.X-sr*0.9, topY+sr*0.6, t.X+sr*0.9, topY+sr*0.6, sc)
	fillTriangle(dst, t.X, topY+sr, t.X-sr*0.9, topY-sr*0.6, t.X+sr*0.9, topY-sr*0.6, sc)
}

// drawWreath 绘制花环：预生成分段环体、闪烁彩灯、蝴蝶结和顶部积雪弧
func drawWreath(dst *ebiten.Image, w *Wreath, clock float64) {
	for i, seg := range w.Segments {
		a := seg.Angle + w.Rotation
		px := w.X + math.Cos(a)*seg.Radius
		py := w.Y + math.Sin(a)*seg.Radius
		c := withAlpha(lerpRGBA(foliageDark, foliageLight, seg.Shade), w.Opacity)
		vector.DrawFilledCircle(dst, float32(px), float32(py), float32(seg.Thickness/2), c, true)

		// 每隔几段挂一盏彩灯
		if i%4 == 0 {
			glow := twinkle(clock, float64(i)*1.7)
			lc := withAlpha(ornamentColors[(i/4)%len(ornamentColors)], w.Opacity*(0.4+0.6*glow))
			vector.DrawFilledCircle(dst, float32(px), float32(py), float32(seg.Thickness*0.22*(1+glow)), lc, true)
		}

		// 顶部分段叠加积雪（sin(a)<0 为上半圈）
		if w.SnowLevel > 0 && math.Sin(a) < -0.3 {
			frac := w.SnowLevel / w.SnowCap()
			sc := withAlpha(snowColor, w.Opacity*math.Min(1, frac))
			vector.DrawFilledCircle(dst, float32(px), float32(py-seg.Thickness*0.25), float32(seg.Thickness*0.35*frac), sc, true)
		}
	}

	// 底部蝴蝶结：两翼三角形 + 中心结
	bowY := w.Y + w.Size
	bc := withAlpha(bowColor, w.Opacity)
	wing := w.Size * 0.45
	fillTriangle(dst, w.X, bowY, w.X-wing, bowY-wing*0.5, w.X-wing, bowY+wing*0.5, bc)
	fillTriangle(dst, w.X, bowY, w.X+wing, bowY-wing*0.5, w.X+wing, bowY+wing*0.5, bc)
	vector.DrawFilledCircle(dst, float32(w.X), float32(bowY), float32(w.Size*0.14), bc, true)
}

// drawSleigh 绘制驯鹿雪橇编队：驯鹿（腿部摆动动画）、
// 领头鹿发光红鼻、雪橇车体、驾乘者剪影和缰绳
func drawSleigh(dst *ebiten.Image, s *Sleigh) {
	dir := 1.0
	if s.VX < 0 {
		dir = -1.0
	}

	const reindeerCount = 3
	const spacing = 38.0

	// 驯鹿头部位置缓存，用于缰绳连线
	headXs := make([]float64, reindeerCount)
	headYs := make([]float64, reindeerCount)

	for i := 0; i < reindeerCount; i++ {
		// i=0 为最前方的领头鹿
		bx := s.X + dir*(spacing*float64(reindeerCount-i)+30)
		by := s.Y + math.Sin(s.Elapsed*0.004+float64(i)*0.9)*2.5

		// 躯干与头
		vector.DrawFilledCircle(dst, float32(bx), float32(by), 7, reindeerColor, true)
		hx := bx + dir*9
		hy := by - 5
		vector.DrawFilledCircle(dst, float32(hx), float32(hy), 4, reindeerColor, true)
		headXs[i] = hx
		headYs[i] = hy

		// 鹿角
		vector.StrokeLine(dst, float32(hx), float32(hy-3), float32(hx-dir*3), float32(hy-8), 1, reindeerColor, true)
		vector.StrokeLine(dst, float32(hx), float32(hy-3), float32(hx+dir*2), float32(hy-8), 1, reindeerColor, true)

		// 四条腿：奔跑摆动，前后腿相位相反
		for leg := 0; leg < 4; leg++ {
			phase := s.Elapsed*0.02 + float64(leg)*math.Pi/2
			swing := math.Sin(phase) * 0.5
			lx := bx + dir*(float64(leg)*3.5-5)
			footX := lx + math.Sin(swing)*6
			footY := by + 12
			vector.StrokeLine(dst, float32(lx), float32(by+4), float32(footX), float32(footY), 1.4, reindeerColor, true)
		}

		// 领头鹿的发光红鼻
		if i == 0 {
			vector.DrawFilledCircle(dst, float32(hx+dir*4), float32(hy), 5, withAlpha(noseColor, 0.35), true)
			vector.DrawFilledCircle(dst, float32(hx+dir*4), float32(hy), 2, noseColor, true)
		}
	}

	// 雪橇车体：梯形箱体 + 弧形滑板
	bodyW := 34.0
	bodyH := 14.0
	bx := s.X
	by := s.Y
	fillTriangle(dst, bx-dir*bodyW/2, by, bx+dir*bodyW/2, by, bx+dir*bodyW/2, by-bodyH, sleighBodyColor)
	fillTriangle(dst, bx-dir*bodyW/2, by, bx+dir*bodyW/2, by-bodyH, bx-dir*bodyW/3, by-bodyH, sleighBodyColor)
	vector.StrokeLine(dst, float32(bx-dir*bodyW/2-dir*6), float32(by+4), float32(bx+dir*bodyW/2+dir*8), float32(by+4), 2, tinselColor, true)

	// 驾乘者剪影：身体、头、帽尖
	rx := bx - dir*4
	ry := by - bodyH
	vector.DrawFilledCircle(dst, float32(rx), float32(ry-4), 5, riderColor, true)
	vector.DrawFilledCircle(dst, float32(rx), float32(ry-11), 3, riderColor, true)
	fillTriangle(dst, rx-2, ry-13, rx+2, ry-13, rx+dir*3, ry-18, riderColor)

	// 缰绳：从驾乘者连到每头驯鹿
	for i := 0; i < reindeerCount; i++ {
		vector.StrokeLine(dst, float32(rx+dir*3), float32(ry-8), float32(headXs[i]), float32(headYs[i]+2), 0.8, reinColor, true)
	}
}

// drawElf 绘制小精灵：双腿行走循环、躯干、头和尖顶帽
func drawElf(dst *ebiten.Image, e *Elf) {
	dir := 1.0
	if e.VX < 0 {
		dir = -1.0
	}
	x, y := e.X, e.Y

	// 行走循环：双腿相位相差 π
	hipY := y
	for leg := 0; leg < 2; leg++ {
		swing := math.Sin(e.Elapsed*0.015+float64(leg)*math.Pi) * 0.6
		footX := x + math.Sin(swing)*6*dir
		vector.StrokeLine(dst, float32(x), float32(hipY), float32(footX), float32(hipY+10), 2, elfSuitColor, true)
	}

	// 躯干（三角形外套）与摆动的手臂
	fillTriangle(dst, x, hipY-16, x-6, hipY, x+6, hipY, elfSuitColor)
	armSwing := math.Sin(e.Elapsed*0.015) * 0.5
	vector.StrokeLine(dst, float32(x), float32(hipY-12), float32(x+math.Sin(armSwing)*7*dir), float32(hipY-4), 1.6, elfSuitColor, true)
	vector.StrokeLine(dst, float32(x), float32(hipY-12), float32(x-math.Sin(armSwing)*7*dir), float32(hipY-4), 1.6, elfSuitColor, true)

	// 头与尖顶帽（帽尖偏向行进方向，白色绒球）
	headY := hipY - 20
	vector.DrawFilledCircle(dst, float32(x), float32(headY), 4, elfSkinColor, true)
	fillTriangle(dst, x-4, headY-2, x+4, headY-2, x+dir*2, headY-11, elfHatColor)
	vector.DrawFilledCircle(dst, float32(x+dir*2), float32(headY-11), 1.5, snowColor, true)
}

// lerpRGBA 颜色线性插值
func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// CanvasRenderer 把粒子状态绘制到自有的离屏画布上
//
// 实现控制器的 Renderer 接口；画布由 Init 创建、Release 释放，
// 释放后 Frame 直接早退，保证悬挂的帧回调不会触碰已释放的画布。
type CanvasRenderer struct {
	surface *ebiten.Image
}

// NewCanvasRenderer 创建未分配画布的渲染器
func NewCanvasRenderer() *CanvasRenderer {
	return &CanvasRenderer{}
}

// Init 按视口尺寸（重新）创建离屏画布
func (r *CanvasRenderer) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if r.surface != nil {
		r.surface.Deallocate()
	}
	r.surface = ebiten.NewImage(width, height)
	return nil
}

// Frame 绘制一帧；画布缺失时为安全空操作
func (r *CanvasRenderer) Frame(world *World) {
	if r.surface == nil {
		return
	}
	DrawFrame(r.surface, world.Drift, world.Scene, world.TwinkleClock)
}

// Release 释放画布并置空引用
func (r *CanvasRenderer) Release() {
	if r.surface != nil {
		r.surface.Deallocate()
		r.surface = nil
	}
}

// Surface 返回当前离屏画布（未初始化时为 nil），供宿主合成
func (r *CanvasRenderer) Surface() *ebiten.Image {
	return r.surface
}
