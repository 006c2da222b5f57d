package effect

import (
	"math"
	"math/rand"

	"github.com/decker502/snowfx/pkg/config"
)

// SmallDeviceWidth 小屏设备宽度阈值（像素）
//
// 视口宽度低于此值时，飘落粒子、圣诞树、花环的数量各自独立减半
// （向下取整），降低小屏上的绘制开销。
const SmallDeviceWidth = 768

// 深度层采样区间：[0,1) 均匀采样后按三等分落入前/中/后层
const (
	layerFrontUpper = 1.0 / 3.0
	layerBackLower  = 2.0 / 3.0
)

// 装饰物基础参数
const (
	treeSizeMin   = 50.0
	treeSizeMax   = 90.0
	wreathSizeMin = 18.0
	wreathSizeMax = 30.0
	// 花环环体分段数，创建时一次性生成
	wreathSegments = 20
)

// Population 一次构建出的完整粒子种群
//
// 强度档位切换或视口尺寸变化时整体替换（旧种群丢弃，新种群重建），
// 不做逐粒子迁移。
type Population struct {
	Drift []DriftParticle
	Scene []SceneParticle
}

// BuildPopulation 按档位与视口尺寸构建粒子种群
//
// 飘落粒子逐个采样深度层并推导尺寸/速度/不透明度/风响应；
// 初始纵坐标随机分布在顶边上方（负 y），使粒子落入画面而非凭空出现。
// 装饰物位置在画布上均匀随机。
func BuildPopulation(profile config.Profile, width, height float64, rng *rand.Rand) Population {
	count := profile.Count
	trees := profile.TreeCount
	wreaths := profile.WreathCount
	if width < SmallDeviceWidth {
		count /= 2
		trees /= 2
		wreaths /= 2
	}

	pop := Population{
		Drift: make([]DriftParticle, 0, count),
		Scene: make([]SceneParticle, 0, trees+wreaths),
	}

	for i := 0; i < count; i++ {
		pop.Drift = append(pop.Drift, newDriftParticle(profile, width, height, rng))
	}
	for i := 0; i < trees; i++ {
		pop.Scene = append(pop.Scene, newTree(width, height, rng))
	}
	for i := 0; i < wreaths; i++ {
		pop.Scene = append(pop.Scene, newWreath(width, height, rng))
	}
	return pop
}

// newDriftParticle 构建单个飘落粒子
//
// 深度层系数：前层更大/更快/更不透明、风响应更弱（视差更"近"），
// 后层相反。系数区间取自参考实现（前层约 1.3~1.5 倍，后层约 0.7 倍）。
func newDriftParticle(profile config.Profile, width, height float64, rng *rand.Rand) DriftParticle {
	var sizeMul, speedMul, opacityMul, windMul float64
	switch layer := rng.Float64(); {
	case layer < layerFrontUpper: // 前层
		sizeMul = randRange(rng, 1.3, 1.5)
		speedMul = randRange(rng, 1.3, 1.5)
		opacityMul = 1.25
		windMul = 0.7
	case layer >= layerBackLower: // 后层
		sizeMul = 0.7
		speedMul = 0.7
		opacityMul = 0.7
		windMul = 1.3
	default: // 中层
		sizeMul = 1.0
		speedMul = 1.0
		opacityMul = 1.0
		windMul = 1.0
	}

	return DriftParticle{
		X:            rng.Float64() * width,
		Y:            -rng.Float64() * height,
		Size:         randRange(rng, profile.SizeMin, profile.SizeMax) * sizeMul,
		Speed:        randRange(rng, profile.SpeedMin, profile.SpeedMax) * speedMul,
		Opacity:      math.Min(1.0, randRange(rng, 0.4, 0.8)*opacityMul),
		WindPhase:    rng.Float64() * 2 * math.Pi,
		WindResponse: randRange(rng, 0.008, 0.02) * windMul,
		Rotation:     rng.Float64() * 2 * math.Pi,
		RotationRate: randRange(rng, -0.02, 0.02),
	}
}

func newTree(width, height float64, rng *rand.Rand) *Tree {
	return &Tree{
		X:       rng.Float64() * width,
		Y:       rng.Float64() * height,
		Size:    randRange(rng, treeSizeMin, treeSizeMax),
		Opacity: randRange(rng, 0.85, 1.0),
	}
}

func newWreath(width, height float64, rng *rand.Rand) *Wreath {
	size := randRange(rng, wreathSizeMin, wreathSizeMax)
	segments := make([]RingSegment, wreathSegments)
	for i := range segments {
		segments[i] = RingSegment{
			Angle:     2 * math.Pi * float64(i) / wreathSegments,
			Radius:    size * randRange(rng, 0.9, 1.1),
			Thickness: size * 0.28 * randRange(rng, 0.8, 1.2),
			Shade:     rng.Float64(),
		}
	}
	return &Wreath{
		X:        rng.Float64() * width,
		Y:        rng.Float64() * height,
		Size:     size,
		Opacity:  randRange(rng, 0.85, 1.0),
		Rotation: randRange(rng, -0.15, 0.15),
		Segments: segments,
	}
}

// newSleigh 构建一架雪橇精灵
//
// 入场方向随机：左侧入场从 -margin 处出发向右飞，
// 右侧入场从 width+margin 处出发向左飞。
func newSleigh(width, height float64, rng *rand.Rand) *Sleigh {
	s := &Sleigh{spriteMotion: spriteMotion{
		VX:           randRange(rng, 2.5, 4.0),
		BaselineY:    randRange(rng, 0.08, 0.35) * height,
		BobAmplitude: randRange(rng, 6.0, 14.0),
		BobFrequency: randRange(rng, 0.002, 0.004),
		BobPhase:     rng.Float64() * 2 * math.Pi,
	}}
	if rng.Intn(2) == 0 {
		s.X = -sleighOffscreenMargin
	} else {
		s.X = width + sleighOffscreenMargin
		s.VX = -s.VX
	}
	s.Y = s.BaselineY
	return s
}

// newElf 构建一个小精灵
//
// 沿画面下方行走，纵向浮动幅度小、频率高，模拟步行起伏。
func newElf(width, height float64, rng *rand.Rand) *Elf {
	e := &Elf{spriteMotion: spriteMotion{
		VX:           randRange(rng, 1.0, 1.8),
		BaselineY:    randRange(rng, 0.75, 0.92) * height,
		BobAmplitude: randRange(rng, 1.0, 3.0),
		BobFrequency: randRange(rng, 0.008, 0.012),
		BobPhase:     rng.Float64() * 2 * math.Pi,
	}}
	if rng.Intn(2) == 0 {
		e.X = -elfOffscreenMargin
	} else {
		e.X = width + elfOffscreenMargin
		e.VX = -e.VX
	}
	e.Y = e.BaselineY
	return e
}
