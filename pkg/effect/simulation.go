package effect

import (
	"math"
	"math/rand"
)

// 模拟参数
const (
	// 物理量以 60Hz 标准帧为基准，normalized = deltaMs / frameReferenceMs
	frameReferenceMs = 1000.0 / 60.0
	// 飘落粒子回收/环绕的边缘余量（像素）
	edgeMargin = 10.0
	// 装饰物每帧发生积雪增长的概率
	snowAccrueChance = 0.01
	// 单次积雪增量上限
	snowAccrueMax = 0.6
)

// SpawnRates 过场精灵的每帧独立生成概率
//
// 参考实现的两个引擎变体使用了不同的魔法数（雪橇约 0.0005，
// 小精灵约 0.0003），这里统一为可配置参数，默认取观察到的值。
type SpawnRates struct {
	Sleigh float64
	Elf    float64
}

// DefaultSpawnRates 返回默认生成概率
func DefaultSpawnRates() SpawnRates {
	return SpawnRates{Sleigh: 0.0005, Elf: 0.0003}
}

// World 一个控制器实例持有的全部模拟状态
//
// 单线程访问：模拟、渲染、事件回调都运行在同一个帧循环线程上，
// 不需要加锁。
type World struct {
	Width, Height float64
	Drift         []DriftParticle
	Scene         []SceneParticle
	Wind          *WindState
	Spawn         SpawnRates

	// TwinkleClock 灯光闪烁相位时钟（毫秒），只被渲染读取
	TwinkleClock float64

	rng *rand.Rand
}

// NewWorld 创建空世界；种群由 Rebuild 填充
func NewWorld(width, height float64, spawn SpawnRates, rng *rand.Rand) *World {
	return &World{
		Width:  width,
		Height: height,
		Wind:   newWindState(rng),
		Spawn:  spawn,
		rng:    rng,
	}
}

// Rebuild 用新种群整体替换当前种群（强度切换 / 视口变化时调用）
func (w *World) Rebuild(pop Population) {
	w.Drift = pop.Drift
	w.Scene = pop.Scene
}

// Advance advances every particle by one elapsed-time tick.
//
// deltaMs is the wall-clock time since the previous frame. All motion is
// scaled by deltaMs/frameReferenceMs so physics stays frame-rate independent.
func (w *World) Advance(deltaMs float64) {
	if deltaMs <= 0 {
		return
	}
	normalized := deltaMs / frameReferenceMs

	w.Wind.update(deltaMs, w.rng)
	w.TwinkleClock += deltaMs

	gust := w.Wind.Current()
	for i := range w.Drift {
		w.advanceDrift(&w.Drift[i], normalized, gust)
	}

	for _, sp := range w.Scene {
		switch p := sp.(type) {
		case *Tree:
			w.accrueSnow(&p.SnowLevel, p.SnowCap())
		case *Wreath:
			w.accrueSnow(&p.SnowLevel, p.SnowCap())
		case *Sleigh:
			w.advanceSprite(&p.spriteMotion, normalized, deltaMs, p.offscreenMargin())
		case *Elf:
			w.advanceSprite(&p.spriteMotion, normalized, deltaMs, p.offscreenMargin())
		}
	}

	// 低概率独立生成过场精灵（每帧一次伯努利抽样，非保证计数）
	if w.rng.Float64() < w.Spawn.Sleigh {
		w.Scene = append(w.Scene, newSleigh(w.Width, w.Height, w.rng))
	}
	if w.rng.Float64() < w.Spawn.Elf {
		w.Scene = append(w.Scene, newElf(w.Width, w.Height, w.rng))
	}

	// 帧末过滤：只保留仍存活的场景粒子（装饰永远存活，精灵可能离场）
	kept := w.Scene[:0]
	for _, sp := range w.Scene {
		if sp.alive() {
			kept = append(kept, sp)
		}
	}
	w.Scene = kept
}

// advanceDrift 推进单个飘落粒子：重力 + 风摆 + 阵风 + 自转
func (w *World) advanceDrift(p *DriftParticle, normalized, gust float64) {
	p.Y += p.Speed * normalized
	p.WindPhase += p.WindResponse * normalized
	p.X += (math.Sin(p.WindPhase)*0.5 + gust) * normalized
	p.Rotation += p.RotationRate * normalized

	// 回收：落出底边后回到顶边上方，横坐标重新随机
	if p.Y > w.Height+edgeMargin {
		p.Y = -p.Size - edgeMargin
		p.X = w.rng.Float64() * w.Width
		return
	}

	// 环绕：左右越界传送到另一侧边缘
	if p.X < -edgeMargin {
		p.X = w.Width + edgeMargin
	} else if p.X > w.Width+edgeMargin {
		p.X = -edgeMargin
	}
}

// accrueSnow 以小概率增加积雪量，固定上限，永不减少
func (w *World) accrueSnow(level *float64, limit float64) {
	if w.rng.Float64() >= snowAccrueChance {
		return
	}
	*level = math.Min(*level+w.rng.Float64()*snowAccrueMax, limit)
}

// advanceSprite 推进精灵：水平平移 + 正弦纵向浮动，越界判定离场
//
// 离场只检查运动方向一侧的边缘：左侧入场的精灵可能从比边距更远的
// 位置出发，不能因此在入场前就被判定离场。
func (w *World) advanceSprite(s *spriteMotion, normalized, deltaMs, margin float64) {
	s.X += s.VX * normalized
	s.Elapsed += deltaMs
	s.Y = s.BaselineY + math.Sin(s.Elapsed*s.BobFrequency+s.BobPhase)*s.BobAmplitude

	if s.VX >= 0 {
		if s.X > w.Width+margin {
			s.gone = true
		}
	} else if s.X < -margin {
		s.gone = true
	}
}
