package effect

import "math/rand"

// 风场参数
const (
	windEaseFactor = 0.02    // 每帧向目标阵风逼近的比例（<1，不会过冲）
	windGustMin    = -2.0    // 阵风目标下限
	windGustMax    = 2.0     // 阵风目标上限
	windRollMinMs  = 5000.0  // 重掷阵风目标的最短间隔（毫秒）
	windRollMaxMs  = 15000.0 // 重掷阵风目标的最长间隔（毫秒）
)

// WindState 环境风状态
//
// 单个标量"当前阵风强度"向周期性重掷的目标值缓动。重掷间隔本身
// 每次也重新随机（5~15 秒）。状态属于单个控制器实例，不跨实例共享。
type WindState struct {
	current   float64
	target    float64
	sinceRoll float64 // 距上次重掷的累计毫秒数
	nextRoll  float64 // 下次重掷的毫秒阈值
}

// newWindState 创建风状态，初始阵风为 0，重掷间隔随机
func newWindState(rng *rand.Rand) *WindState {
	return &WindState{
		nextRoll: rollInterval(rng),
	}
}

// update 推进风状态一帧
//
// 超过重掷阈值时在 [windGustMin, windGustMax] 内均匀重掷目标，
// 然后当前值按固定小系数向目标缓动（一阶临界阻尼滤波）。
func (w *WindState) update(deltaMs float64, rng *rand.Rand) {
	w.sinceRoll += deltaMs
	if w.sinceRoll >= w.nextRoll {
		w.target = randRange(rng, windGustMin, windGustMax)
		w.sinceRoll = 0
		w.nextRoll = rollInterval(rng)
	}
	w.current += (w.target - w.current) * windEaseFactor
}

// Current 返回当前阵风强度
func (w *WindState) Current() float64 { return w.current }

// Target 返回当前阵风目标（测试用）
func (w *WindState) Target() float64 { return w.target }

func rollInterval(rng *rand.Rand) float64 {
	return randRange(rng, windRollMinMs, windRollMaxMs)
}

// randRange 在 [min, max) 内均匀采样
func randRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
