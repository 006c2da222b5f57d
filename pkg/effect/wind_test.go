package effect

import (
	"math"
	"math/rand"
	"testing"
)

// TestWindConvergesMonotonically 阵风强度向目标单调收敛、永不过冲
//
// 每帧变化量不超过 windEaseFactor * 当前偏差，且偏差绝对值逐帧缩小。
func TestWindConvergesMonotonically(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := newWindState(rng)
	w.target = 2.0
	w.nextRoll = math.MaxFloat64 // 禁止重掷，观察纯收敛过程

	prev := w.current
	for i := 0; i < 1000; i++ {
		prevGap := math.Abs(w.target - prev)
		w.update(16.67, rng)
		step := math.Abs(w.current - prev)
		if step > windEaseFactor*prevGap+1e-12 {
			t.Fatalf("tick %d: step %.6f exceeds ease bound %.6f", i, step, windEaseFactor*prevGap)
		}
		if math.Abs(w.target-w.current) > prevGap+1e-12 {
			t.Fatalf("tick %d: gust diverged from target", i)
		}
		prev = w.current
	}
	if math.Abs(w.target-w.current) > 0.01 {
		t.Errorf("gust did not converge: current=%.4f target=%.4f", w.current, w.target)
	}
}

// TestWindTargetRerolls 阵风目标在 5~15 秒内被重掷且落在 [-2, 2]
func TestWindTargetRerolls(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := newWindState(rng)

	if w.nextRoll < windRollMinMs || w.nextRoll > windRollMaxMs {
		t.Fatalf("initial roll interval %.0fms out of [%v, %v]", w.nextRoll, windRollMinMs, windRollMaxMs)
	}

	// 模拟 20 秒：期间必然发生至少一次重掷
	rolled := false
	for elapsed := 0.0; elapsed < 20000; elapsed += 16.67 {
		before := w.target
		w.update(16.67, rng)
		if w.target != before {
			rolled = true
			if w.target < windGustMin || w.target > windGustMax {
				t.Fatalf("rerolled target %.3f out of [%v, %v]", w.target, windGustMin, windGustMax)
			}
		}
	}
	if !rolled {
		t.Error("expected at least one gust target reroll within 20 simulated seconds")
	}
}
