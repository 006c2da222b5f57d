package effect

import (
	"math/rand"
	"testing"

	"github.com/decker502/snowfx/pkg/config"
)

// TestBuildPopulationCounts 视口达到阈值时按档位原值构建
func TestBuildPopulationCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for tier, profile := range config.Builtin() {
		pop := BuildPopulation(profile, SmallDeviceWidth, 600, rng)
		if len(pop.Drift) != profile.Count {
			t.Errorf("tier %s: drift count = %d, want %d", tier, len(pop.Drift), profile.Count)
		}
		if len(pop.Scene) != profile.TreeCount+profile.WreathCount {
			t.Errorf("tier %s: scene count = %d, want %d", tier, len(pop.Scene), profile.TreeCount+profile.WreathCount)
		}
	}
}

// TestBuildPopulationSmallDeviceHalving 小屏视口下三类数量各自独立减半（向下取整）
func TestBuildPopulationSmallDeviceHalving(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for tier, profile := range config.Builtin() {
		pop := BuildPopulation(profile, SmallDeviceWidth-1, 600, rng)
		if len(pop.Drift) != profile.Count/2 {
			t.Errorf("tier %s: drift count = %d, want %d", tier, len(pop.Drift), profile.Count/2)
		}
		trees, wreaths := 0, 0
		for _, sp := range pop.Scene {
			switch sp.(type) {
			case *Tree:
				trees++
			case *Wreath:
				wreaths++
			}
		}
		if trees != profile.TreeCount/2 {
			t.Errorf("tier %s: tree count = %d, want %d", tier, trees, profile.TreeCount/2)
		}
		if wreaths != profile.WreathCount/2 {
			t.Errorf("tier %s: wreath count = %d, want %d", tier, wreaths, profile.WreathCount/2)
		}
	}
}

// TestDriftParticleInitialState 初始纵坐标在顶边上方、横坐标落在画布内
func TestDriftParticleInitialState(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	profile, _ := config.Builtin().Lookup(config.TierHeavy)
	pop := BuildPopulation(profile, 1024, 600, rng)

	for i, p := range pop.Drift {
		if p.Y >= 0 {
			t.Fatalf("particle %d: initial Y = %.2f, want negative (above top edge)", i, p.Y)
		}
		if p.X < 0 || p.X >= 1024 {
			t.Fatalf("particle %d: initial X = %.2f out of [0, 1024)", i, p.X)
		}
		if p.Speed <= 0 {
			t.Fatalf("particle %d: speed = %.3f, want > 0", i, p.Speed)
		}
		if p.Opacity <= 0 || p.Opacity > 1 {
			t.Fatalf("particle %d: opacity = %.3f out of (0, 1]", i, p.Opacity)
		}
	}
}

// TestDriftLayerRanges 深度层系数推导出的尺寸/速度落在基础区间的放大范围内
func TestDriftLayerRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	profile := config.Profile{
		Count: 500, SpeedMin: 1.0, SpeedMax: 2.0, SizeMin: 2.0, SizeMax: 4.0,
	}
	pop := BuildPopulation(profile, 1024, 600, rng)

	for i, p := range pop.Drift {
		// 后层 0.7 倍 ~ 前层最高 1.5 倍
		if p.Size < profile.SizeMin*0.7 || p.Size > profile.SizeMax*1.5 {
			t.Fatalf("particle %d: size %.2f outside layered range", i, p.Size)
		}
		if p.Speed < profile.SpeedMin*0.7 || p.Speed > profile.SpeedMax*1.5 {
			t.Fatalf("particle %d: speed %.2f outside layered range", i, p.Speed)
		}
	}
}

// TestWreathSegmentsPreGenerated 花环环体分段在创建时一次性生成且数量固定
func TestWreathSegmentsPreGenerated(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	w := newWreath(800, 600, rng)

	if len(w.Segments) != wreathSegments {
		t.Fatalf("segment count = %d, want %d", len(w.Segments), wreathSegments)
	}
	for i, seg := range w.Segments {
		if seg.Radius <= 0 || seg.Thickness <= 0 {
			t.Errorf("segment %d: non-positive geometry %+v", i, seg)
		}
	}

	// 模拟推进不得改变分段（形状逐帧稳定）
	world := NewWorld(800, 600, SpawnRates{}, rng)
	world.Scene = []SceneParticle{w}
	before := make([]RingSegment, len(w.Segments))
	copy(before, w.Segments)
	for i := 0; i < 100; i++ {
		world.Advance(16.67)
	}
	for i := range before {
		if before[i] != w.Segments[i] {
			t.Fatalf("segment %d changed during simulation", i)
		}
	}
}

// TestSpriteEntrySides 精灵入场方向与速度符号一致
func TestSpriteEntrySides(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	sawLeft, sawRight := false, false
	for i := 0; i < 100; i++ {
		s := newSleigh(800, 600, rng)
		if s.VX > 0 {
			sawLeft = true
			if s.X > 0 {
				t.Fatalf("left-entering sleigh starts at X=%.1f, want off-screen left", s.X)
			}
		} else {
			sawRight = true
			if s.X < 800 {
				t.Fatalf("right-entering sleigh starts at X=%.1f, want off-screen right", s.X)
			}
		}
	}
	if !sawLeft || !sawRight {
		t.Error("expected both entry sides to occur over 100 spawns")
	}
}
