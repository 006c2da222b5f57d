// showcase - 精灵与装饰绘制效果的人工检查工具
//
// 固定随机种子并大幅调高精灵生成概率，便于快速看到雪橇与小精灵
// 的完整过场动画以及装饰物的积雪累积。
//
// 运行: go run ./cmd/showcase
package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/snowfx/pkg/config"
	"github.com/decker502/snowfx/pkg/effect"
)

const (
	screenWidth  = 960
	screenHeight = 540
)

type showcase struct {
	controller *effect.Controller
	renderer   *effect.CanvasRenderer
	scheduler  *scheduler
}

// scheduler 最小帧调度器：每个 Update 触发一次挂起回调
type scheduler struct {
	nextID  int64
	pending map[int64]func(now time.Time)
}

func (s *scheduler) Request(fn func(now time.Time)) int64 {
	s.nextID++
	s.pending[s.nextID] = fn
	return s.nextID
}

func (s *scheduler) Cancel(id int64) {
	delete(s.pending, id)
}

func (s *scheduler) pump(now time.Time) {
	run := s.pending
	s.pending = map[int64]func(now time.Time){}
	for _, fn := range run {
		fn(now)
	}
}

func (g *showcase) Update() error {
	g.scheduler.pump(time.Now())
	return nil
}

func (g *showcase) Draw(screen *ebiten.Image) {
	if surface := g.renderer.Surface(); surface != nil {
		screen.DrawImage(surface, nil)
	}
	world := g.controller.World()
	if world != nil {
		ebitenutil.DebugPrint(screen, "sprite showcase: boosted spawn rates, fixed seed")
	}
}

func (g *showcase) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	renderer := effect.NewCanvasRenderer()
	sched := &scheduler{pending: map[int64]func(now time.Time){}}
	controller := effect.New(effect.Options{
		Tier:      config.TierHeavy,
		Enabled:   true,
		Renderer:  renderer,
		Scheduler: sched,
		Width:     screenWidth,
		Height:    screenHeight,
		// 生成概率放大约 40 倍，几秒内必然出现两种精灵
		Spawn: effect.SpawnRates{Sleigh: 0.02, Elf: 0.012},
		Seed:  42,
	})
	if err := controller.Init(); err != nil {
		log.Fatalf("showcase init failed: %v", err)
	}
	controller.Start()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("snowfx sprite showcase")
	if err := ebiten.RunGame(&showcase{controller: controller, renderer: renderer, scheduler: sched}); err != nil {
		log.Fatal(err)
	}
}
