// Package app 提供雪景特效演示应用的核心包装器
//
// 该包把特效引擎接到 ebiten 的游戏循环上：Update 负责泵送帧调度器、
// 监听视口尺寸与窗口可见性变化并转发给控制器，Draw 把离屏特效画布
// 合成到宿主画面之上。桌面端通过 main.go 调用 NewApp()，
// 移动端通过 mobile/mobile.go 调用。
package app

import (
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/snowfx/pkg/config"
	"github.com/decker502/snowfx/pkg/effect"
	"github.com/decker502/snowfx/pkg/game"
	"github.com/decker502/snowfx/pkg/utils"
)

// 默认窗口尺寸（移动端使用竖屏小尺寸，触发小屏种群减半）
const (
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 640
	MobileWindowWidth   = 480
	MobileWindowHeight  = 800
)

// gdata 应用名与偏好命名空间
const (
	storageAppName = "snowfx"
	prefsNamespace = "prefs"
)

// 背景色（深夜蓝，衬托雪花）
var backdropColor = color.RGBA{R: 12, G: 20, B: 44, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Tier 指定启动档位（如 "heavy"），为空则使用持久化偏好
	Tier string
	// SeasonGated 为 true 时只在节日季（12 月 / 1 月 1~3 日）显示特效
	SeasonGated bool
	// Spawn 过场精灵生成概率，零值使用引擎默认
	Spawn effect.SpawnRates
}

// App 是演示应用的核心包装器，实现 ebiten.Game 接口
//
// 同时承担外围开关组件的职责：S 键切换特效开关、1/2/3 键切换强度
// 档位、空格键暂停/恢复，所有选择通过偏好存储跨会话记忆。
type App struct {
	controller *effect.Controller
	renderer   *effect.CanvasRenderer
	settings   *game.SettingsManager
	scheduler  *frameScheduler

	width, height int
	visible       bool
}

// NewApp 创建并初始化演示应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 加载持久化偏好（存储不可用时自动降级）
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir unavailable: %v", err)
	}
	store := game.OpenGdataStore(storageAppName, prefsNamespace)
	settings := game.NewSettingsManager(store)
	if cfg.Tier != "" {
		settings.SetTier(cfg.Tier)
	}

	// 加载档位表：嵌入资源不可用时回退到内置表
	table, err := config.LoadTable("data/intensity.yaml")
	if err != nil {
		log.Printf("[App] Warning: failed to load intensity table: %v (using builtin)", err)
		table = config.Builtin()
	}

	// 可选的季节门控：是否显示由调用方（本应用）决定，引擎只提供查询
	var predicate effect.SeasonPredicate
	if cfg.SeasonGated {
		predicate = func() bool { return effect.IsFestiveSeason(time.Now()) }
	}

	width, height := DefaultWindowWidth, DefaultWindowHeight
	if utils.IsMobile() {
		width, height = MobileWindowWidth, MobileWindowHeight
	}

	renderer := effect.NewCanvasRenderer()
	scheduler := newFrameScheduler()
	controller := effect.New(effect.Options{
		Tier:            settings.Settings().Tier,
		Enabled:         settings.Settings().Enabled,
		SeasonPredicate: predicate,
		Table:           table,
		Renderer:        renderer,
		Scheduler:       scheduler,
		Width:           width,
		Height:          height,
		Spawn:           cfg.Spawn,
	})

	app := &App{
		controller: controller,
		renderer:   renderer,
		settings:   settings,
		scheduler:  scheduler,
		width:      width,
		height:     height,
		visible:    true,
	}

	if settings.Settings().Enabled && controller.ShouldDisplay() {
		if err := controller.Init(); err != nil {
			return nil, err
		}
		controller.Start()
	}

	return app, nil
}

// Update 每个 tick 调用一次：处理输入、转发宿主信号、泵送帧调度器
func (a *App) Update() error {
	a.handleInput()
	a.watchVisibility()
	a.scheduler.pump(time.Now())
	return nil
}

// handleInput 处理开关组件的按键输入
func (a *App) handleInput() {
	// S 键：切换特效开关并持久化
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		enabled := !a.settings.Settings().Enabled
		a.settings.SetEnabled(enabled)
		a.saveSettings()
		a.controller.SetEnabled(enabled)
		if enabled {
			if a.controller.ShouldDisplay() {
				if err := a.controller.Init(); err != nil {
					log.Printf("[App] failed to re-init effect: %v", err)
					return
				}
				a.controller.Start()
			}
		} else {
			a.controller.Stop()
		}
	}

	// 空格键：用户显式暂停/恢复
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if a.controller.State() == effect.StateRunning {
			a.controller.Pause()
		} else {
			a.controller.Start()
		}
	}

	// 1/2/3 键：切换强度档位并持久化
	for key, tier := range map[ebiten.Key]string{
		ebiten.Key1: config.TierLight,
		ebiten.Key2: config.TierMedium,
		ebiten.Key3: config.TierHeavy,
	} {
		if inpututil.IsKeyJustPressed(key) {
			a.controller.SetIntensity(tier)
			a.settings.SetTier(a.controller.Tier())
			a.saveSettings()
		}
	}
}

// watchVisibility 监听窗口最小化状态并转发可见性信号
func (a *App) watchVisibility() {
	visible := !ebiten.IsWindowMinimized()
	if visible != a.visible {
		a.visible = visible
		a.controller.NotifyVisibility(visible)
	}
}

// saveSettings 持久化偏好（失败仅记录日志，不中断运行）
func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面：背景 + 特效离屏画布合成
//
// 特效是纯装饰层，绘制在最上层且从不参与命中测试。
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backdropColor)
	if surface := a.renderer.Surface(); surface != nil {
		screen.DrawImage(surface, nil)
	}
}

// Layout 返回逻辑屏幕尺寸，跟随窗口尺寸并转发视口变化信号
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width = outsideWidth
		a.height = outsideHeight
		a.controller.NotifyResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Controller 返回特效控制器（供移动端与测试使用）
func (a *App) Controller() *effect.Controller {
	return a.controller
}
