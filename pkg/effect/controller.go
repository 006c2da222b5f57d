package effect

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/snowfx/pkg/config"
)

// 视口尺寸变化后重建种群前的静默期（毫秒）
const resizeDebounceMs = 250

// 单帧时间增量上限（毫秒）：避免长时间挂起后恢复时物理"瞬移"
const maxFrameDeltaMs = 100.0

// Scheduler 宿主帧调度原语
//
// Request 注册一个在下次重绘前调用一次的回调并返回请求句柄，
// Cancel 撤销尚未触发的请求。对应浏览器的
// requestAnimationFrame / cancelAnimationFrame 语义。
type Scheduler interface {
	Request(fn func(now time.Time)) int64
	Cancel(id int64)
}

// Clock 时间源，测试中可注入假时钟
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Renderer 控制器依赖的渲染抽象
//
// Init 创建与视口等尺寸的绘制表面（失败时控制器停留在未初始化态），
// Frame 绘制一帧，Release 释放表面。Release 后的 Frame 必须安全早退。
type Renderer interface {
	Init(width, height int) error
	Frame(world *World)
	Release()
}

// State 控制器生命周期状态
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Options 控制器构造参数
//
// 依赖全部显式注入（调度器、时钟、渲染器、档位表），控制器不访问
// 任何全局对象；每个实例自持监听与资源，Stop 时全部释放。
type Options struct {
	Tier            string          // 初始强度档位，未知档位回退到 medium
	Enabled         bool            // 初始启用标记（影响可见性恢复时是否自动续播）
	SeasonPredicate SeasonPredicate // 可选季节判定，nil 表示总是显示
	Table           config.Table    // 档位表，nil 使用内置表
	Renderer        Renderer        // 渲染器，nil 使用 CanvasRenderer
	Scheduler       Scheduler       // 帧调度器，必填
	Clock           Clock           // 时钟，nil 使用系统时钟
	Width, Height   int             // 初始视口尺寸
	Spawn           SpawnRates      // 精灵生成概率，零值使用默认
	Seed            int64           // 随机种子，0 使用时间种子
}

// Controller 特效控制器（生命周期状态机）
//
// 持有绘制表面、粒子集合与帧循环调度。所有方法都必须在同一个
// 帧/事件线程上调用（单线程协作模型，见包文档），因此不加锁；
// 帧回调通过 epoch 令牌保证暂停/停止后不会有悬挂回调触碰状态。
type Controller struct {
	state State
	tier  string

	table     config.Table
	renderer  Renderer
	scheduler Scheduler
	clock     Clock
	predicate SeasonPredicate
	spawn     SpawnRates
	rng       *rand.Rand

	width, height int
	world         *World

	enabled    bool
	userPaused bool

	// 帧循环状态：epoch 在每次暂停/停止时递增，
	// 旧回调进入时发现 epoch 不匹配立即返回
	epoch      uint64
	pendingID  int64
	hasPending bool
	lastTick   time.Time

	// 视口变化防抖
	resizePending  bool
	resizeW        int
	resizeH        int
	resizeDeadline time.Time
}

// New 创建控制器，不分配任何资源（资源在 Init 中获取）
func New(opts Options) *Controller {
	table := opts.Table
	if table == nil {
		table = config.Builtin()
	}
	tier := opts.Tier
	if _, ok := table.Lookup(tier); !ok {
		if tier != "" {
			log.Printf("[SnowEffect] unknown initial tier %q, falling back to %q", tier, config.TierMedium)
		}
		tier = config.TierMedium
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewCanvasRenderer()
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	spawn := opts.Spawn
	if spawn == (SpawnRates{}) {
		spawn = DefaultSpawnRates()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Controller{
		state:     StateUninitialized,
		tier:      tier,
		table:     table,
		renderer:  renderer,
		scheduler: opts.Scheduler,
		clock:     clock,
		predicate: opts.SeasonPredicate,
		spawn:     spawn,
		rng:       rand.New(rand.NewSource(seed)),
		width:     opts.Width,
		height:    opts.Height,
		enabled:   opts.Enabled,
	}
}

// Init 创建绘制表面并构建粒子种群：Uninitialized -> Ready
//
// 已初始化时为幂等空操作。表面创建失败时不部分构建，
// 控制器停留在 Uninitialized 并返回错误。
func (c *Controller) Init() error {
	if c.state != StateUninitialized {
		return nil
	}
	if c.scheduler == nil {
		return fmt.Errorf("snow effect requires a frame scheduler")
	}
	if err := c.renderer.Init(c.width, c.height); err != nil {
		return fmt.Errorf("failed to create drawing surface: %w", err)
	}

	c.world = NewWorld(float64(c.width), float64(c.height), c.spawn, c.rng)
	c.rebuildPopulation()
	c.state = StateReady
	log.Printf("[SnowEffect] initialized: tier=%s viewport=%dx%d", c.tier, c.width, c.height)
	return nil
}

// Start 启动帧循环：Ready/Paused -> Running
//
// 未初始化或已在运行时为空操作。从 Paused 恢复不重建种群。
func (c *Controller) Start() {
	if c.state != StateReady && c.state != StatePaused {
		return
	}
	c.state = StateRunning
	c.userPaused = false
	c.lastTick = c.clock.Now()
	c.maybeApplyResize(c.lastTick)
	c.scheduleFrame()
	log.Printf("[SnowEffect] started")
}

// Pause 用户显式暂停：Running -> Paused，撤销待触发的帧回调
//
// 任意状态下调用都安全（非运行态为空操作）。
func (c *Controller) Pause() {
	if c.state == StateRunning {
		c.userPaused = true
	}
	c.haltLoop()
}

// Stop 停止并释放全部资源：任意状态 -> Uninitialized
//
// 隐含暂停；释放绘制表面、清空粒子集合。可重复调用。
func (c *Controller) Stop() {
	if c.state == StateUninitialized {
		return
	}
	c.haltLoop()
	c.renderer.Release()
	c.world = nil
	c.resizePending = false
	c.userPaused = false
	c.state = StateUninitialized
	log.Printf("[SnowEffect] stopped")
}

// SetIntensity 切换强度档位并原地重建粒子种群
//
// 未知档位静默忽略（仅日志提示，当前档位与种群保持不变），
// 与参考实现对无效 setIntensity 调用的空操作行为一致。
func (c *Controller) SetIntensity(tier string) {
	if _, ok := c.table.Lookup(tier); !ok {
		if suggestion, found := c.table.Suggest(tier); found {
			log.Printf("[SnowEffect] unknown tier %q ignored (did you mean %q?)", tier, suggestion)
		} else {
			log.Printf("[SnowEffect] unknown tier %q ignored (known tiers: %v)", tier, c.table.Names())
		}
		return
	}
	c.tier = tier
	if c.state == StateUninitialized {
		return
	}
	c.rebuildPopulation()
	log.Printf("[SnowEffect] intensity set to %q", tier)
}

// SetEnabled 更新启用标记（影响可见性恢复时是否自动续播）
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// ShouldDisplay 纯查询：未配置季节判定时恒为 true，否则返回判定结果
//
// 不改变任何状态，也从不被 Start/Stop 自动调用；是否据此启动特效
// 由调用方决定。
func (c *Controller) ShouldDisplay() bool {
	if c.predicate == nil {
		return true
	}
	return c.predicate()
}

// NotifyResize 宿主视口尺寸变化信号
//
// 防抖处理：记录目标尺寸与静默期截止时间，静默期过后（在帧循环内
// 或下次 Start 时）重建表面与种群。连续变化只触发一次重建。
func (c *Controller) NotifyResize(width, height int) {
	c.resizeW = width
	c.resizeH = height
	c.resizePending = true
	c.resizeDeadline = c.clock.Now().Add(resizeDebounceMs * time.Millisecond)
}

// NotifyVisibility 宿主前后台切换信号
//
// 失去可见性强制暂停；恢复可见性仅在特效启用且未被用户显式暂停时
// 续播。信号只切换暂停/恢复标志，从不直接改写粒子数组。
func (c *Controller) NotifyVisibility(visible bool) {
	if !visible {
		c.haltLoop()
		return
	}
	if c.state == StatePaused && c.enabled && !c.userPaused {
		c.Start()
	}
}

// State 返回当前生命周期状态
func (c *Controller) State() State { return c.state }

// Tier 返回当前强度档位
func (c *Controller) Tier() string { return c.tier }

// World 返回模拟状态（未初始化时为 nil）
func (c *Controller) World() *World { return c.world }

// haltLoop 停止帧循环但保留粒子状态：Running -> Paused
//
// 撤销待触发的帧请求并递增 epoch，已在途的回调进入后
// 发现 epoch 不匹配会直接返回，不会触碰已释放的表面。
func (c *Controller) haltLoop() {
	c.epoch++
	if c.hasPending {
		c.scheduler.Cancel(c.pendingID)
		c.hasPending = false
	}
	if c.state == StateRunning {
		c.state = StatePaused
		log.Printf("[SnowEffect] paused")
	}
}

// rebuildPopulation 丢弃旧种群并按当前档位重建
func (c *Controller) rebuildPopulation() {
	profile, _ := c.table.Lookup(c.tier)
	c.world.Rebuild(BuildPopulation(profile, float64(c.width), float64(c.height), c.rng))
}

// scheduleFrame 注册下一帧回调，携带当前 epoch 令牌
func (c *Controller) scheduleFrame() {
	epoch := c.epoch
	c.pendingID = c.scheduler.Request(func(now time.Time) { c.tick(epoch, now) })
	c.hasPending = true
}

// tick 单帧工作单元：模拟 + 渲染，然后自我重新调度
//
// 进入时与重新调度前都检查存活条件（epoch/状态/世界），
// 保证暂停/停止后的悬挂回调是安全空操作。
func (c *Controller) tick(epoch uint64, now time.Time) {
	if epoch != c.epoch || c.state != StateRunning || c.world == nil {
		return
	}
	c.hasPending = false

	deltaMs := float64(now.Sub(c.lastTick)) / float64(time.Millisecond)
	c.lastTick = now
	if deltaMs > maxFrameDeltaMs {
		deltaMs = maxFrameDeltaMs
	}

	c.maybeApplyResize(now)

	c.world.Advance(deltaMs)
	c.renderer.Frame(c.world)

	if c.state == StateRunning && epoch == c.epoch {
		c.scheduleFrame()
	}
}

// maybeApplyResize 静默期已过时应用挂起的视口变化：
// 重建绘制表面并整体重建粒子种群
func (c *Controller) maybeApplyResize(now time.Time) {
	if !c.resizePending || now.Before(c.resizeDeadline) {
		return
	}
	c.resizePending = false
	if c.resizeW == c.width && c.resizeH == c.height {
		return
	}
	if err := c.renderer.Init(c.resizeW, c.resizeH); err != nil {
		log.Printf("[SnowEffect] resize to %dx%d failed: %v", c.resizeW, c.resizeH, err)
		return
	}
	c.width = c.resizeW
	c.height = c.resizeH
	c.world.Width = float64(c.width)
	c.world.Height = float64(c.height)
	c.rebuildPopulation()
	log.Printf("[SnowEffect] resized to %dx%d, population rebuilt", c.width, c.height)
}
