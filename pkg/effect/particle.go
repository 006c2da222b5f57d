// Package effect 实现雪景装饰特效引擎
//
// 引擎由四部分组成：粒子工厂（按强度档位构建粒子种群）、模拟步进
// （逐帧推进物理状态）、渲染器（把粒子绘制到离屏画布）和特效控制器
// （生命周期状态机 + 帧循环调度）。
//
// 粒子分两类存储：飘落粒子（雪花）的更新/绘制规则完全不同，单独一个
// 切片；静态装饰（圣诞树、花环）和过场精灵（雪橇、小精灵）共用一个
// SceneParticle 切片，通过具体类型区分。
package effect

// DriftParticle 飘落粒子（雪花）
//
// 深度层（前/中/后三层）在创建时采样一次，通过尺寸/速度/不透明度/
// 风响应系数体现，不单独存储。粒子不会被销毁：落出底边后回收到顶部
// 上方，左右越界则环绕到另一侧。
type DriftParticle struct {
	X, Y         float64 // 画布坐标（像素）
	Size         float64 // 尺寸（像素）
	Speed        float64 // 下落速度（像素/标准帧）
	Opacity      float64 // 不透明度 0~1
	WindPhase    float64 // 风摆动相位（弧度）
	WindResponse float64 // 风相位推进速率（弧度/标准帧）
	Rotation     float64 // 当前旋转角（弧度）
	RotationRate float64 // 旋转速率（弧度/标准帧）
}

// SceneParticle 场景粒子：静态装饰与过场精灵的标签联合
//
// 每个变体只携带自己需要的字段。静态装饰永远存活；精灵越过
// 屏外边距后标记为不存活，并在当帧末尾被过滤掉。
type SceneParticle interface {
	alive() bool
}

// Tree 静态装饰：圣诞树
//
// 位置、尺寸创建后不变。SnowLevel 随时间随机增长，
// 上限与尺寸成正比，永不减少。
type Tree struct {
	X, Y      float64
	Size      float64 // 树高（像素）
	Opacity   float64
	SnowLevel float64
}

func (t *Tree) alive() bool { return true }

// SnowCap 返回积雪量上限（与尺寸成正比）
func (t *Tree) SnowCap() float64 { return t.Size * 0.35 }

// RingSegment 花环环体的单个角度分段
//
// 分段参数在花环创建时生成一次后不再变化，
// 避免每帧重新随机导致形状抖动。
type RingSegment struct {
	Angle     float64 // 分段中心角（弧度）
	Radius    float64 // 分段半径（含抖动）
	Thickness float64 // 分段粗细
	Shade     float64 // 绿色深浅抖动 0~1
}

// Wreath 静态装饰：花环
type Wreath struct {
	X, Y      float64
	Size      float64 // 环半径（像素）
	Opacity   float64
	Rotation  float64 // 固定旋转角（弧度）
	SnowLevel float64
	Segments  []RingSegment // 创建时生成，之后只读
}

func (w *Wreath) alive() bool { return true }

// SnowCap 返回积雪量上限（与尺寸成正比）
func (w *Wreath) SnowCap() float64 { return w.Size * 0.3 }

// spriteMotion 过场精灵共用的运动状态
//
// 水平匀速平移 + 正弦纵向浮动：
// y = BaselineY + sin(Elapsed*BobFrequency + BobPhase) * BobAmplitude
type spriteMotion struct {
	X            float64 // 当前横坐标
	Y            float64 // 当前纵坐标（每帧由基线+浮动算出）
	VX           float64 // 水平速度（像素/标准帧），符号由入场方向决定
	BaselineY    float64 // 纵向基线
	BobAmplitude float64 // 浮动幅度（像素）
	BobFrequency float64 // 浮动角频率（弧度/毫秒）
	BobPhase     float64 // 浮动初相（弧度）
	Elapsed      float64 // 已存活时间（毫秒）
	gone         bool    // 已越过屏外边距
}

func (s *spriteMotion) alive() bool { return !s.gone }

// Sleigh 过场精灵：驯鹿雪橇
type Sleigh struct {
	spriteMotion
}

// Elf 过场精灵：行走的小精灵
type Elf struct {
	spriteMotion
}

// 精灵越过左右边缘后判定离场的屏外边距（像素）
// 雪橇连驯鹿队形较宽，边距相应更大
const (
	sleighOffscreenMargin = 220.0
	elfOffscreenMargin    = 60.0
)

// offscreenMargin 返回该精灵类型的屏外边距
func (s *Sleigh) offscreenMargin() float64 { return sleighOffscreenMargin }
func (e *Elf) offscreenMargin() float64    { return elfOffscreenMargin }
