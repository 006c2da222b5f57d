package app

import "time"

// frameScheduler 把 ebiten 的 Update 节拍适配成特效引擎的帧调度原语
//
// Request 注册的回调在下一次 pump（即下一个 ebiten tick）触发一次；
// 回调执行期间注册的新请求归入下一个 tick，与浏览器
// requestAnimationFrame 的语义一致。单线程使用，不加锁。
type frameScheduler struct {
	nextID  int64
	pending map[int64]func(now time.Time)
}

func newFrameScheduler() *frameScheduler {
	return &frameScheduler{
		pending: make(map[int64]func(now time.Time)),
	}
}

// Request 注册一次性帧回调，返回可撤销的请求句柄
func (s *frameScheduler) Request(fn func(now time.Time)) int64 {
	s.nextID++
	s.pending[s.nextID] = fn
	return s.nextID
}

// Cancel 撤销尚未触发的请求（未知句柄为空操作）
func (s *frameScheduler) Cancel(id int64) {
	delete(s.pending, id)
}

// pump 触发当前挂起的全部回调
//
// 先整体取走挂起集合再执行，回调内新注册的请求留到下一次 pump。
func (s *frameScheduler) pump(now time.Time) {
	if len(s.pending) == 0 {
		return
	}
	run := s.pending
	s.pending = make(map[int64]func(now time.Time))
	for _, fn := range run {
		fn(now)
	}
}
