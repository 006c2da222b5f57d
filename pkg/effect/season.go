package effect

import "time"

// SeasonPredicate 由调用方提供的季节判定回调
//
// 引擎只负责调用，不内置任何节日日期逻辑；shouldDisplay 仅作建议，
// 是否真正启动特效由调用方决定。
type SeasonPredicate func() bool

// IsFestiveSeason 独立的节日判定辅助函数：12 月全月，或 1 月 1~3 日
//
// 调用方可以直接把它包装成 SeasonPredicate，也可以换成任意自定义逻辑。
func IsFestiveSeason(t time.Time) bool {
	switch t.Month() {
	case time.December:
		return true
	case time.January:
		return t.Day() <= 3
	default:
		return false
	}
}
