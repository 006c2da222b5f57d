// Package config 提供雪景特效的强度档位配置
//
// 强度档位（tier）决定飘落粒子的数量、速度/尺寸范围以及静态装饰物
// （圣诞树、花环）的数量。内置档位表以 YAML 形式嵌入在 data/intensity.yaml，
// 调用方也可以通过 ParseTable 加载自定义档位表。
package config

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/decker502/snowfx/pkg/embedded"
)

// 内置档位名称
const (
	TierLight  = "light"
	TierMedium = "medium"
	TierHeavy  = "heavy"
)

// 未知档位名称的建议匹配的最大编辑距离
const maxSuggestDistance = 2

// Profile 单个强度档位的粒子与物理参数
//
// 约束：SpeedMin <= SpeedMax，SizeMin <= SizeMax，所有数量 >= 0。
// 校验在 Validate 中进行，加载档位表时对每个档位调用。
type Profile struct {
	Count       int     `yaml:"count"`       // 飘落粒子数量
	SpeedMin    float64 `yaml:"speedMin"`    // 下落速度下限（像素/标准帧）
	SpeedMax    float64 `yaml:"speedMax"`    // 下落速度上限
	SizeMin     float64 `yaml:"sizeMin"`     // 粒子尺寸下限（像素）
	SizeMax     float64 `yaml:"sizeMax"`     // 粒子尺寸上限
	TreeCount   int     `yaml:"treeCount"`   // 圣诞树数量
	WreathCount int     `yaml:"wreathCount"` // 花环数量
}

// Validate 校验档位参数的合法性
func (p Profile) Validate() error {
	if p.Count < 0 || p.TreeCount < 0 || p.WreathCount < 0 {
		return fmt.Errorf("counts must be >= 0 (count=%d, trees=%d, wreaths=%d)",
			p.Count, p.TreeCount, p.WreathCount)
	}
	if p.SpeedMin > p.SpeedMax {
		return fmt.Errorf("speed range is empty: min=%.2f > max=%.2f", p.SpeedMin, p.SpeedMax)
	}
	if p.SizeMin > p.SizeMax {
		return fmt.Errorf("size range is empty: min=%.2f > max=%.2f", p.SizeMin, p.SizeMax)
	}
	return nil
}

// Table 档位表：档位名称 -> 参数
type Table map[string]Profile

// tableFile YAML 档位表文件的顶层结构
type tableFile struct {
	Tiers map[string]Profile `yaml:"tiers"`
}

// ParseTable 从 YAML 数据解析档位表
//
// 每个档位都会被校验，任何一个档位不合法则整个表被拒绝。
func ParseTable(data []byte) (Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intensity table: %w", err)
	}
	if len(file.Tiers) == 0 {
		return nil, fmt.Errorf("intensity table contains no tiers")
	}
	for name, profile := range file.Tiers {
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tier %q: %w", name, err)
		}
	}
	return Table(file.Tiers), nil
}

// LoadTable 从嵌入资源加载档位表
//
// path 必须以 "data/" 开头（与 embedded 包的约定一致）。
func LoadTable(path string) (Table, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intensity table %s: %w", path, err)
	}
	return ParseTable(data)
}

// Builtin 返回内置档位表（代码内兜底）
//
// 与 data/intensity.yaml 保持一致。嵌入资源不可用时（如未调用
// embedded.Init 的降级场景）使用此表，保证特效仍可运行。
func Builtin() Table {
	return Table{
		TierLight:  {Count: 40, SpeedMin: 0.5, SpeedMax: 1.5, SizeMin: 2.0, SizeMax: 4.0, TreeCount: 1, WreathCount: 1},
		TierMedium: {Count: 100, SpeedMin: 0.8, SpeedMax: 2.2, SizeMin: 2.0, SizeMax: 5.0, TreeCount: 2, WreathCount: 2},
		TierHeavy:  {Count: 200, SpeedMin: 1.0, SpeedMax: 3.0, SizeMin: 2.0, SizeMax: 6.0, TreeCount: 3, WreathCount: 3},
	}
}

// Lookup 查找档位，未知档位返回 (零值, false)
func (t Table) Lookup(name string) (Profile, bool) {
	p, ok := t[name]
	return p, ok
}

// Names 返回所有档位名称（字典序，便于日志输出稳定）
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest 为未知档位名称推荐最接近的已知档位
//
// 使用编辑距离匹配（如 "hevy" -> "heavy"），距离超过 maxSuggestDistance
// 则认为没有合理建议。仅用于日志提示，不影响档位切换的静默忽略语义。
func (t Table) Suggest(name string) (string, bool) {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range t.Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, best != ""
}
