package config

import (
	"strings"
	"testing"
)

// TestParseTableValid 测试合法档位表的解析
func TestParseTableValid(t *testing.T) {
	data := []byte(`
tiers:
  gentle:
    count: 10
    speedMin: 0.5
    speedMax: 1.0
    sizeMin: 1.0
    sizeMax: 2.0
    treeCount: 1
    wreathCount: 0
`)
	table, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	p, ok := table.Lookup("gentle")
	if !ok {
		t.Fatal("expected tier 'gentle' to exist")
	}
	if p.Count != 10 || p.TreeCount != 1 || p.WreathCount != 0 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

// TestParseTableRejectsEmptyRange 速度/尺寸区间为空（min > max）时整表被拒绝
func TestParseTableRejectsEmptyRange(t *testing.T) {
	data := []byte(`
tiers:
  broken:
    count: 10
    speedMin: 2.0
    speedMax: 1.0
    sizeMin: 1.0
    sizeMax: 2.0
`)
	if _, err := ParseTable(data); err == nil {
		t.Fatal("expected error for empty speed range")
	}
}

// TestParseTableRejectsNegativeCounts 负数量不合法
func TestParseTableRejectsNegativeCounts(t *testing.T) {
	data := []byte(`
tiers:
  broken:
    count: -1
    speedMin: 0.5
    speedMax: 1.0
    sizeMin: 1.0
    sizeMax: 2.0
`)
	if _, err := ParseTable(data); err == nil {
		t.Fatal("expected error for negative count")
	}
}

// TestParseTableRejectsEmptyTable 没有任何档位的表不合法
func TestParseTableRejectsEmptyTable(t *testing.T) {
	if _, err := ParseTable([]byte("tiers: {}")); err == nil {
		t.Fatal("expected error for empty table")
	}
}

// TestBuiltinTable 内置表包含三个标准档位且全部合法
func TestBuiltinTable(t *testing.T) {
	table := Builtin()
	for _, tier := range []string{TierLight, TierMedium, TierHeavy} {
		p, ok := table.Lookup(tier)
		if !ok {
			t.Fatalf("builtin table missing tier %q", tier)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("builtin tier %q invalid: %v", tier, err)
		}
	}
	// 强度单调：heavy 的粒子数应多于 light
	light, _ := table.Lookup(TierLight)
	heavy, _ := table.Lookup(TierHeavy)
	if heavy.Count <= light.Count {
		t.Errorf("expected heavy count > light count, got %d <= %d", heavy.Count, light.Count)
	}
}

// TestLookupUnknownTier 未知档位返回 (零值, false)
func TestLookupUnknownTier(t *testing.T) {
	if _, ok := Builtin().Lookup("blizzard"); ok {
		t.Fatal("expected unknown tier lookup to fail")
	}
}

// TestSuggest 编辑距离建议：拼写接近时给出建议，相差太远时不给
func TestSuggest(t *testing.T) {
	table := Builtin()

	if s, ok := table.Suggest("hevy"); !ok || s != TierHeavy {
		t.Errorf("Suggest(hevy) = (%q, %v), want (%q, true)", s, ok, TierHeavy)
	}
	if s, ok := table.Suggest("ligt"); !ok || s != TierLight {
		t.Errorf("Suggest(ligt) = (%q, %v), want (%q, true)", s, ok, TierLight)
	}
	if _, ok := table.Suggest("thunderstorm"); ok {
		t.Error("expected no suggestion for a completely different name")
	}
}

// TestNamesSorted 档位名称按字典序返回，保证日志输出稳定
func TestNamesSorted(t *testing.T) {
	names := Builtin().Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}
	joined := strings.Join(names, ",")
	if joined != "heavy,light,medium" {
		t.Errorf("unexpected order: %s", joined)
	}
}
