package game

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/decker502/snowfx/pkg/config"
)

// OverlaySettings 雪景开关组件的持久化偏好
//
// 注意：这些偏好是全局的，不绑定到特定用户。
type OverlaySettings struct {
	Enabled bool   `yaml:"enabled"` // 特效开关
	Tier    string `yaml:"tier"`    // 所选强度档位
}

// DefaultOverlaySettings 返回默认偏好
func DefaultOverlaySettings() *OverlaySettings {
	return &OverlaySettings{
		Enabled: true,
		Tier:    config.TierMedium,
	}
}

// 偏好在存储中的键名
const settingsKey = "overlay"

// SettingsManager 偏好管理器
// 负责开关组件偏好的加载、保存和内存管理
type SettingsManager struct {
	store    PreferenceStore  // 键值存储，不可用时仅内存偏好
	settings *OverlaySettings // 当前偏好
}

// NewSettingsManager 创建偏好管理器实例
//
// 创建时尝试加载已保存的偏好；加载失败不是致命错误，
// 回退到默认偏好并记录警告。
func NewSettingsManager(store PreferenceStore) *SettingsManager {
	sm := &SettingsManager{
		store:    store,
		settings: DefaultOverlaySettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从存储加载偏好
//
// 存储不可用或键不存在时使用默认偏好，返回 nil；
// 反序列化失败时使用默认偏好并返回错误。
func (sm *SettingsManager) Load() error {
	if sm.store == nil || !sm.store.Available() {
		sm.settings = DefaultOverlaySettings()
		return nil
	}

	blob := sm.store.Get(settingsKey, "")
	if blob == "" {
		sm.settings = DefaultOverlaySettings()
		return nil
	}

	var loaded OverlaySettings
	if err := yaml.Unmarshal([]byte(blob), &loaded); err != nil {
		sm.settings = DefaultOverlaySettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Tier == "" {
		loaded.Tier = config.TierMedium
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存偏好到存储
//
// 存储不可用时返回 nil（降级模式，不报错）。
func (sm *SettingsManager) Save() error {
	if sm.store == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.store.Set(settingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Reset 删除已保存的偏好并恢复默认值
func (sm *SettingsManager) Reset() error {
	sm.settings = DefaultOverlaySettings()
	if sm.store == nil {
		return nil
	}
	return sm.store.Remove(settingsKey)
}

// Settings 获取当前偏好
func (sm *SettingsManager) Settings() *OverlaySettings {
	return sm.settings
}

// SetEnabled 设置特效开关
// 注意：仅修改内存中的偏好，需调用 Save() 持久化
func (sm *SettingsManager) SetEnabled(enabled bool) {
	sm.settings.Enabled = enabled
}

// SetTier 设置强度档位
// 注意：仅修改内存中的偏好，需调用 Save() 持久化
func (sm *SettingsManager) SetTier(tier string) {
	sm.settings.Tier = tier
}
