// Package game 提供特效外围的偏好持久化
//
// 引擎核心不依赖本包：偏好存储只被外围的开关组件使用，用于跨会话
// 记住启用状态与所选强度档位。存储不可用时特效照常工作，只是偏好
// 不被持久化（降级模式）。
package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
)

// PreferenceStore 键值偏好存储契约
//
// 实现必须提供带默认值的读取、写入、删除和可用性探测；
// 键空间由创建时的命名空间前缀隔离。
type PreferenceStore interface {
	// Get 读取键值，键不存在或存储不可用时返回 defaultValue
	Get(key, defaultValue string) string
	// Set 写入键值
	Set(key, value string) error
	// Remove 删除键（键不存在时为空操作）
	Remove(key string) error
	// Available 探测持久化是否可用（false 表示降级模式）
	Available() bool
}

// GdataStore 基于 gdata 跨平台存储的 PreferenceStore 实现
//
// namespace 作为 gdata 对象名隔离键空间。manager 可为 nil：
// 此时退化为进程内内存存储，Available 返回 false，
// 读写在当前会话内仍然一致。
type GdataStore struct {
	manager   *gdata.Manager
	namespace string
	fallback  map[string]string // manager 为 nil 时的会话内兜底
}

// NewGdataStore 创建偏好存储
//
// 参数：
//   - manager: gdata 存储管理器，可为 nil（降级模式）
//   - namespace: 键空间前缀（gdata 对象名）
func NewGdataStore(manager *gdata.Manager, namespace string) *GdataStore {
	if manager == nil {
		log.Printf("[Preferences] gdata manager unavailable, preferences will not persist")
	}
	return &GdataStore{
		manager:   manager,
		namespace: namespace,
		fallback:  make(map[string]string),
	}
}

// OpenGdataStore 按应用名打开 gdata 并创建偏好存储
//
// gdata 初始化失败不是致命错误：返回降级模式的存储。
func OpenGdataStore(appName, namespace string) *GdataStore {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Preferences] Warning: failed to open gdata storage: %v (running without persistence)", err)
		manager = nil
	}
	return NewGdataStore(manager, namespace)
}

// Get 读取键值，不存在或读取失败时返回默认值
func (s *GdataStore) Get(key, defaultValue string) string {
	if s.manager == nil {
		if v, ok := s.fallback[key]; ok {
			return v
		}
		return defaultValue
	}
	if !s.manager.ObjectPropExists(s.namespace, key) {
		return defaultValue
	}
	data, err := s.manager.LoadObjectProp(s.namespace, key)
	if err != nil {
		log.Printf("[Preferences] Warning: failed to load %s/%s: %v", s.namespace, key, err)
		return defaultValue
	}
	return string(data)
}

// Set 写入键值
func (s *GdataStore) Set(key, value string) error {
	if s.manager == nil {
		s.fallback[key] = value
		return nil
	}
	if err := s.manager.SaveObjectProp(s.namespace, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// Remove 删除键
func (s *GdataStore) Remove(key string) error {
	if s.manager == nil {
		delete(s.fallback, key)
		return nil
	}
	if !s.manager.ObjectPropExists(s.namespace, key) {
		return nil
	}
	if err := s.manager.DeleteObjectProp(s.namespace, key); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// Available 返回持久化是否可用
func (s *GdataStore) Available() bool {
	return s.manager != nil
}
