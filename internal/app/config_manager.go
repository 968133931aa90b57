package app

import (
	_ "embed"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/betterpage/betterpage/internal/domain"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed config_schemas.json
var configSchemasData []byte

// ConfigSchema defines one runtime setting with its default value.
type ConfigSchema struct {
	Key         string `json:"key"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

// ConfigManager resolves runtime settings from sys_config with the embedded
// schema defaults as fallback. Values are cached after the first read.
type ConfigManager struct {
	db       *gorm.DB
	mu       sync.RWMutex
	cache    map[string]string
	defaults map[string]string
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	m := &ConfigManager{
		db:       db,
		cache:    make(map[string]string),
		defaults: make(map[string]string),
	}
	var schemasData ConfigSchemasJSON
	if err := jsonAPI.Unmarshal(configSchemasData, &schemasData); err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return m
	}
	for _, schema := range schemasData.Schemas {
		m.defaults[schema.Key] = schema.Default
	}
	return m
}

func settingKey(category, name string) string {
	return fmt.Sprintf("%s.%s", category, name)
}

// GetString resolves a setting, preferring cache, then DB, then the default.
func (m *ConfigManager) GetString(category, name string) string {
	key := settingKey(category, name)

	m.mu.RLock()
	if v, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()

	value, ok := m.defaults[key]
	if m.db != nil {
		var row domain.SysConfig
		err := m.db.Where("type = ? and name = ?", category, name).First(&row).Error
		if err == nil {
			value, ok = row.Value, true
		}
	}
	if !ok {
		return ""
	}

	m.mu.Lock()
	m.cache[key] = value
	m.mu.Unlock()
	return value
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue writes a setting back to sys_config and refreshes the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	if m.db != nil {
		err := m.db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", value).Error
		if err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.cache[settingKey(category, name)] = value
	m.mu.Unlock()
	return nil
}
