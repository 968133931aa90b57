package app

import (
	"gorm.io/gorm"

	"github.com/betterpage/betterpage/config"
	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/store"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// StoreProvider provides the persistence gateway
type StoreProvider interface {
	Store() store.Gateway
}

// AuthProvider provides the session auth service
type AuthProvider interface {
	Auth() *auth.AuthService
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	StoreProvider
	AuthProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
