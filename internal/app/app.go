package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/betterpage/betterpage/config"
	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager
	gateway       store.Gateway
	authService   *auth.AuthService
}

// Ensure Application implements all interfaces
var (
	_ DBProvider           = (*Application)(nil)
	_ ConfigProvider       = (*Application)(nil)
	_ SettingsProvider     = (*Application)(nil)
	_ AppContext           = (*Application)(nil)
	_ webserver.AppContext = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Store() store.Gateway {
	return a.gateway
}

func (a *Application) Auth() *auth.AuthService {
	return a.authService
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// The memory backend serves development and tests; everything else goes
	// through gorm/postgres.
	if cfg.Database.Type == "memory" {
		a.initMemoryBackend()
	} else {
		a.gormDB = getDatabase(cfg.Database)
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}

		a.configManager = NewConfigManager(a.gormDB)
		a.checkSettings()
		a.checkSuper()
		a.checkDemoData()

		a.gateway = store.NewGormStore(a.gormDB)
		a.authService = auth.NewAuthService(
			auth.NewGormUserRepository(a.gormDB),
			auth.NewGormSessionRepository(a.gormDB),
			a.SessionTTL(),
		)
	}

	a.initJob()
}

// initMemoryBackend wires the in-memory store and identity with a default
// admin account. No migration and no settings table.
func (a *Application) initMemoryBackend() {
	a.configManager = NewConfigManager(nil)
	a.gateway = store.NewMemory()

	identity := auth.NewMemoryIdentity()
	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		panic(err)
	}
	identity.AddUser(domain.SysUser{
		Username: defaultAdminUsername,
		Email:    "admin@betterpage.local",
		Password: hash,
		IsStaff:  true,
		Status:   domain.StatusEnabled,
	})
	a.authService = auth.NewAuthService(identity, identity, a.SessionTTL())
	zap.S().Warn("running with in-memory backend, data is not persisted")
}

func (a *Application) MigrateDB(track bool) (err error) {
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// SessionTTL is how long a login session stays valid.
func (a *Application) SessionTTL() time.Duration {
	hours := a.configManager.GetInt64("system", "session_ttl_hours")
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// RecordUserLog appends an audit row. Best effort.
func (a *Application) RecordUserLog(username, ip, action, desc string) {
	if a.gormDB == nil {
		zap.L().Info("audit", zap.String("username", username),
			zap.String("ip", ip), zap.String("action", action), zap.String("desc", desc))
		return
	}
	err := a.gormDB.Create(&domain.SysUserLog{
		Username: username,
		Ip:       ip,
		Action:   action,
		Desc:     desc,
		OptTime:  time.Now(),
	}).Error
	if err != nil {
		zap.L().Warn("failed to write user log", zap.Error(err))
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = zap.L().Sync()
}

// PurgeSessionsNow triggers an immediate expired-session sweep.
func (a *Application) PurgeSessionsNow(ctx context.Context) error {
	n, err := a.authService.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		zap.S().Infof("purged %d expired sessions", n)
	}
	return nil
}
