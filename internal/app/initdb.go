package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/domain"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "betterpage"
)

// checkSuper makes sure the default admin account exists and is usable.
func (a *Application) checkSuper() {
	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var user domain.SysUser
	err = a.gormDB.Where("username = ?", defaultAdminUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysUser{
			Username:  defaultAdminUsername,
			Email:     "admin@betterpage.local",
			Password:  hashedPassword,
			IsStaff:   true,
			Status:    domain.StatusEnabled,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account",
				zap.String("username", defaultAdminUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(user.Password) == ""
	resetStatus := !strings.EqualFold(user.Status, domain.StatusEnabled)

	if !resetPassword && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetStatus {
		updates["status"] = domain.StatusEnabled
	}

	if err := a.gormDB.Model(&domain.SysUser{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("username", defaultAdminUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("statusEnabled", resetStatus))
}

// checkSettings seeds missing sys_config rows from the embedded schema file.
func (a *Application) checkSettings() {
	var schemasData ConfigSchemasJSON
	if err := jsonAPI.Unmarshal(configSchemasData, &schemasData); err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return
	}

	for sortid, schema := range schemasData.Schemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkDemoData seeds sample catalog rows when system.demo_data is enabled.
func (a *Application) checkDemoData() {
	if !a.configManager.GetBool("system", "demo_data") {
		return
	}

	defaultProducts := []domain.Product{
		{Name: "demo-widget-basic", Price: domain.MustMoney("9.99"), Description: "Basic demo widget", Stock: 100},
		{Name: "demo-widget-pro", Price: domain.MustMoney("24.50"), Description: "Pro demo widget", Stock: 50},
	}
	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized demo product", zap.String("name", p.Name))
			}
		}
	}

	defaultServices := []domain.Service{
		{Name: "demo-service-annual", Price: domain.MustMoney("199.00"), Description: "Annual demo service"},
	}
	for _, s := range defaultServices {
		var count int64
		a.gormDB.Model(&domain.Service{}).Where("name = ?", s.Name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&s).Error; err != nil {
				zap.L().Error("failed to create demo service", zap.String("name", s.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized demo service", zap.String("name", s.Name))
			}
		}
	}
}
