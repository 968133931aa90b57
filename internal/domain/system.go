package domain

import (
	"time"
)

const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

type SysConfig struct {
	ID        int64     `json:"id,string" form:"id"`
	Sort      int       `json:"sort" form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

// SysUser is an account allowed to sign in to the API. Password holds a
// bcrypt hash, never the plain credential.
type SysUser struct {
	ID        int64     `json:"id" form:"id"`
	Username  string    `gorm:"size:150;uniqueIndex" json:"username" form:"username"`
	Email     string    `gorm:"size:254" json:"email" form:"email"`
	Password  string    `gorm:"size:128" json:"-" form:"-"`
	IsStaff   bool      `json:"is_staff" form:"is_staff"`
	Status    string    `gorm:"size:16" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login" form:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysUser) TableName() string {
	return "sys_user"
}

// SysSession binds one opaque token to one user id. Sessions live only on the
// server side; the cookie handed to the client carries the token and nothing
// else.
type SysSession struct {
	Token     string    `gorm:"primaryKey;size:64" json:"token"`
	UserID    int64     `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (SysSession) TableName() string {
	return "sys_session"
}

type SysUserLog struct {
	ID        int64     `json:"id,string"`
	Username  string    `json:"username"`
	Ip        string    `json:"ip"`
	Action    string    `json:"action"`
	Desc      string    `json:"desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (SysUserLog) TableName() string {
	return "sys_user_log"
}
