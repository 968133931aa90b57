package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "betterpage",
		Location: "America/Santiago",
		Workdir:  "/var/betterpage",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0731-1203-xxtx-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "betterpage",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/betterpage/betterpage.log",
	},
}

func setEnvStringValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := strconv.Atoi(evalue); err == nil {
		*val = p
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue == "" {
		return
	}
	*val = evalue == "true" || evalue == "1" || evalue == "on"
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file falls back to defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvStringValue("BETTERPAGE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("BETTERPAGE_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvStringValue("BETTERPAGE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("BETTERPAGE_WEB_PORT", &cfg.Web.Port)
	setEnvStringValue("BETTERPAGE_WEB_SECRET", &cfg.Web.Secret)
	setEnvStringValue("BETTERPAGE_DB_TYPE", &cfg.Database.Type)
	setEnvStringValue("BETTERPAGE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("BETTERPAGE_DB_PORT", &cfg.Database.Port)
	setEnvStringValue("BETTERPAGE_DB_NAME", &cfg.Database.Name)
	setEnvStringValue("BETTERPAGE_DB_USER", &cfg.Database.User)
	setEnvStringValue("BETTERPAGE_DB_PWD", &cfg.Database.Passwd)
	setEnvStringValue("BETTERPAGE_LOGGER_MODE", &cfg.Logger.Mode)

	return cfg
}
