package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Address                   string
		DebugAddress              string
		Host                      string
		AllowedOrigins            []string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
		DisableRequestLogs        bool
	}

	databaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	storageConfig struct {
		Backend          string // local | oss
		LocalDir         string
		PublicBaseURL    string
		OSSEndpoint      string
		OSSAccessKey     string
		OSSSecretKey     string
		OSSSecurityToken string
		OSSBucket        string
		MaxUploadSize    int64
		ImageMaxSize     int
		WebPQuality      float32
	}

	schedulerConfig struct {
		Enabled          bool
		DueReminderSpec  string
		TokenCleanupSpec string
	}

	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		AppName         string
		Debug           bool
		TestMode        bool
		SecretKey       string
		TimeZone        string
		WorkDir         string
		FrontendBaseURL string
		FromEmail       string
		SendgridAPIKey  string
		RollbarToken    string
		LogFile         string

		Server    serverConfig
		Database  databaseConfig
		Storage   storageConfig
		Scheduler schedulerConfig

		loc *time.Location
	}
)

func (c databaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.FromEmail}
}

// Location is the time zone "today" is computed in.
func (c *Config) Location() *time.Location {
	if c.loc != nil {
		return c.loc
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	c.loc = loc
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Mentori")
	v.SetDefault("secretKey", "k2#v9z!mq8@w1r$e7t(y5u)i3o&p0a*s4d%f6g^h8j+l2x=c")
	v.SetDefault("timeZone", "Asia/Seoul")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("fromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("logFile", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:5173"})
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 30*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableRequestLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mentori")
	v.SetDefault("database.user", "mentori")
	v.SetDefault("database.password", "mentori")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.localDir", "uploads")
	v.SetDefault("storage.publicBaseURL", "http://localhost:8000/uploads")
	v.SetDefault("storage.ossEndpoint", "")
	v.SetDefault("storage.ossAccessKey", "")
	v.SetDefault("storage.ossSecretKey", "")
	v.SetDefault("storage.ossSecurityToken", "")
	v.SetDefault("storage.ossBucket", "")
	v.SetDefault("storage.maxUploadSize", 10*1024*1024)
	v.SetDefault("storage.imageMaxSize", 1600)
	v.SetDefault("storage.webpQuality", 80)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.dueReminderSpec", "0 20 * * *")
	v.SetDefault("scheduler.tokenCleanupSpec", "@hourly")
}

// NewConfig loads the app configuration from defaults, an optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased ENV, eg. `PROD_DATABASE_HOST`.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		SecretKey:       v.GetString("secretKey"),
		TimeZone:        v.GetString("timeZone"),
		WorkDir:         wd,
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		FromEmail:       v.GetString("fromEmail"),
		SendgridAPIKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		LogFile:         v.GetString("logFile"),
		Server: serverConfig{
			Address:                   v.GetString("server.address"),
			DebugAddress:              v.GetString("server.debugAddress"),
			Host:                      v.GetString("server.host"),
			AllowedOrigins:            v.GetStringSlice("server.allowedOrigins"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			DisableRequestLogs:        v.GetBool("server.disableRequestLogs"),
		},
		Database: databaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Storage: storageConfig{
			Backend:          v.GetString("storage.backend"),
			LocalDir:         v.GetString("storage.localDir"),
			PublicBaseURL:    v.GetString("storage.publicBaseURL"),
			OSSEndpoint:      v.GetString("storage.ossEndpoint"),
			OSSAccessKey:     v.GetString("storage.ossAccessKey"),
			OSSSecretKey:     v.GetString("storage.ossSecretKey"),
			OSSSecurityToken: v.GetString("storage.ossSecurityToken"),
			OSSBucket:        v.GetString("storage.ossBucket"),
			MaxUploadSize:    v.GetInt64("storage.maxUploadSize"),
			ImageMaxSize:     v.GetInt("storage.imageMaxSize"),
			WebPQuality:      float32(v.GetFloat64("storage.webpQuality")),
		},
		Scheduler: schedulerConfig{
			Enabled:          v.GetBool("scheduler.enabled"),
			DueReminderSpec:  v.GetString("scheduler.dueReminderSpec"),
			TokenCleanupSpec: v.GetString("scheduler.tokenCleanupSpec"),
		},
	}
}
