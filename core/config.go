package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	ServerConfig struct {
		Host                      string
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	StorageConfig struct {
		Backend     string // "local" | "database"
		Dir         string // local backend: directory holding one snapshot file per collection
		DatabaseURL string // database backend
	}

	// LatencyConfig holds the artificial delay applied per registry to simulate
	// network round trips. Zero means no delay.
	LatencyConfig struct {
		Auth    time.Duration
		Student time.Duration
		Course  time.Duration
		Grade   time.Duration
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string
		Build    string

		SecretKey    string
		DemoPassword string

		DefaultFromEmail mail.Address
		FrontendBaseURL  string
		SendgridAPIKey   string
		RollbarToken     string

		PasswordResetTimeoutDelta time.Duration

		Server  ServerConfig
		Storage StorageConfig
		Latency LatencyConfig
	}
)

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Academia")
	v.SetDefault("secretKey", "n0t-s0-s3cret-d3mo-k3y_(replace-in-prod)")
	v.SetDefault("demoPassword", "123456")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:4200")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("storageBackend", "local")
	v.SetDefault("storageDir", "data")
	v.SetDefault("databaseURL", "")
	v.SetDefault("authLatency", 200*time.Millisecond)
	v.SetDefault("studentLatency", 120*time.Millisecond)
	v.SetDefault("courseLatency", 200*time.Millisecond)
	v.SetDefault("gradeLatency", 300*time.Millisecond)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		DemoPassword: v.GetString("demoPassword"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		SendgridAPIKey:            v.GetString("sendgridApiKey"),
		RollbarToken:              v.GetString("rollbarToken"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Addr:                      v.GetString("serverAddr"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Storage: StorageConfig{
			Backend:     v.GetString("storageBackend"),
			Dir:         v.GetString("storageDir"),
			DatabaseURL: v.GetString("databaseURL"),
		},
		Latency: LatencyConfig{
			Auth:    v.GetDuration("authLatency"),
			Student: v.GetDuration("studentLatency"),
			Course:  v.GetDuration("courseLatency"),
			Grade:   v.GetDuration("gradeLatency"),
		},
	}
}
