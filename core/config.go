package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application settings. It is populated once at start-up
// from defaults, an optional `config/.env.<env>` file and environment
// variables prefixed with the current ENV name.
type Config struct {
	Debug         bool
	TestMode      bool
	Env           string // DEV (local; default), TEST, QA, PROD
	Build         string
	AppName       string
	APIBaseURL    string // Apps Script web app URL; one backend for everything
	DefaultAppURL string // fallback when the Config sheet has no appURL
	SessionFile   string // where the admin code is persisted; empty = user config dir
	HTTPTimeout   time.Duration
	RollbarToken  string
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Sabi Admin")
	conf.SetDefault("apiBaseURL", "https://script.google.com/macros/s/AKfycbyCcE3b0jh8ES3fRWPnhEcjxUt9oJU1yyJUD6mt4uHe5CkZa6rIKJGk59OzjHb9lyOF/exec")
	conf.SetDefault("defaultAppURL", "trysabi.netlify.app")
	conf.SetDefault("sessionFile", "")
	conf.SetDefault("httpTimeout", 30*time.Second)
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:         conf.GetBool("debug"),
		TestMode:      conf.GetBool("testMode"),
		Env:           env,
		Build:         conf.GetString("build"),
		AppName:       conf.GetString("appName"),
		APIBaseURL:    conf.GetString("apiBaseURL"),
		DefaultAppURL: conf.GetString("defaultAppURL"),
		SessionFile:   conf.GetString("sessionFile"),
		HTTPTimeout:   conf.GetDuration("httpTimeout"),
		RollbarToken:  conf.GetString("rollbarToken"),
	}
}
