package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/svitlo-ai/svitlo/internal/api"
	"github.com/svitlo-ai/svitlo/internal/dispatch"
	"github.com/svitlo-ai/svitlo/internal/flow"
	"github.com/svitlo-ai/svitlo/internal/genai"
	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/store"
	"github.com/svitlo-ai/svitlo/internal/util"
)

// Default configuration constants.
const (
	// DefaultStateDir is the default directory for Svitlo state data.
	DefaultStateDir = "/var/lib/svitlo"
	// DefaultDBFileName is the default SQLite database filename.
	DefaultDBFileName = "svitlo.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	storeOpts := buildStoreOptions(flags)
	genaiOpts := buildGenAIOptions(flags)
	dispatchOpts := buildDispatchOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping Svitlo with configured modules")
	slog.Debug("Final configuration", "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr,
		"default_lang", *flags.defaultLang, "default_country", *flags.defaultCountry)
	if err := api.Run(storeOpts, genaiOpts, dispatchOpts, apiOpts); err != nil {
		slog.Error("Svitlo failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Svitlo exited successfully")
}

// Config holds environment configuration.
type Config struct {
	DatabaseURL    string
	StateDir       string
	OpenAIKey      string
	APIAddr        string
	DefaultLang    string
	DefaultCountry string
}

// Flags holds command line flag values.
type Flags struct {
	dbDSN          *string
	openaiKey      *string
	apiAddr        *string
	defaultLang    *string
	defaultCountry *string
	idleTimeout    *string
}

// initializeLogger sets up structured logging; SVITLO_DEBUG enables debug level.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("SVITLO_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StateDir:       os.Getenv("SVITLO_STATE_DIR"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		APIAddr:        os.Getenv("API_ADDR"),
		DefaultLang:    os.Getenv("DEFAULT_LANG"),
		DefaultCountry: os.Getenv("DEFAULT_COUNTRY"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
	}
	// If no database URL is provided, default to SQLite in the state directory.
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	if config.DefaultLang == "" {
		config.DefaultLang = string(models.LangEN)
	}
	if config.DefaultCountry == "" {
		config.DefaultCountry = string(models.CountryUS)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"SVITLO_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"DEFAULT_LANG", config.DefaultLang,
		"DEFAULT_COUNTRY", config.DefaultCountry)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dbDSN:          flag.String("db-dsn", config.DatabaseURL, "database DSN (overrides $DATABASE_URL)"),
		openaiKey:      flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "webhook server address (overrides $API_ADDR)"),
		defaultLang:    flag.String("default-lang", config.DefaultLang, "default language for new users (overrides $DEFAULT_LANG)"),
		defaultCountry: flag.String("default-country", config.DefaultCountry, "default country for new users (overrides $DEFAULT_COUNTRY)"),
		idleTimeout:    flag.String("idle-timeout", "", "session idle timeout, e.g. 30m (overrides $SESSION_IDLE_TIMEOUT)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"defaultLang", *flags.defaultLang,
		"defaultCountry", *flags.defaultCountry)

	return flags
}

// buildStoreOptions constructs store configuration options.
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	}
	return storeOpts
}

// buildGenAIOptions constructs GenAI configuration options.
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	return genaiOpts
}

// buildDispatchOptions constructs dispatcher configuration options.
func buildDispatchOptions(flags Flags) []dispatch.Option {
	var dispatchOpts []dispatch.Option

	lang := models.Lang(*flags.defaultLang)
	if !models.IsValidLang(lang) {
		slog.Warn("Invalid default language, using en", "value", *flags.defaultLang)
		lang = models.LangEN
	}
	country := models.Country(*flags.defaultCountry)
	if !models.IsValidCountry(country) {
		slog.Warn("Invalid default country, using US", "value", *flags.defaultCountry)
		country = models.CountryUS
	}
	dispatchOpts = append(dispatchOpts, dispatch.WithDefaults(lang, country))

	idle := util.ParseDurationEnv("SESSION_IDLE_TIMEOUT", flow.DefaultIdleTimeout)
	if *flags.idleTimeout != "" {
		if d, err := time.ParseDuration(*flags.idleTimeout); err == nil {
			idle = d
		} else {
			slog.Warn("Invalid idle timeout flag, ignoring", "value", *flags.idleTimeout, "error", err)
		}
	}
	dispatchOpts = append(dispatchOpts, dispatch.WithIdleTimeout(idle))

	return dispatchOpts
}

// buildAPIOptions constructs API server configuration options.
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
