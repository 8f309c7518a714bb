package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "1.2.0"

// overridesPath is where the optional player patch file lives; set once
// from config before the server starts.
var overridesPath string

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	BaseURL       string `envconfig:"BASE_URL"`
	SavePath      string `envconfig:"SAVE_PATH" default:"data/career.sav"`
	OverridesPath string `envconfig:"OVERRIDES_PATH" default:"player_overrides.json"`
	Seed          int64  `envconfig:"SEED"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://0.0.0.0:" + cfg.Port
	}
	overridesPath = cfg.OverridesPath

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	store := NewSnapshotStore(cfg.SavePath, logger)
	session := NewSession(rng, logger, store)

	if state, err := store.Load(); err == nil {
		applyOverrides(state.AllPlayers, loadOverrides(overridesPath))
		session.Restore(state)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Str("path", cfg.SavePath).Msg("save unreadable, starting fresh")
	}

	router := mux.NewRouter()
	newAPI(session, logger).routes(router)
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	fmt.Printf("🚀 Gaffer API v%s starting on port %s\n", version, cfg.Port)
	fmt.Printf("📚 API Documentation: %s/\n", cfg.BaseURL)
	fmt.Printf("🏥 Health Check: %s/api/v1/health\n", cfg.BaseURL)
	fmt.Printf("🏁 New Career: POST %s/api/v1/career/new\n", cfg.BaseURL)
	fmt.Printf("🎮 Start Match: POST %s/api/v1/match/start\n", cfg.BaseURL)
	fmt.Printf("🏅 League Table: %s/api/v1/leagues/ARG/table\n", cfg.BaseURL)

	return http.ListenAndServe("0.0.0.0:"+cfg.Port, handler)
}
