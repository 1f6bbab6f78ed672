package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gridrender "github.com/bnema/class-schedule-cli/internal/adapters/render/grid"
	sqliterepo "github.com/bnema/class-schedule-cli/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/class-schedule-cli/internal/adapters/repo/toml"
	"github.com/bnema/class-schedule-cli/internal/application"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/bnema/class-schedule-cli/internal/ports"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configDirName  = ".class-schedule"
	configFileName = "config"

	storeDriverKey     = "store.driver"
	sqlitePathKey      = "store.sqlite.path"
	scheduleDaysKey    = "schedule.weekdays"
	gridFirstHourKey   = "grid.first_hour"
	gridLastHourKey    = "grid.last_hour"
	defaultSQLiteFile  = "sessions.db"
	storeDriverTOML    = "toml"
	storeDriverSQLite  = "sqlite"
	defaultHTTPAddress = "127.0.0.1:8080"
)

type envConfig struct {
	LogLevel    string `env:"CS_LOG_LEVEL" envDefault:"warn"`
	HTTPAddr    string `env:"CS_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	StoreDriver string `env:"CS_STORE_DRIVER"`
}

type app struct {
	service      *application.Service
	logger       *zap.Logger
	gridRenderer func(domain.Grid, gridrender.RenderOptions) (string, error)
	listRenderer func([]domain.ClassSession, gridrender.ListOptions) (string, error)
	httpAddr     string
	now          func() time.Time
	closeRepo    func() error
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := loadConfig(filepath.Join(homeDir, configDirName))
	if err != nil {
		return nil, err
	}

	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if envCfg.StoreDriver != "" {
		cfg.Set(storeDriverKey, envCfg.StoreDriver)
	}

	logger, err := newLogger(envCfg.LogLevel)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := newRepository(cfg, homeDir)
	if err != nil {
		return nil, err
	}

	days, err := domain.WeekdaySetOf(cfg.GetInt(scheduleDaysKey))
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("config %s: %w", scheduleDaysKey, err)
	}

	serviceCfg := application.DefaultConfig()
	serviceCfg.Days = days
	serviceCfg.FirstHour = cfg.GetInt(gridFirstHourKey)
	serviceCfg.LastHour = cfg.GetInt(gridLastHourKey)

	service, err := application.NewService(repo, serviceCfg, logger)
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("wire schedule service: %w", err)
	}

	httpAddr := envCfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = defaultHTTPAddress
	}

	return &app{
		service:      service,
		logger:       logger,
		gridRenderer: gridrender.Render,
		listRenderer: gridrender.RenderList,
		httpAddr:     httpAddr,
		now:          time.Now,
		closeRepo:    closeRepo,
	}, nil
}

func loadConfig(configDir string) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(configDir)

	cfg.SetDefault(storeDriverKey, storeDriverTOML)
	cfg.SetDefault(scheduleDaysKey, len(domain.WeekdaysSeven))
	cfg.SetDefault(gridFirstHourKey, domain.DefaultFirstHour)
	cfg.SetDefault(gridLastHourKey, domain.DefaultLastHour)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse CS_LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func newRepository(cfg *viper.Viper, homeDir string) (ports.SessionRepository, func() error, error) {
	noop := func() error { return nil }

	switch driver := strings.ToLower(strings.TrimSpace(cfg.GetString(storeDriverKey))); driver {
	case "", storeDriverTOML:
		repo, err := tomlrepo.NewRepository(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("wire session repository: %w", err)
		}
		return repo, noop, nil
	case storeDriverSQLite:
		path := cfg.GetString(sqlitePathKey)
		if path == "" {
			path = filepath.Join(homeDir, configDirName, defaultSQLiteFile)
		}
		store, err := sqliterepo.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite repository: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q (want %s or %s)", driver, storeDriverTOML, storeDriverSQLite)
	}
}

func (a *app) close() error {
	_ = a.logger.Sync()
	if a.closeRepo == nil {
		return nil
	}
	return a.closeRepo()
}
