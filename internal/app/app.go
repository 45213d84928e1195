// Package app wires configuration, storage, clients, the scheduler, and the
// chat command layer into a runnable bot.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bobmcallan/stonkbot/internal/bot"
	"github.com/bobmcallan/stonkbot/internal/clients/iex"
	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/models"
	"github.com/bobmcallan/stonkbot/internal/scheduler"
	"github.com/bobmcallan/stonkbot/internal/storage/ledgerdb"
)

// App holds all initialized collaborators.
type App struct {
	Config     *common.Config
	Logger     *common.Logger
	Store      *ledgerdb.Store
	Prices     *iex.Client
	Scheduler  *scheduler.Scheduler
	API        *tgbotapi.BotAPI
	Service    *bot.Service
	Dispatcher *bot.Dispatcher
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes every collaborator. configPath may be empty, in which
// case STONKBOT_CONFIG and then the binary directory are checked.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("STONKBOT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stonkbot.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stonkbot.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := ledgerdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	iexCfg := config.Clients.IEX
	prices := iex.NewClient(iexCfg.Token,
		iex.WithBaseURL(iexCfg.BaseURL),
		iex.WithTimeout(iexCfg.GetTimeout()),
		iex.WithRateLimit(iexCfg.RateLimit),
		iex.WithRetries(iexCfg.Retries),
		iex.WithLogger(logger),
	)

	api, err := bot.NewAPI(config.Telegram)
	if err != nil {
		store.Close()
		return nil, err
	}

	// The scheduler dispatches fired triggers back into the service's
	// report path; the indirection breaks the construction cycle.
	var service *bot.Service
	sched, err := scheduler.New(logger, config.Notify.Location(), func(payload models.TriggerPayload) {
		service.RunTrigger(payload)
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	service = bot.NewService(logger, store, prices, sched, bot.NewMessenger(api), config.Notify)
	dispatcher := bot.NewDispatcher(api, service, logger, config.Telegram.UpdateTimeout)

	return &App{
		Config:     config,
		Logger:     logger,
		Store:      store,
		Prices:     prices,
		Scheduler:  sched,
		API:        api,
		Service:    service,
		Dispatcher: dispatcher,
	}, nil
}

// Start restores persisted notification registrations and begins firing
// triggers.
func (a *App) Start(ctx context.Context) error {
	if err := a.Service.RestoreNotifications(ctx); err != nil {
		return fmt.Errorf("failed to restore notifications: %w", err)
	}
	a.Scheduler.Start()
	return nil
}

// Close shuts down the scheduler and storage.
func (a *App) Close() {
	if err := a.Scheduler.Shutdown(); err != nil {
		a.Logger.Warn().Err(err).Msg("Scheduler shutdown failed")
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Storage close failed")
	}
}
