package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bobmcallan/stonkbot/internal/common"
)

// Messenger sends replies over the Telegram transport.
type Messenger struct {
	api *tgbotapi.BotAPI
}

// NewMessenger wraps a Telegram API handle as an interfaces.Messenger.
func NewMessenger(api *tgbotapi.BotAPI) *Messenger {
	return &Messenger{api: api}
}

// SendMessage delivers text to a chat, optionally as Markdown.
func (m *Messenger) SendMessage(chatID int64, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// NewAPI connects to Telegram with the configured token.
func NewAPI(cfg common.TelegramConfig) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

// Dispatcher polls Telegram for updates and routes commands to the service.
type Dispatcher struct {
	api     *tgbotapi.BotAPI
	service *Service
	logger  *common.Logger
	timeout int
}

// NewDispatcher creates the update loop.
func NewDispatcher(api *tgbotapi.BotAPI, service *Service, logger *common.Logger, updateTimeout int) *Dispatcher {
	return &Dispatcher{
		api:     api,
		service: service,
		logger:  logger,
		timeout: updateTimeout,
	}
}

// Run polls for updates until the context is cancelled. Each command runs in
// its own goroutine; the per-chat lock inside the service serializes work for
// one chat.
func (d *Dispatcher) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = d.timeout
	updates := d.api.GetUpdatesChan(cfg)

	d.logger.Info().Str("bot", d.api.Self.UserName).Msg("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			d.api.StopReceivingUpdates()
			d.logger.Info().Msg("Update polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			d.handleUpdate(ctx, update)
		}
	}
}

func (d *Dispatcher) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	command := msg.Command()
	args := msg.CommandArguments()

	d.logger.Debug().
		Int64("chat_id", chatID).
		Str("command", command).
		Msg("Command received")

	go d.service.HandleCommand(ctx, chatID, command, args, msg.Text)
}
