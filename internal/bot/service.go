// Package bot implements the chat command layer: command handlers, the
// portfolio report path, and the per-chat notification lifecycle.
package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stonkbot/internal/clients/iex"
	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/interfaces"
	"github.com/bobmcallan/stonkbot/internal/models"
)

// Reply texts. Report lines are built in report.go.
const (
	msgGreeting       = "I'm a bot"
	msgEmptyPortfolio = "Your portfolio is empty!"
	msgTrackUsage     = "Usage: /track TICKER AMOUNT BUY_PRICE (amount and price must be positive numbers)"
	msgNotifyOn       = "Notifications activated"
	msgNotifyOff      = "Notifications disabled!"
	msgStatusEnabled  = "Notifications are enabled"
	msgStatusDisabled = "Notifications are disabled"
	msgStorageFailure = "Something went wrong saving your portfolio, please try again"
	msgLoadFailure    = "Something went wrong loading your portfolio, please try again"
)

// Service binds the portfolio ledger, valuation, price client, and
// notification scheduler behind the chat commands.
type Service struct {
	logger    *common.Logger
	store     interfaces.LedgerStore
	prices    interfaces.PriceClient
	scheduler interfaces.Scheduler
	messenger interfaces.Messenger
	notify    common.NotifyConfig
	locks     chatLocks
}

// NewService creates the command service.
func NewService(logger *common.Logger, store interfaces.LedgerStore, prices interfaces.PriceClient, scheduler interfaces.Scheduler, messenger interfaces.Messenger, notify common.NotifyConfig) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		prices:    prices,
		scheduler: scheduler,
		messenger: messenger,
		notify:    notify,
	}
}

// HandleCommand routes one chat command. Unrecognized commands echo the raw
// input back.
func (s *Service) HandleCommand(ctx context.Context, chatID int64, command, args, raw string) {
	switch command {
	case "start":
		s.send(chatID, msgGreeting, false)
	case "track":
		s.handleTrack(ctx, chatID, args)
	case "portfolio":
		s.Report(ctx, chatID, "")
	case "notify":
		s.handleNotify(ctx, chatID)
	case "disable":
		s.handleDisable(ctx, chatID)
	case "status":
		s.handleStatus(chatID)
	default:
		s.send(chatID, "Unknown command: "+raw, false)
	}
}

// handleTrack records a buy lot. Any parse or range failure replies with the
// usage message and leaves the ledger untouched.
func (s *Service) handleTrack(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		s.send(chatID, msgTrackUsage, false)
		return
	}

	ticker := fields[0]
	amount, err := decimal.NewFromString(fields[1])
	if err != nil {
		s.send(chatID, msgTrackUsage, false)
		return
	}
	buyPrice, err := decimal.NewFromString(fields[2])
	if err != nil {
		s.send(chatID, msgTrackUsage, false)
		return
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	ledger, err := s.store.Load(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Ledger load failed")
		s.send(chatID, msgLoadFailure, false)
		return
	}

	if err := ledger.RecordBuy(ticker, amount, buyPrice); err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			s.send(chatID, msgTrackUsage, false)
			return
		}
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Record buy failed")
		s.send(chatID, msgStorageFailure, false)
		return
	}

	if err := s.store.Save(ctx, chatID, ledger); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Ledger save failed")
		s.send(chatID, msgStorageFailure, false)
		return
	}

	pos, _ := ledger.Get(ticker)
	s.send(chatID, FormatTrackConfirmation(models.NormalizeTicker(ticker), pos), true)
}

// Report runs the valuation/report path for one chat: the same code serves
// the portfolio command (empty header) and scheduled triggers. A failed price
// fetch degrades that ticker's line and clears its snapshot; the rest of the
// report proceeds.
func (s *Service) Report(ctx context.Context, chatID int64, header string) {
	unlock := s.locks.lock(chatID)

	ledger, err := s.store.Load(ctx, chatID)
	if err != nil {
		unlock()
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Ledger load failed")
		s.send(chatID, msgLoadFailure, false)
		return
	}

	if ledger.IsEmpty() {
		unlock()
		if header != "" {
			// A scheduled report for an empty ledger would only be noise.
			return
		}
		s.send(chatID, msgEmptyPortfolio, false)
		return
	}

	lines := make([]string, 0, ledger.Len())
	for _, ticker := range ledger.Tickers() {
		pos, _ := ledger.Get(ticker)

		price, err := s.prices.GetPrice(ctx, ticker)
		if err != nil {
			if !errors.Is(err, iex.ErrPriceUnavailable) {
				s.logger.Error().Err(err).Str("ticker", ticker).Msg("Unexpected price error")
			}
			pos.LastPrice = nil
			lines = append(lines, FormatFailureLine(ticker))
			continue
		}

		movements, err := models.ComputeMovements(pos, price)
		if err != nil {
			s.logger.Error().Err(err).Str("ticker", ticker).Msg("Valuation failed")
			lines = append(lines, FormatFailureLine(ticker))
			continue
		}

		pos.LastPrice = &price
		lines = append(lines, FormatLine(ticker, price, movements))
	}

	saveErr := s.store.Save(ctx, chatID, ledger)
	unlock()

	if saveErr != nil {
		s.logger.Error().Err(saveErr).Int64("chat_id", chatID).Msg("Ledger save failed after report")
		s.send(chatID, msgStorageFailure, false)
	}

	if header != "" {
		s.send(chatID, header, true)
	}
	for _, line := range lines {
		s.send(chatID, line, true)
	}
}

// RunTrigger is the scheduler's entry point: it resolves the payload into the
// report path for that chat.
func (s *Service) RunTrigger(payload models.TriggerPayload) {
	header := "*Premarket report*"
	if payload.Kind == models.ReportAftermarket {
		header = "*Aftermarket report*"
	}
	s.Report(context.Background(), payload.ChatID, header)
}

func (s *Service) send(chatID int64, text string, markdown bool) {
	if err := s.messenger.SendMessage(chatID, text, markdown); err != nil {
		s.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Send failed")
	}
}

func chatName(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
