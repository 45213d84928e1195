package bot

import (
	"context"

	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/models"
)

// handleNotify enables the chat's scheduled reports. Enable is idempotent:
// existing triggers are replaced, never duplicated.
func (s *Service) handleNotify(ctx context.Context, chatID int64) {
	if err := s.store.SetNotify(ctx, chatID, true); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Notify flag save failed")
		s.send(chatID, msgStorageFailure, false)
		return
	}

	if err := s.registerTriggers(chatID); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Trigger registration failed")
		s.send(chatID, msgStorageFailure, false)
		return
	}

	s.send(chatID, msgNotifyOn, false)
}

// handleDisable cancels every trigger registered under the chat's name.
func (s *Service) handleDisable(ctx context.Context, chatID int64) {
	if err := s.store.SetNotify(ctx, chatID, false); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Notify flag clear failed")
		s.send(chatID, msgStorageFailure, false)
		return
	}

	s.scheduler.CancelByName(chatName(chatID))
	s.send(chatID, msgNotifyOff, false)
}

// handleStatus reports Enabled while at least one trigger exists under the
// chat's name, so a half-registered chat still reads as enabled.
func (s *Service) handleStatus(chatID int64) {
	if len(s.scheduler.ListByName(chatName(chatID))) > 0 {
		s.send(chatID, msgStatusEnabled, false)
		return
	}
	s.send(chatID, msgStatusDisabled, false)
}

// registerTriggers replaces the chat's daily triggers with a fresh premarket
// and aftermarket pair at the configured times.
func (s *Service) registerTriggers(chatID int64) error {
	name := chatName(chatID)
	s.scheduler.CancelByName(name)

	preHour, preMinute, err := common.ParseClock(s.notify.Premarket)
	if err != nil {
		return err
	}
	postHour, postMinute, err := common.ParseClock(s.notify.Aftermarket)
	if err != nil {
		return err
	}

	if err := s.scheduler.RegisterDaily(name, preHour, preMinute, models.TriggerPayload{ChatID: chatID, Kind: models.ReportPremarket}); err != nil {
		return err
	}
	if err := s.scheduler.RegisterDaily(name, postHour, postMinute, models.TriggerPayload{ChatID: chatID, Kind: models.ReportAftermarket}); err != nil {
		// Leave no half-registered pair behind.
		s.scheduler.CancelByName(name)
		return err
	}
	return nil
}

// RestoreNotifications re-registers triggers for every chat whose flag
// survived the last shutdown. Called once at startup.
func (s *Service) RestoreNotifications(ctx context.Context) error {
	chatIDs, err := s.store.ListNotify(ctx)
	if err != nil {
		return err
	}
	for _, chatID := range chatIDs {
		if err := s.registerTriggers(chatID); err != nil {
			s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Trigger restore failed")
			continue
		}
	}
	if len(chatIDs) > 0 {
		s.logger.Info().Int("chats", len(chatIDs)).Msg("Notification triggers restored")
	}
	return nil
}
