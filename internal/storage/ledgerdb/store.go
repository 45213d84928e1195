// Package ledgerdb implements LedgerStore using BadgerHold.
// Each chat's portfolio is stored as one opaque JSON blob keyed by chat ID;
// the notification flag is a separate record so enablement survives restarts.
package ledgerdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/stonkbot/internal/common"
	"github.com/bobmcallan/stonkbot/internal/models"
)

// Store implements interfaces.LedgerStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// ledgerRecord is the stored form of one chat's ledger.
type ledgerRecord struct {
	ChatID   int64
	Data     []byte
	Version  int
	DateTime time.Time
}

// notifyRecord is the stored notification flag for one chat.
type notifyRecord struct {
	ChatID   int64
	Enabled  bool
	DateTime time.Time
}

// NewStore creates a new LedgerStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgerdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgerdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Load returns the ledger for a chat, or an empty ledger if none is stored.
func (s *Store) Load(_ context.Context, chatID int64) (*models.Ledger, error) {
	var rec ledgerRecord
	if err := s.db.Get(chatID, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.NewLedger(), nil
		}
		return nil, fmt.Errorf("failed to load ledger for chat %d: %w", chatID, err)
	}

	ledger := models.NewLedger()
	if err := json.Unmarshal(rec.Data, ledger); err != nil {
		return nil, fmt.Errorf("failed to decode ledger for chat %d: %w", chatID, err)
	}
	return ledger, nil
}

// Save persists a chat's ledger, incrementing the record version.
func (s *Store) Save(_ context.Context, chatID int64, ledger *models.Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to encode ledger for chat %d: %w", chatID, err)
	}

	rec := ledgerRecord{ChatID: chatID, Data: data, DateTime: time.Now()}

	var existing ledgerRecord
	if err := s.db.Get(chatID, &existing); err == nil {
		rec.Version = existing.Version + 1
	} else {
		rec.Version = 1
	}

	if err := s.db.Upsert(chatID, &rec); err != nil {
		return fmt.Errorf("failed to save ledger for chat %d: %w", chatID, err)
	}
	return nil
}

// SetNotify records whether scheduled reports are enabled for a chat.
func (s *Store) SetNotify(_ context.Context, chatID int64, enabled bool) error {
	if !enabled {
		if err := s.db.Delete(chatID, notifyRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return fmt.Errorf("failed to clear notify flag for chat %d: %w", chatID, err)
		}
		return nil
	}

	rec := notifyRecord{ChatID: chatID, Enabled: true, DateTime: time.Now()}
	if err := s.db.Upsert(chatID, &rec); err != nil {
		return fmt.Errorf("failed to set notify flag for chat %d: %w", chatID, err)
	}
	return nil
}

// ListNotify returns the chats with notifications enabled, in stable order.
func (s *Store) ListNotify(_ context.Context) ([]int64, error) {
	var recs []notifyRecord
	if err := s.db.Find(&recs, badgerhold.Where("Enabled").Eq(true)); err != nil {
		return nil, fmt.Errorf("failed to list notify flags: %w", err)
	}

	chatIDs := make([]int64, 0, len(recs))
	for _, rec := range recs {
		chatIDs = append(chatIDs, rec.ChatID)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
