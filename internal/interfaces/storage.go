package interfaces

import (
	"context"

	"github.com/bobmcallan/stonkbot/internal/models"
)

// LedgerStore persists each chat's portfolio ledger and notification flag.
// Load returns an empty ledger for a chat with no saved state.
type LedgerStore interface {
	Load(ctx context.Context, chatID int64) (*models.Ledger, error)
	Save(ctx context.Context, chatID int64, ledger *models.Ledger) error

	// Notification enablement survives restarts; enabled chats are
	// re-registered with the scheduler at startup.
	SetNotify(ctx context.Context, chatID int64, enabled bool) error
	ListNotify(ctx context.Context) ([]int64, error)

	Close() error
}
