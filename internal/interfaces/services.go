package interfaces

import "github.com/bobmcallan/stonkbot/internal/models"

// Scheduler is the recurring-trigger substrate. Triggers carry an explicit
// payload instead of closing over collaborators, so firing can be driven
// deterministically in tests.
type Scheduler interface {
	RegisterDaily(name string, hour, minute int, payload models.TriggerPayload) error
	CancelByName(name string) int
	ListByName(name string) []models.TriggerPayload
	Start()
	Shutdown() error
}

// Messenger delivers text to a chat. Markdown enables the bold-ticker
// formatting convention used by reports.
type Messenger interface {
	SendMessage(chatID int64, text string, markdown bool) error
}
