package models

// ReportKind identifies which daily trigger fired.
type ReportKind string

const (
	ReportPremarket   ReportKind = "premarket"
	ReportAftermarket ReportKind = "aftermarket"
)

// TriggerPayload is the execution target of a scheduled trigger. The
// scheduler hands it back to the bot's report entry point; it carries no
// references to clients or storage.
type TriggerPayload struct {
	ChatID int64      `json:"chat_id"`
	Kind   ReportKind `json:"kind"`
}

// NotifyState is the persisted notification flag for one chat.
type NotifyState struct {
	ChatID  int64 `json:"chat_id"`
	Enabled bool  `json:"enabled"`
}
