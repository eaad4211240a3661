package model

import "gorm.io/datatypes"

const (
	EventRoundCreated     = "round_created"
	EventGuessSubmitted   = "guess_submitted"
	EventRoundClosed      = "round_closed"
	EventAutoCloseRounds  = "auto_close_rounds"
	EventRoundFinished    = "round_finished"
	EventDailyCheckin     = "daily_checkin"
	EventPrizeConfigSaved = "prize_config_saved"
	EventChatMessageSent  = "chat_message_sent"
)

type EventLog struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType string         `gorm:"column:event_type;size:64;index;not null" json:"eventType"`
	Details   datatypes.JSON `gorm:"column:details" json:"details"`
	Timestamp int64          `gorm:"column:timestamp;index;not null" json:"timestamp"`
}

func (EventLog) TableName() string {
	return "event_logs"
}
