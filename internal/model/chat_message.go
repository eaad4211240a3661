package model

type ChatMessageType string

const (
	ChatTypeChat   ChatMessageType = "chat"
	ChatTypeGuess  ChatMessageType = "guess"
	ChatTypeSystem ChatMessageType = "system"
	ChatTypeWinner ChatMessageType = "winner"
)

type ChatMessage struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundID   string          `gorm:"column:round_id;size:64;index;not null" json:"roundId"`
	Address   string          `gorm:"column:address;size:128" json:"address"`
	Username  string          `gorm:"column:username;size:128" json:"username"`
	Message   string          `gorm:"column:message;type:text;not null" json:"message"`
	PfpURL    string          `gorm:"column:pfp_url;size:512" json:"pfpUrl"`
	MsgType   ChatMessageType `gorm:"column:msg_type;size:16;not null" json:"msgType"`
	Timestamp int64           `gorm:"column:timestamp;not null" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
