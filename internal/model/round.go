package model

type RoundStatus string

const (
	RoundStatusOpen     RoundStatus = "open"
	RoundStatusClosed   RoundStatus = "closed"
	RoundStatusFinished RoundStatus = "finished"
)

// Round is one timed prediction period. All times are Unix seconds.
type Round struct {
	ID              uint64      `gorm:"primaryKey;autoIncrement"`
	RoundNumber     int64       `gorm:"column:round_number;not null"`
	Prize           string      `gorm:"column:prize;type:text"`
	BlockNumber     *int64      `gorm:"column:block_number"`
	StartTime       int64       `gorm:"column:start_time;not null"`
	EndTime         int64       `gorm:"column:end_time;not null;index:idx_rounds_status_end,priority:2"`
	DurationMinutes int64       `gorm:"column:duration_minutes;not null"`
	Status          RoundStatus `gorm:"column:status;size:16;not null;index:idx_rounds_status_end,priority:1"`
	ActualTxCount   *int64      `gorm:"column:actual_tx_count"`
	WinningFID      *int64      `gorm:"column:winning_fid"`
	RunnerUpFID     *int64      `gorm:"column:runner_up_fid"`
	BlockHash       *string     `gorm:"column:block_hash;size:128"`
	IsJackpot       bool        `gorm:"column:is_jackpot;not null;default:false"`
	CreatedAt       int64       `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt       int64       `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Round) TableName() string {
	return "rounds"
}

// Active reports whether the round has not been finalized yet.
func (r *Round) Active() bool {
	return r.Status == RoundStatusOpen || r.Status == RoundStatusClosed
}
