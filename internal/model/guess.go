package model

type Guess struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	RoundID     uint64  `gorm:"column:round_id;not null;uniqueIndex:idx_guesses_round_fid"`
	FID         int64   `gorm:"column:fid;not null;uniqueIndex:idx_guesses_round_fid"`
	Username    string  `gorm:"column:username;size:128"`
	Guess       int64   `gorm:"column:guess;not null"`
	PfpURL      *string `gorm:"column:pfp_url;size:512"`
	SubmittedAt int64   `gorm:"column:submitted_at;not null"`
}

func (Guess) TableName() string {
	return "guesses"
}
