package model

// CheckIn is an immutable record of one daily check-in.
type CheckIn struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	UserIdentifier string `gorm:"column:user_identifier;size:128;not null;uniqueIndex:idx_checkins_user_day"`
	Username       string `gorm:"column:username;size:128"`
	PfpURL         string `gorm:"column:pfp_url;size:512"`
	CheckinDay     int64  `gorm:"column:checkin_day;not null;uniqueIndex:idx_checkins_user_day;index"`
	CheckedInAt    int64  `gorm:"column:checked_in_at;not null"`
	PointsEarned   int64  `gorm:"column:points_earned;not null"`
	StreakCount    int64  `gorm:"column:streak_count;not null"`
}

func (CheckIn) TableName() string {
	return "checkins"
}
