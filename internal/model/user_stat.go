package model

// UserStat keeps running check-in totals for one user.
type UserStat struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	UserIdentifier string `gorm:"column:user_identifier;size:128;uniqueIndex;not null"`
	Username       string `gorm:"column:username;size:128"`
	PfpURL         string `gorm:"column:pfp_url;size:512"`
	TotalPoints    int64  `gorm:"column:total_points;not null;default:0"`
	CurrentStreak  int64  `gorm:"column:current_streak;not null;default:0"`
	LongestStreak  int64  `gorm:"column:longest_streak;not null;default:0"`
	LastCheckinDay int64  `gorm:"column:last_checkin_day;not null;default:0"`
	TotalCheckins  int64  `gorm:"column:total_checkins;not null;default:0"`
	CreatedAt      int64  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      int64  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (UserStat) TableName() string {
	return "user_stats"
}
