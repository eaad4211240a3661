package model

// PrizeConfigID is the key of the only prize configuration row.
const PrizeConfigID uint8 = 1

type PrizeConfig struct {
	ID                   uint8  `gorm:"primaryKey;autoIncrement:false"`
	JackpotAmount        int64  `gorm:"column:jackpot_amount;not null"`
	FirstPlaceAmount     int64  `gorm:"column:first_place_amount;not null"`
	SecondPlaceAmount    int64  `gorm:"column:second_place_amount;not null"`
	CurrencyType         string `gorm:"column:currency_type;size:32;not null"`
	TokenContractAddress string `gorm:"column:token_contract_address;size:64"`
	UpdatedAt            int64  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (PrizeConfig) TableName() string {
	return "prize_configs"
}
