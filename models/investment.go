package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentPending   InvestmentStatus = "pending"
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// Investment is one scheme subscription. UsdtReward and MaturesAt are frozen
// at request time using the exchange rate of that moment; later rate moves
// never change the payout. The principal is only deducted when an admin
// activates the investment.
type Investment struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	OrderID    string           `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Amount     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	SchemeType SchemeType       `gorm:"size:10;not null;index" json:"scheme_type"`
	ReturnRate decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"return_rate"`
	UsdtReward decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"usdt_reward"`
	MaturesAt  time.Time        `gorm:"not null;index" json:"matures_at"`
	Status     InvestmentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote  string           `gorm:"type:text" json:"admin_note"`

	Timestamps
}

func (Investment) TableName() string {
	return "investments"
}
