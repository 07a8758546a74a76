package models

import "github.com/shopspring/decimal"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a USDT payout request. The amount is debited from the user's
// USDT balance at request time (escrow), so a user cannot queue withdrawals
// exceeding their balance. Approval is terminal (funds sent externally);
// rejection refunds the escrowed amount.
type Withdrawal struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	OrderID       string           `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	WalletAddress string           `gorm:"size:128;not null" json:"wallet_address"`
	Status        WithdrawalStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote     string           `gorm:"type:text" json:"admin_note"`

	Timestamps
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
