package models

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodUSDT PaymentMethod = "usdt"
)

type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
)

// Deposit is a claimed external payment awaiting admin verification. Amount is
// in the unit of PaymentMethod: INR for bank transfers, USDT for stablecoin
// transfers (converted at the current rate on approval). Resolution happens
// exactly once; approval is the only transition that credits the wallet.
type Deposit struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"size:10;not null" json:"payment_method"`
	Status        DepositStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProofURL      string          `gorm:"type:text" json:"proof_url"`
	AdminNote     string          `gorm:"type:text" json:"admin_note"`

	Timestamps
}

func (Deposit) TableName() string {
	return "deposits"
}
