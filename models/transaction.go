package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit       TransactionType = "deposit"
	TxWithdrawal    TransactionType = "withdrawal"
	TxInvestment    TransactionType = "investment"
	TxReferralBonus TransactionType = "referral_bonus"
)

type Currency string

const (
	CurrencyINR  Currency = "INR"
	CurrencyUSDT Currency = "USDT"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; balances on User are maintained redundantly and this table is the
// source of truth for reconciliation. Amount is signed: debits negative,
// credits positive.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Type        TransactionType `gorm:"size:20;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency    Currency        `gorm:"size:10;not null" json:"currency"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
