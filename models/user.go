package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KYCStatus gates deposit and investment eligibility
type KYCStatus string

const (
	KYCUnsubmitted KYCStatus = "unsubmitted"
	KYCPending     KYCStatus = "pending"
	KYCApproved    KYCStatus = "approved"
	KYCRejected    KYCStatus = "rejected"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User holds the two independent balances: WalletBalance is fiat capital (INR)
// fed by approved deposits, UsdtBalance is the trading/reward balance fed by
// investment maturity and referral bonuses. Both are written exclusively by
// the ledger service and never go negative.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	WalletBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"wallet_balance"`
	UsdtBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"usdt_balance"`

	// ReferralCode is assigned at registration; ReferredBy is the code of the
	// referrer, captured at registration and immutable afterwards.
	ReferralCode string  `gorm:"size:20;uniqueIndex;not null" json:"referral_code"`
	ReferredBy   *string `gorm:"size:191" json:"referred_by,omitempty"`

	KYCStatus KYCStatus `gorm:"size:20;not null;default:'unsubmitted'" json:"kyc_status"`
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`

	Timestamps
}

func (User) TableName() string {
	return "users"
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
