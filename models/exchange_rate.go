package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a local snapshot of the INR-per-USDT rate, refreshed by the
// rate sync worker. One row per pair; the worker upserts in place.
type ExchangeRate struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Pair      string          `gorm:"size:20;not null;uniqueIndex" json:"pair"`
	Rate      decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"rate"`
	FetchedAt time.Time       `gorm:"not null" json:"fetched_at"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
