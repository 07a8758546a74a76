package services

import (
	"errors"
	"os"

	"hashprime-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RatePair is the only pair the platform trades.
const RatePair = "INRUSDT"

var defaultRate = decimal.NewFromInt(85)

// RateProvider supplies the INR-per-USDT rate. Workflows call Rate once per
// invocation and use the value consistently within it.
type RateProvider interface {
	Rate() (decimal.Decimal, error)
}

// EnvRateProvider reads a static rate from EXCHANGE_RATE_INR, falling back to
// the platform default. Used when no market-data service is configured.
type EnvRateProvider struct{}

func (EnvRateProvider) Rate() (decimal.Decimal, error) {
	raw := os.Getenv("EXCHANGE_RATE_INR")
	if raw == "" {
		return defaultRate, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		zap.L().Warn("invalid EXCHANGE_RATE_INR, using default", zap.String("value", raw))
		return defaultRate, nil
	}
	return rate, nil
}

// DBRateProvider serves the latest rate synced by the rate worker, falling
// back to the env rate while the table is still empty.
type DBRateProvider struct {
	DB       *gorm.DB
	Fallback RateProvider
}

func NewDBRateProvider(db *gorm.DB) *DBRateProvider {
	return &DBRateProvider{DB: db, Fallback: EnvRateProvider{}}
}

func (p *DBRateProvider) Rate() (decimal.Decimal, error) {
	var row models.ExchangeRate
	err := p.DB.Where("pair = ?", RatePair).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p.Fallback.Rate()
	}
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Rate.IsPositive() {
		return p.Fallback.Rate()
	}
	return row.Rate, nil
}

// StaticRateProvider pins the rate; used in tests.
type StaticRateProvider struct {
	Value decimal.Decimal
}

func (p StaticRateProvider) Rate() (decimal.Decimal, error) {
	return p.Value, nil
}
