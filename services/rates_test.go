package services

import (
	"testing"
	"time"

	"hashprime-backend/models"

	"github.com/shopspring/decimal"
)

func TestDBRateProvider_FallsBackWhenEmpty(t *testing.T) {
	db := setupTestDB(t)
	provider := &DBRateProvider{DB: db, Fallback: StaticRateProvider{Value: decimal.NewFromInt(80)}}

	rate, err := provider.Rate()
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	assertDecimal(t, "fallback rate", rate, dec("80"))
}

func TestDBRateProvider_ServesSyncedRate(t *testing.T) {
	db := setupTestDB(t)
	provider := &DBRateProvider{DB: db, Fallback: StaticRateProvider{Value: decimal.NewFromInt(80)}}

	row := models.ExchangeRate{Pair: RatePair, Rate: dec("86.4250"), FetchedAt: time.Now()}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed rate: %v", err)
	}

	rate, err := provider.Rate()
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	assertDecimal(t, "synced rate", rate, dec("86.4250"))
}
