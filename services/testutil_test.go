package services

import (
	"fmt"
	"strings"
	"testing"

	"hashprime-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a per-test in-memory database with the full schema. The
// shared-cache name keeps all pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Deposit{},
		&models.Investment{},
		&models.Withdrawal{},
		&models.Transaction{},
		&models.KYCDocument{},
		&models.ExchangeRate{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testUserOpts struct {
	email      string
	code       string
	referredBy *string
	kyc        models.KYCStatus
	wallet     decimal.Decimal
	usdt       decimal.Decimal
}

func createTestUser(t *testing.T, db *gorm.DB, opts testUserOpts) *models.User {
	t.Helper()

	if opts.kyc == "" {
		opts.kyc = models.KYCApproved
	}
	user := models.User{
		Name:          "Test User",
		Email:         opts.email,
		Password:      "x",
		WalletBalance: opts.wallet,
		UsdtBalance:   opts.usdt,
		ReferralCode:  opts.code,
		ReferredBy:    opts.referredBy,
		KYCStatus:     opts.kyc,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", opts.email, err)
	}
	return &user
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return &user
}

func countTransactions(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Count(&n).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}

// rate85 pins the exchange rate all scenario numbers assume.
var rate85 = StaticRateProvider{Value: decimal.NewFromInt(85)}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", label, got.String(), want.String())
	}
}
