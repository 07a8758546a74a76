package services

import (
	"errors"
	"fmt"

	"hashprime-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceField names a balance column on users. The set is closed: the ledger
// refuses anything outside it so no caller can smuggle in another column.
type BalanceField string

const (
	FieldWallet BalanceField = "wallet_balance"
	FieldUsdt   BalanceField = "usdt_balance"
)

func (f BalanceField) valid() bool {
	return f == FieldWallet || f == FieldUsdt
}

// LedgerService is the sole writer of balance columns and transaction
// history. Every debit is a conditional decrement that fails instead of going
// negative; callers wrap credit/debit + Record in one gorm transaction so
// either everything applies or nothing does.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Credit adds amount to the named balance field. Crediting cannot violate the
// non-negative invariant, so a plain atomic increment suffices.
func (s *LedgerService) Credit(tx *gorm.DB, userID uint, field BalanceField, amount decimal.Decimal) error {
	if !field.valid() {
		return fmt.Errorf("unknown balance field %q", field)
	}
	if amount.IsNegative() {
		return fmt.Errorf("credit amount must not be negative: %s", amount)
	}
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(string(field), gorm.Expr(string(field)+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	zap.L().Debug("ledger credit",
		zap.Uint("user_id", userID),
		zap.String("field", string(field)),
		zap.String("amount", amount.String()))
	return nil
}

// Debit subtracts amount from the named balance field as a single conditional
// read-modify-write: the UPDATE only matches when the balance covers the
// amount, so two concurrent debits can never drive the balance negative. A
// zero row count against an existing user means the check failed.
func (s *LedgerService) Debit(tx *gorm.DB, userID uint, field BalanceField, amount decimal.Decimal) error {
	if !field.valid() {
		return fmt.Errorf("unknown balance field %q", field)
	}
	if amount.IsNegative() {
		return fmt.Errorf("debit amount must not be negative: %s", amount)
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND "+string(field)+" >= ?", userID, amount).
		UpdateColumn(string(field), gorm.Expr(string(field)+" - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		zap.L().Warn("ledger debit refused",
			zap.Uint("user_id", userID),
			zap.String("field", string(field)),
			zap.String("amount", amount.String()))
		return ErrInsufficientFunds
	}
	zap.L().Debug("ledger debit",
		zap.Uint("user_id", userID),
		zap.String("field", string(field)),
		zap.String("amount", amount.String()))
	return nil
}

// Record appends an immutable transaction entry. Amount is signed.
func (s *LedgerService) Record(tx *gorm.DB, userID uint, txType models.TransactionType, amount decimal.Decimal, currency models.Currency, description string) error {
	entry := models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// ListTransactions returns the audit trail, newest first. userID 0 means all
// users (admin view).
func (s *LedgerService) ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.DB.Model(&models.Transaction{}).Order("id DESC").Limit(limit).Offset(offset)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Reconcile recomputes a user's balance for one currency from the transaction
// log and compares it against the stored column. A mismatch means a balance
// write bypassed the ledger.
func (s *LedgerService) Reconcile(userID uint, currency models.Currency) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var calculated decimal.Decimal
	err := s.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&calculated).Error
	if err != nil {
		return fmt.Errorf("failed to sum transactions: %w", err)
	}

	stored := user.WalletBalance
	if currency == models.CurrencyUSDT {
		stored = user.UsdtBalance
	}

	if !stored.Equal(calculated) {
		zap.L().Error("balance reconciliation failed",
			zap.Uint("user_id", userID),
			zap.String("currency", string(currency)),
			zap.String("stored", stored.String()),
			zap.String("calculated", calculated.String()))
		return fmt.Errorf("balance mismatch for user %d %s: stored=%s calculated=%s",
			userID, currency, stored.String(), calculated.String())
	}
	return nil
}
