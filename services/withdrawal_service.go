package services

import (
	"errors"
	"fmt"

	"hashprime-backend/models"
	"hashprime-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MinimumWithdrawal is the smallest USDT payout the platform processes.
var MinimumWithdrawal = decimal.NewFromInt(10)

type WithdrawalService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewWithdrawalService(db *gorm.DB, ledger *LedgerService) *WithdrawalService {
	return &WithdrawalService{DB: db, Ledger: ledger}
}

// Request escrows the amount immediately: the USDT balance is debited at
// request time so a user cannot queue withdrawals exceeding their balance.
// An insufficient balance fails the request and leaves no record.
func (s *WithdrawalService) Request(userID uint, amount decimal.Decimal, walletAddress string) (*models.Withdrawal, error) {
	if amount.LessThan(MinimumWithdrawal) {
		return nil, ErrBelowMinimum
	}
	if walletAddress == "" {
		return nil, ErrValidation
	}

	var withdrawal models.Withdrawal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Ledger.Debit(tx, userID, FieldUsdt, amount); err != nil {
			return err
		}
		withdrawal = models.Withdrawal{
			OrderID:       utils.GenerateOrderID("WDL"),
			UserID:        userID,
			Amount:        amount,
			WalletAddress: walletAddress,
			Status:        models.WithdrawalPending,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Withdrawal %s requested to %s", withdrawal.OrderID, walletAddress)
		return s.Ledger.Record(tx, userID, models.TxWithdrawal, amount.Neg(), models.CurrencyUSDT, description)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal requested",
		zap.String("order_id", withdrawal.OrderID),
		zap.Uint("user_id", userID),
		zap.String("amount", amount.String()))
	return &withdrawal, nil
}

// Resolve settles a pending withdrawal exactly once. Approval is terminal:
// the funds were already debited at request time and are considered sent.
// Rejection refunds the escrowed amount with a compensating transaction.
func (s *WithdrawalService) Resolve(withdrawalID uint, approve bool, adminNote string) (*models.Withdrawal, error) {
	var resolved models.Withdrawal

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		if err := tx.First(&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if withdrawal.Status != models.WithdrawalPending {
			return ErrAlreadyResolved
		}

		withdrawal.AdminNote = adminNote
		if approve {
			withdrawal.Status = models.WithdrawalApproved
		} else {
			withdrawal.Status = models.WithdrawalRejected
			if err := s.Ledger.Credit(tx, withdrawal.UserID, FieldUsdt, withdrawal.Amount); err != nil {
				return err
			}
			description := fmt.Sprintf("Withdrawal %s rejected: %s USDT refunded", withdrawal.OrderID, withdrawal.Amount.String())
			if err := s.Ledger.Record(tx, withdrawal.UserID, models.TxWithdrawal, withdrawal.Amount, models.CurrencyUSDT, description); err != nil {
				return err
			}
		}

		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}
		resolved = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal resolved",
		zap.String("order_id", resolved.OrderID),
		zap.String("status", string(resolved.Status)))
	return &resolved, nil
}
