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

type DepositService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Rates  RateProvider
}

func NewDepositService(db *gorm.DB, ledger *LedgerService, rates RateProvider) *DepositService {
	return &DepositService{DB: db, Ledger: ledger, Rates: rates}
}

// Request records a claimed external payment as pending. No balance changes
// until an admin approves it.
func (s *DepositService) Request(userID uint, amount decimal.Decimal, method models.PaymentMethod, proofURL string) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrValidation
	}
	if method != models.PaymentMethodBank && method != models.PaymentMethodUSDT {
		return nil, ErrValidation
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.KYCStatus != models.KYCApproved {
		return nil, ErrKYCNotApproved
	}

	deposit := models.Deposit{
		OrderID:       utils.GenerateOrderID("DEP"),
		UserID:        userID,
		Amount:        amount,
		PaymentMethod: method,
		Status:        models.DepositPending,
		ProofURL:      proofURL,
	}
	if err := s.DB.Create(&deposit).Error; err != nil {
		return nil, err
	}

	zap.L().Info("deposit requested",
		zap.String("order_id", deposit.OrderID),
		zap.Uint("user_id", userID),
		zap.String("amount", amount.String()),
		zap.String("method", string(method)))
	return &deposit, nil
}

// Resolve moves a pending deposit to approved or rejected, exactly once.
// Approval credits the wallet: USDT deposits are converted at the current
// rate, bank deposits credit as-is. Rejection touches no balance.
func (s *DepositService) Resolve(depositID uint, approve bool, adminNote string) (*models.Deposit, error) {
	var resolved models.Deposit

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var deposit models.Deposit
		if err := tx.First(&deposit, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if deposit.Status != models.DepositPending {
			return ErrAlreadyResolved
		}

		deposit.AdminNote = adminNote
		if !approve {
			deposit.Status = models.DepositRejected
			if err := tx.Save(&deposit).Error; err != nil {
				return err
			}
			resolved = deposit
			return nil
		}

		credit := deposit.Amount
		description := fmt.Sprintf("Deposit %s approved (bank transfer)", deposit.OrderID)
		if deposit.PaymentMethod == models.PaymentMethodUSDT {
			rate, err := s.Rates.Rate()
			if err != nil {
				return err
			}
			credit = deposit.Amount.Mul(rate).Round(2)
			description = fmt.Sprintf("Deposit %s approved (%s USDT converted at %s INR/USDT)",
				deposit.OrderID, deposit.Amount.String(), rate.String())
		}

		if err := s.Ledger.Credit(tx, deposit.UserID, FieldWallet, credit); err != nil {
			return err
		}
		if err := s.Ledger.Record(tx, deposit.UserID, models.TxDeposit, credit, models.CurrencyINR, description); err != nil {
			return err
		}

		deposit.Status = models.DepositApproved
		if err := tx.Save(&deposit).Error; err != nil {
			return err
		}
		resolved = deposit
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("deposit resolved",
		zap.String("order_id", resolved.OrderID),
		zap.String("status", string(resolved.Status)))
	return &resolved, nil
}
