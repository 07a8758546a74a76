package services

import (
	"errors"
	"fmt"
	"time"

	"hashprime-backend/models"
	"hashprime-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReferralBonusRate is the one-time bonus paid to the referrer when a
// referred investment is activated: 5% of the principal, in USDT.
var ReferralBonusRate = decimal.RequireFromString("0.05")

type InvestmentService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Rates  RateProvider
}

func NewInvestmentService(db *gorm.DB, ledger *LedgerService, rates RateProvider) *InvestmentService {
	return &InvestmentService{DB: db, Ledger: ledger, Rates: rates}
}

// Request creates a pending scheme subscription. The wallet is checked but
// not debited; the principal only moves on admin approval, which re-validates
// the balance. UsdtReward and MaturesAt are frozen here using the rate at
// request time.
func (s *InvestmentService) Request(userID uint, amount decimal.Decimal, schemeType models.SchemeType, otpVerified bool) (*models.Investment, error) {
	if !otpVerified {
		return nil, ErrOTPRequired
	}

	scheme, ok := models.SchemeFor(schemeType)
	if !ok {
		return nil, ErrInvalidScheme
	}
	if !scheme.Rule.Allows(amount) {
		return nil, ErrInvalidAmount
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
	if user.WalletBalance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	rate, err := s.Rates.Rate()
	if err != nil {
		return nil, err
	}

	investment := models.Investment{
		OrderID:    utils.GenerateOrderID("INV"),
		UserID:     userID,
		Amount:     amount,
		SchemeType: schemeType,
		ReturnRate: scheme.ReturnRate,
		UsdtReward: amount.Mul(scheme.ReturnRate).Div(rate).Round(2),
		MaturesAt:  time.Now().Add(scheme.Duration),
		Status:     models.InvestmentPending,
	}
	if err := s.DB.Create(&investment).Error; err != nil {
		return nil, err
	}

	zap.L().Info("investment requested",
		zap.String("order_id", investment.OrderID),
		zap.Uint("user_id", userID),
		zap.String("scheme", string(schemeType)),
		zap.String("amount", amount.String()),
		zap.String("usdt_reward", investment.UsdtReward.String()))
	return &investment, nil
}

// SetStatus applies an admin status transition. The whole transition runs in
// one DB transaction: a failed debit aborts everything and the investment
// keeps its previous status.
//
//   - pending → active: atomically debits the principal (re-validated against
//     the wallet, which may have changed since request) and pays the one-time
//     referral bonus if the investor was referred.
//   - → completed: credits the frozen UsdtReward; guarded on the previous
//     status so it fires at most once.
//   - → cancelled: closes the record with no balance effect.
//
// A non-nil maturesAt overrides the frozen maturity date (admin correction).
func (s *InvestmentService) SetStatus(investmentID uint, newStatus models.InvestmentStatus, adminNote string, maturesAt *time.Time) (*models.Investment, error) {
	switch newStatus {
	case models.InvestmentActive, models.InvestmentCompleted, models.InvestmentCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	var updated models.Investment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var investment models.Investment
		if err := tx.First(&investment, investmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		previous := investment.Status

		if newStatus == models.InvestmentActive && previous == models.InvestmentPending {
			if err := s.activate(tx, &investment); err != nil {
				return err
			}
		}
		if newStatus == models.InvestmentCompleted && previous != models.InvestmentCompleted {
			if err := s.complete(tx, &investment); err != nil {
				return err
			}
		}

		investment.Status = newStatus
		if adminNote != "" {
			investment.AdminNote = adminNote
		}
		if maturesAt != nil {
			investment.MaturesAt = *maturesAt
		}
		if err := tx.Save(&investment).Error; err != nil {
			return err
		}
		updated = investment
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("investment status updated",
		zap.String("order_id", updated.OrderID),
		zap.String("status", string(updated.Status)))
	return &updated, nil
}

// activate debits the principal and pays the referral bonus. The conditional
// debit is the race guard: if the wallet no longer covers the amount, the
// whole approval fails and nothing is applied.
func (s *InvestmentService) activate(tx *gorm.DB, investment *models.Investment) error {
	if err := s.Ledger.Debit(tx, investment.UserID, FieldWallet, investment.Amount); err != nil {
		return err
	}
	description := fmt.Sprintf("Investment %s activated (%s scheme)", investment.OrderID, investment.SchemeType)
	if err := s.Ledger.Record(tx, investment.UserID, models.TxInvestment, investment.Amount.Neg(), models.CurrencyINR, description); err != nil {
		return err
	}

	var investor models.User
	if err := tx.First(&investor, investment.UserID).Error; err != nil {
		return err
	}
	if investor.ReferredBy == nil {
		return nil
	}

	referrer, err := ResolveReferrer(tx, *investor.ReferredBy)
	if err != nil {
		return err
	}
	if referrer == nil || referrer.ID == investor.ID {
		return nil
	}

	rate, err := s.Rates.Rate()
	if err != nil {
		return err
	}
	bonus := investment.Amount.Mul(ReferralBonusRate).Div(rate).Round(2)
	if err := s.Ledger.Credit(tx, referrer.ID, FieldUsdt, bonus); err != nil {
		return err
	}
	bonusNote := fmt.Sprintf("Referral bonus for investment %s by %s", investment.OrderID, investor.Email)
	if err := s.Ledger.Record(tx, referrer.ID, models.TxReferralBonus, bonus, models.CurrencyUSDT, bonusNote); err != nil {
		return err
	}

	zap.L().Info("referral bonus paid",
		zap.Uint("referrer_id", referrer.ID),
		zap.String("order_id", investment.OrderID),
		zap.String("bonus", bonus.String()))
	return nil
}

// complete credits the reward frozen at request time.
func (s *InvestmentService) complete(tx *gorm.DB, investment *models.Investment) error {
	if err := s.Ledger.Credit(tx, investment.UserID, FieldUsdt, investment.UsdtReward); err != nil {
		return err
	}
	description := fmt.Sprintf("Investment %s matured: %s USDT reward", investment.OrderID, investment.UsdtReward.String())
	return s.Ledger.Record(tx, investment.UserID, models.TxInvestment, investment.UsdtReward, models.CurrencyUSDT, description)
}
