package services

import (
	"errors"
	"testing"
	"time"

	"hashprime-backend/models"
)

func TestInvestmentRequest_FreezesRewardAndMaturity(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	user := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})

	before := time.Now()
	inv, err := svc.Request(user.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if inv.Status != models.InvestmentPending {
		t.Fatalf("expected pending, got %s", inv.Status)
	}
	// 50000 × 0.18 / 85 = 105.88 at two decimals.
	assertDecimal(t, "frozen usdt reward", inv.UsdtReward, dec("105.88"))
	assertDecimal(t, "return rate", inv.ReturnRate, dec("0.18"))

	wantMaturity := before.Add(90 * 24 * time.Hour)
	if inv.MaturesAt.Before(wantMaturity.Add(-time.Minute)) || inv.MaturesAt.After(wantMaturity.Add(time.Minute)) {
		t.Fatalf("maturity not ~90 days out: %v", inv.MaturesAt)
	}

	// Request does not touch the wallet.
	assertDecimal(t, "wallet after request", reloadUser(t, db, user.ID).WalletBalance, dec("100000"))
}

func TestInvestmentRequest_Validation(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	user := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})
	unverified := createTestUser(t, db, testUserOpts{email: "b@example.com", code: "REF2", kyc: models.KYCPending, wallet: dec("100000")})

	if _, err := svc.Request(user.ID, dec("50000"), models.Scheme3Months, false); !errors.Is(err, ErrOTPRequired) {
		t.Fatalf("expected ErrOTPRequired, got %v", err)
	}
	if _, err := svc.Request(unverified.ID, dec("50000"), models.Scheme3Months, true); !errors.Is(err, ErrKYCNotApproved) {
		t.Fatalf("expected ErrKYCNotApproved, got %v", err)
	}
	if _, err := svc.Request(user.ID, dec("50000"), models.SchemeType("2w"), true); !errors.Is(err, ErrInvalidScheme) {
		t.Fatalf("expected ErrInvalidScheme, got %v", err)
	}
	// 3m accepts only the fixed amount list.
	if _, err := svc.Request(user.ID, dec("60000"), models.Scheme3Months, true); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	// 1y takes a range, but 50000 is below its minimum.
	if _, err := svc.Request(user.ID, dec("50000"), models.Scheme1Year, true); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount below range, got %v", err)
	}
	// Valid scheme/amount but wallet cannot cover it.
	if _, err := svc.Request(user.ID, dec("250000"), models.Scheme3Months, true); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestInvestmentApproval_DebitsAndPaysReferralBonus(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)

	referrer := createTestUser(t, db, testUserOpts{email: "ref@example.com", code: "REFER99"})
	refBy := referrer.ReferralCode
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", referredBy: &refBy, wallet: dec("100000")})

	inv, err := svc.Request(investor.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	approved, err := svc.SetStatus(inv.ID, models.InvestmentActive, "verified", nil)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if approved.Status != models.InvestmentActive {
		t.Fatalf("expected active, got %s", approved.Status)
	}

	assertDecimal(t, "investor wallet", reloadUser(t, db, investor.ID).WalletBalance, dec("50000"))
	if n := countTransactions(t, db, investor.ID, models.TxInvestment); n != 1 {
		t.Fatalf("expected 1 investment transaction, got %d", n)
	}

	// 50000 × 0.05 / 85 = 29.41 USDT to the referrer, exactly once.
	assertDecimal(t, "referrer usdt", reloadUser(t, db, referrer.ID).UsdtBalance, dec("29.41"))
	if n := countTransactions(t, db, referrer.ID, models.TxReferralBonus); n != 1 {
		t.Fatalf("expected 1 referral bonus transaction, got %d", n)
	}

	// Re-approving an already active investment pays nothing again.
	if _, err := svc.SetStatus(inv.ID, models.InvestmentActive, "", nil); err != nil {
		t.Fatalf("second SetStatus failed: %v", err)
	}
	assertDecimal(t, "investor wallet unchanged", reloadUser(t, db, investor.ID).WalletBalance, dec("50000"))
	assertDecimal(t, "referrer usdt unchanged", reloadUser(t, db, referrer.ID).UsdtBalance, dec("29.41"))
}

func TestInvestmentApproval_NoReferrerNoBonus(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})

	inv, err := svc.Request(investor.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := svc.SetStatus(inv.ID, models.InvestmentActive, "", nil); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	var bonuses int64
	db.Model(&models.Transaction{}).Where("type = ?", models.TxReferralBonus).Count(&bonuses)
	if bonuses != 0 {
		t.Fatalf("expected no referral bonus, got %d", bonuses)
	}
}

func TestInvestmentApproval_DanglingReferralCodeSkipsBonus(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	ghost := "NOSUCHCODE"
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", referredBy: &ghost, wallet: dec("100000")})

	inv, err := svc.Request(investor.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	// Unresolvable referrer must not fail the approval.
	if _, err := svc.SetStatus(inv.ID, models.InvestmentActive, "", nil); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	assertDecimal(t, "investor wallet", reloadUser(t, db, investor.ID).WalletBalance, dec("50000"))
}

func TestInvestmentApproval_FailsWhenWalletDrained(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})

	// Two pending requests both pass the request-time check.
	first, err := svc.Request(investor.ID, dec("100000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("first Request failed: %v", err)
	}
	second, err := svc.Request(investor.ID, dec("100000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("second Request failed: %v", err)
	}

	if _, err := svc.SetStatus(first.ID, models.InvestmentActive, "", nil); err != nil {
		t.Fatalf("first approval failed: %v", err)
	}

	// The wallet is now empty; the second approval must fail with no
	// partial deduction and the investment must stay pending.
	if _, err := svc.SetStatus(second.ID, models.InvestmentActive, "", nil); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	var reloaded models.Investment
	if err := db.First(&reloaded, second.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != models.InvestmentPending {
		t.Fatalf("expected second investment pending, got %s", reloaded.Status)
	}
	assertDecimal(t, "wallet", reloadUser(t, db, investor.ID).WalletBalance, dec("0"))
	if n := countTransactions(t, db, investor.ID, models.TxInvestment); n != 1 {
		t.Fatalf("expected 1 investment transaction, got %d", n)
	}
}

func TestInvestmentCompletion_CreditsRewardOnce(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})

	inv, err := svc.Request(investor.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := svc.SetStatus(inv.ID, models.InvestmentActive, "", nil); err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	if _, err := svc.SetStatus(inv.ID, models.InvestmentCompleted, "matured", nil); err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	assertDecimal(t, "usdt after completion", reloadUser(t, db, investor.ID).UsdtBalance, dec("105.88"))

	// Completing again credits nothing further.
	if _, err := svc.SetStatus(inv.ID, models.InvestmentCompleted, "", nil); err != nil {
		t.Fatalf("second completion failed: %v", err)
	}
	assertDecimal(t, "usdt unchanged", reloadUser(t, db, investor.ID).UsdtBalance, dec("105.88"))
}

func TestInvestmentCancellation_NoSideEffects(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)
	investor := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", wallet: dec("100000")})

	inv, err := svc.Request(investor.ID, dec("50000"), models.Scheme3Months, true)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	cancelled, err := svc.SetStatus(inv.ID, models.InvestmentCancelled, "user asked to cancel", nil)
	if err != nil {
		t.Fatalf("cancellation failed: %v", err)
	}
	if cancelled.Status != models.InvestmentCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	assertDecimal(t, "wallet untouched", reloadUser(t, db, investor.ID).WalletBalance, dec("100000"))
	assertDecimal(t, "usdt untouched", reloadUser(t, db, investor.ID).UsdtBalance, dec("0"))
}

func TestInvestmentSetStatus_RejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	svc := NewInvestmentService(db, ledger, rate85)

	if _, err := svc.SetStatus(1, models.InvestmentStatus("frozen"), "", nil); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.SetStatus(999, models.InvestmentCompleted, "", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
