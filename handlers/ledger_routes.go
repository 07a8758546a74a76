package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"hashprime-backend/middleware"
	"hashprime-backend/models"
	"hashprime-backend/services"
	"hashprime-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SetupLedgerRoutes registers the user-facing workflow routes. The gateway
// forwards identity headers; UserContextMiddleware turns them into locals.
func SetupLedgerRoutes(app *fiber.App, deposits *services.DepositService, investments *services.InvestmentService, withdrawals *services.WithdrawalService, kyc *services.KYCService, ledger *services.LedgerService, db *gorm.DB) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/schemes", func(c *fiber.Ctx) error {
		type schemeView struct {
			Type       models.SchemeType `json:"type"`
			Name       string            `json:"name"`
			Slug       string            `json:"slug"`
			ReturnRate decimal.Decimal   `json:"return_rate"`
			Days       int               `json:"duration_days"`
			Amounts    []decimal.Decimal `json:"allowed_amounts,omitempty"`
			Min        *decimal.Decimal  `json:"min_amount,omitempty"`
			Max        *decimal.Decimal  `json:"max_amount,omitempty"`
		}
		var out []schemeView
		for _, t := range []models.SchemeType{models.Scheme3Months, models.Scheme6Months, models.Scheme1Year, models.Scheme5Years} {
			s := models.Schemes[t]
			v := schemeView{
				Type:       s.Type,
				Name:       s.Name,
				Slug:       s.Slug,
				ReturnRate: s.ReturnRate,
				Days:       int(s.Duration.Hours() / 24),
			}
			if s.Rule.Kind == models.RuleFixedAmounts {
				v.Amounts = s.Rule.FixedAmounts
			} else {
				min, max := s.Rule.Min, s.Rule.Max
				v.Min, v.Max = &min, &max
			}
			out = append(out, v)
		}
		return c.JSON(out)
	})

	secured.Get("/balance", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return fail(c, services.ErrNotFound)
		}
		return c.JSON(fiber.Map{
			"wallet_balance": user.WalletBalance,
			"usdt_balance":   user.UsdtBalance,
			"kyc_status":     user.KYCStatus,
			"referral_code":  user.ReferralCode,
		})
	})

	secured.Get("/transactions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if page < 1 {
			page = 1
		}
		txs, err := ledger.ListTransactions(userID, limit, (page-1)*limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"transactions": txs})
	})

	// Deposit request: multipart form with the payment receipt attached.
	secured.Post("/deposits", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		amount, err := decimal.NewFromString(c.FormValue("amount"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
		}
		method := models.PaymentMethod(c.FormValue("payment_method"))

		proofURL := ""
		if file, err := c.FormFile("proof"); err == nil {
			key := fmt.Sprintf("receipts/%d-%s%s", userID, utils.GenerateOrderID("RCPT"), filepath.Ext(file.Filename))
			proofURL, err = utils.UploadEvidence(file, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store receipt"})
			}
		}

		deposit, err := deposits.Request(userID, amount, method, proofURL)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(deposit)
	})

	secured.Post("/investments", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)
		otpVerified, _ := c.Locals("otp_verified").(bool)

		var req struct {
			Amount     decimal.Decimal   `json:"amount"`
			SchemeType models.SchemeType `json:"scheme_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		investment, err := investments.Request(userID, req.Amount, req.SchemeType, otpVerified)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(investment)
	})

	secured.Post("/withdrawals", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var req struct {
			Amount        decimal.Decimal `json:"amount"`
			WalletAddress string          `json:"wallet_address"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		withdrawal, err := withdrawals.Request(userID, req.Amount, req.WalletAddress)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(withdrawal)
	})

	// KYC submission: multipart form with the identity document attached.
	secured.Post("/kyc", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)
		docType := c.FormValue("doc_type")

		file, err := c.FormFile("document")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document file required"})
		}
		key := fmt.Sprintf("kyc/%d-%s%s", userID, utils.GenerateOrderID("KYC"), filepath.Ext(file.Filename))
		docURL, err := utils.UploadEvidence(file, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store document"})
		}

		doc, err := kyc.Submit(userID, docType, docURL)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})
}
