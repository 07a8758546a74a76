package handlers

import (
	"strconv"
	"time"

	"hashprime-backend/middleware"
	"hashprime-backend/models"
	"hashprime-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type resolveRequest struct {
	Decision string `json:"decision"` // "approved" or "rejected"
	Note     string `json:"note"`
}

func (r resolveRequest) approve() (bool, bool) {
	switch r.Decision {
	case "approved":
		return true, true
	case "rejected":
		return false, true
	}
	return false, false
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, err
	}
	return uint(id), nil
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return limit, (page - 1) * limit
}

// SetupAdminRoutes registers the approval endpoints. These are the only paths
// that move money; every one funnels through the ledger service.
func SetupAdminRoutes(app *fiber.App, deposits *services.DepositService, investments *services.InvestmentService, withdrawals *services.WithdrawalService, kyc *services.KYCService, ledger *services.LedgerService, db *gorm.DB) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminRequired())

	admin.Get("/deposits", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		q := db.Model(&models.Deposit{}).Order("created_at DESC").Limit(limit).Offset(offset)
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if userID := c.Query("user_id"); userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		var out []models.Deposit
		if err := q.Find(&out).Error; err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deposits": out})
	})

	admin.Put("/deposits/:id/resolve", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid deposit ID"})
		}
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		approve, ok := req.approve()
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "decision must be approved or rejected"})
		}
		deposit, err := deposits.Resolve(id, approve, req.Note)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(deposit)
	})

	admin.Get("/investments", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		q := db.Model(&models.Investment{}).Order("created_at DESC").Limit(limit).Offset(offset)
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if scheme := c.Query("scheme_type"); scheme != "" {
			q = q.Where("scheme_type = ?", scheme)
		}
		if search := c.Query("search"); search != "" {
			q = q.Where("order_id LIKE ?", "%"+search+"%")
		}
		var out []models.Investment
		if err := q.Find(&out).Error; err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"investments": out})
	})

	admin.Put("/investments/:id/status", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid investment ID"})
		}
		var req struct {
			Status    models.InvestmentStatus `json:"status"`
			Note      string                  `json:"note"`
			MaturesAt *time.Time              `json:"matures_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		investment, err := investments.SetStatus(id, req.Status, req.Note, req.MaturesAt)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(investment)
	})

	admin.Get("/withdrawals", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		q := db.Model(&models.Withdrawal{}).Order("created_at DESC").Limit(limit).Offset(offset)
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		var out []models.Withdrawal
		if err := q.Find(&out).Error; err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"withdrawals": out})
	})

	admin.Put("/withdrawals/:id/resolve", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid withdrawal ID"})
		}
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		approve, ok := req.approve()
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "decision must be approved or rejected"})
		}
		withdrawal, err := withdrawals.Resolve(id, approve, req.Note)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(withdrawal)
	})

	admin.Put("/kyc/:id/review", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document ID"})
		}
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		approve, ok := req.approve()
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "decision must be approved or rejected"})
		}
		doc, err := kyc.Review(id, approve, req.Note)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(doc)
	})

	// Full audit trail across all users.
	admin.Get("/transactions", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		var userID uint
		if raw := c.Query("user_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user_id"})
			}
			userID = uint(parsed)
		}
		txs, err := ledger.ListTransactions(userID, limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"transactions": txs})
	})

	// Reconciliation check: stored balance vs. transaction log.
	admin.Get("/users/:id/reconcile", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID"})
		}
		currency := models.Currency(c.Query("currency", string(models.CurrencyINR)))
		if err := ledger.Reconcile(id, currency); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"reconciled": true, "currency": currency})
	})
}
