package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hashprime-backend/handlers"
	"hashprime-backend/middleware"
	"hashprime-backend/models"
	"hashprime-backend/services"
	"hashprime-backend/utils"
	"hashprime-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB: receipts and KYC documents
	})

	// Only gateway requests allowed — the gateway terminates user sessions.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Roles, X-Otp-Verified, X-Service-Token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		zap.L().Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		zap.L().Fatal("failed to initialize R2 client", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
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
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}

	ledger := services.NewLedgerService(db)
	rates := services.NewDBRateProvider(db)
	depositService := services.NewDepositService(db, ledger, rates)
	investmentService := services.NewInvestmentService(db, ledger, rates)
	withdrawalService := services.NewWithdrawalService(db, ledger)
	kycService := services.NewKYCService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv("RATE_SERVICE_URL") != "" {
		rateSyncClient := workers.NewRateSyncClient(db)
		go workers.PollRates(ctx, rateSyncClient, 60*time.Second)
	} else {
		zap.L().Warn("RATE_SERVICE_URL not set, serving the static env rate")
	}

	investmentService.StartMaturityScheduler()

	handlers.SetupLedgerRoutes(app, depositService, investmentService, withdrawalService, kycService, ledger, db)
	handlers.SetupAdminRoutes(app, depositService, investmentService, withdrawalService, kycService, ledger, db)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5300"
	}
	go func() {
		if err := app.Listen(addr); err != nil {
			zap.L().Error("server error", zap.Error(err))
		}
	}()

	zap.L().Info("server running", zap.String("addr", addr))
	zap.L().Info("rate polling running (every 60s)")
	zap.L().Info("maturity scheduler running (every 1m)")

	<-ctx.Done()
	zap.L().Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zap.L().Error("shutdown error", zap.Error(err))
	}
}
