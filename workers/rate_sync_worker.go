package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"hashprime-backend/models"
	"hashprime-backend/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateSyncClient pulls the INR/USDT rate from the market-data service and
// persists it locally so workflows never block on the external API.
type RateSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewRateSyncClient(db *gorm.DB) *RateSyncClient {
	baseURL := os.Getenv("RATE_SERVICE_URL")
	if baseURL == "" {
		zap.L().Fatal("RATE_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("RATE_SERVICE_TOKEN")

	return &RateSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchRate calls the market-data endpoint for the platform pair.
func (c *RateSyncClient) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/rates/%s", c.BaseURL, services.RatePair))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("X-Service-Token", c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to call rate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return decimal.Zero, fmt.Errorf("rate service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Pair string          `json:"pair"`
		Rate decimal.Decimal `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if !response.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate service returned non-positive rate %s", response.Rate)
	}

	return response.Rate, nil
}

// Store upserts the single row for the pair. A fetch failure upstream leaves
// the previous rate in place.
func (c *RateSyncClient) Store(rate decimal.Decimal) error {
	row := models.ExchangeRate{
		Pair:      services.RatePair,
		Rate:      rate,
		FetchedAt: time.Now().UTC(),
	}
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pair"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "fetched_at"}),
	}).Create(&row).Error
}

// PollRates refreshes the local rate on a fixed interval until ctx is done.
func PollRates(ctx context.Context, client *RateSyncClient, pollInterval time.Duration) {
	zap.L().Info("starting exchange rate polling", zap.Duration("interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sync := func() {
		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		rate, err := client.FetchRate(fetchCtx)
		if err != nil {
			zap.L().Warn("rate fetch failed, keeping previous rate", zap.Error(err))
			return
		}
		if err := client.Store(rate); err != nil {
			zap.L().Error("failed to store rate", zap.Error(err))
			return
		}
		zap.L().Debug("exchange rate synced", zap.String("rate", rate.String()))
	}

	sync()
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("rate polling stopped")
			return
		case <-ticker.C:
			sync()
		}
	}
}
