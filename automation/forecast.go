package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SalesPoint struct {
	Date time.Time       `json:"date"`
	Qty  decimal.Decimal `json:"qty"`
}

// StockPredictor turns a product's sales history into a human-readable
// depletion estimate. It is an optional collaborator: an unavailable
// predictor degrades the alert, it never fails the rule.
type StockPredictor interface {
	Predict(ctx context.Context, productName string, currentStock decimal.Decimal, history []SalesPoint) (string, error)
}

type forecastClient struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
}

// NewForecastClientFromEnv returns nil when FORECAST_API_BASE_URL is unset;
// callers must treat a nil predictor as "no prediction available".
func NewForecastClientFromEnv() StockPredictor {
	baseURL := strings.TrimSpace(os.Getenv("FORECAST_API_BASE_URL"))
	if baseURL == "" {
		return nil
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("FORECAST_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &forecastClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(os.Getenv("FORECAST_API_KEY")),
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type forecastRequest struct {
	ProductName  string          `json:"product_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	SalesHistory []SalesPoint    `json:"sales_history"`
}

type forecastResponse struct {
	Prediction string `json:"prediction"`
}

func (c *forecastClient) Predict(ctx context.Context, productName string, currentStock decimal.Decimal, history []SalesPoint) (string, error) {
	payload, err := json.Marshal(forecastRequest{
		ProductName:  productName,
		CurrentStock: currentStock,
		SalesHistory: history,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/stockout-prediction", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHdr, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("forecast api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Prediction), nil
}
