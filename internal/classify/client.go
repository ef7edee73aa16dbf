package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/racketlab/swing-analytics/internal/frame"
)

// Request - запрос классификации одного окна сэмплов
type Request struct {
	PlayerID       string               `json:"player_id"`
	SessionID      string               `json:"session_id"`
	SamplingRateHz int                  `json:"sampling_rate_hz"`
	Samples        []frame.SensorSample `json:"samples"`
}

// Result - результат классификации удара
type Result struct {
	ShotType      string  `json:"shot_type"`
	Confidence    float64 `json:"confidence"`
	SpeedMPS      float64 `json:"speed_mps"`
	AccuracyScore float64 `json:"accuracy_score"`
}

// Response - ответ сервиса классификации
type Response struct {
	PlayerID  string `json:"player_id"`
	SessionID string `json:"session_id"`
	Result    Result `json:"result"`
}

// Client - HTTP клиент сервиса классификации ударов.
// Один запрос - одно окно; ретраев нет, ошибка поднимается вызывающему
// как есть, уже слитая статистика при этом не затрагивается.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент сервиса классификации
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify отправляет окно сэмплов на классификацию и возвращает результат
func (c *Client) Classify(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/swing/classify", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("classify service returned status %d: %s", resp.StatusCode, payload)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("failed to decode classify response: %w", err)
	}

	return decoded.Result, nil
}
