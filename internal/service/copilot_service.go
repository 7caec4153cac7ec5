package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fleetwatch/backend/internal/config"
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/pkg/logger"
)

// CopilotService calls the external strategy generation endpoint. The
// returned metrics are opaque to the core; a failed call degrades to a
// neutral fallback result and never surfaces as an error upstream.
type CopilotService struct {
	cfg        config.CopilotConfig
	market     *MarketDataService
	httpClient *http.Client
	log        *logger.Logger
}

// NewCopilotService creates the strategy generation client
func NewCopilotService(cfg config.CopilotConfig, market *MarketDataService) *CopilotService {
	return &CopilotService{
		cfg:    cfg,
		market: market,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger.GetLogger(),
	}
}

// copilotPayload is the request body sent to the generation endpoint
type copilotPayload struct {
	Prompt   string               `json:"prompt"`
	Market   model.MarketSnapshot `json:"market"`
	Backtest model.BacktestConfig `json:"backtest"`
	Count    int                  `json:"count,omitempty"`
}

// GenerateStrategies produces one or more strategy results for the
// given prompt. Count values below 1 request a single strategy.
func (s *CopilotService) GenerateStrategies(ctx context.Context, req *model.StrategyRequest) []model.StrategyResult {
	count := req.Count
	if count < 1 {
		count = 1
	}

	if s.cfg.APIURL == "" {
		s.log.Warn("Copilot endpoint not configured, returning fallback strategy")
		return s.fallbackResults(req, count)
	}

	results, err := s.call(ctx, req, count)
	if err != nil {
		s.log.Error("Strategy generation failed, returning fallback", err)
		return s.fallbackResults(req, count)
	}
	return results
}

func (s *CopilotService) call(ctx context.Context, req *model.StrategyRequest, count int) ([]model.StrategyResult, error) {
	payload := copilotPayload{
		Prompt:   req.Prompt,
		Market:   s.market.Snapshot(),
		Backtest: req.Backtest,
	}
	if count > 1 {
		payload.Count = count
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("copilot endpoint returned status %d", resp.StatusCode)
	}

	// The endpoint returns either a single object or an array in batch
	// mode; accept both.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var batch []model.StrategyResult
	if err := json.Unmarshal(raw, &batch); err == nil {
		if len(batch) == 0 {
			return nil, fmt.Errorf("copilot endpoint returned empty batch")
		}
		return batch, nil
	}

	var single model.StrategyResult
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []model.StrategyResult{single}, nil
}

// fallbackResults builds the neutral do-nothing strategies surfaced when
// the collaborator is unreachable
func (s *CopilotService) fallbackResults(req *model.StrategyRequest, count int) []model.StrategyResult {
	capital := req.Backtest.InitialCapital
	if capital <= 0 {
		capital = 10000
	}

	snapshot := s.market.Snapshot()
	curve := make([]model.EquityPoint, 0, len(snapshot.Candles))
	for _, c := range snapshot.Candles {
		curve = append(curve, model.EquityPoint{Time: c.Time.Unix(), Value: capital})
	}

	results := make([]model.StrategyResult, count)
	for i := range results {
		results[i] = model.StrategyResult{
			StrategyName:   "Hold Baseline",
			Description:    "Strategy generation is unavailable. This placeholder holds the initial capital and executes no trades.",
			TotalReturn:    0,
			WinRate:        0,
			MaxDrawdown:    0,
			SharpeRatio:    0,
			TradesExecuted: 0,
			PseudoCode:     "on tick:\n  hold",
			EquityCurve:    curve,
		}
	}
	return results
}
