package model

// BacktestConfig parametrizes a strategy generation request
type BacktestConfig struct {
	InitialCapital  float64 `json:"initial_capital"`
	RiskPerTrade    float64 `json:"risk_per_trade"`   // percent
	SlippagePercent float64 `json:"slippage_percent"` // percent
}

// EquityPoint is one sample of a backtest equity curve
type EquityPoint struct {
	Time  int64   `json:"time"` // unix seconds
	Value float64 `json:"value"`
}

// StrategyResult is the fixed JSON shape returned by the strategy
// generation collaborator. The core never validates or reinterprets
// the metrics; they are only an input to deploy.
type StrategyResult struct {
	StrategyName   string        `json:"strategyName"`
	Description    string        `json:"description"`
	TotalReturn    float64       `json:"totalReturn"`
	WinRate        float64       `json:"winRate"`
	MaxDrawdown    float64       `json:"maxDrawdown"`
	SharpeRatio    float64       `json:"sharpeRatio"`
	TradesExecuted int           `json:"tradesExecuted"`
	PseudoCode     string        `json:"pseudoCode"`
	EquityCurve    []EquityPoint `json:"equityCurve"`
}

// StrategyRequest is the payload to generate one or more strategies
type StrategyRequest struct {
	Prompt   string         `json:"prompt" binding:"required"`
	Count    int            `json:"count"` // > 1 requests batch mode
	Backtest BacktestConfig `json:"backtest"`
}
