package event

// Wire payloads for the dashboard endpoints. Timestamps arrive as ISO 8601
// strings; room IDs are numeric on the wire.

// ChatMessage is the payload of a "message" frame from /ws/rooms.
type ChatMessage struct {
	Type   string `json:"type"`
	RoomID int64  `json:"room_id"`
	Msg    struct {
		ID          int64  `json:"id"`
		UserID      string `json:"user_id"`
		Username    string `json:"username"`
		Content     string `json:"content"`
		MessageType string `json:"message_type"`
		Timestamp   string `json:"timestamp"`
		ReplyToID   int64  `json:"reply_to_id"`
	} `json:"message"`
}

// ConnectionEstablished is the handshake confirmation frame.
type ConnectionEstablished struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// Presence is the payload of "user_joined" and "user_left" frames.
type Presence struct {
	Type      string `json:"type"`
	RoomID    int64  `json:"room_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// Typing is the payload of "typing_start" and "typing_stop" frames.
type Typing struct {
	Type     string `json:"type"`
	RoomID   int64  `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TrainingUpdate carries live metrics for a training run.
type TrainingUpdate struct {
	Type         string  `json:"type"`
	RunID        string  `json:"run_id"`
	Epoch        int     `json:"epoch"`
	Step         int64   `json:"step"`
	Loss         float64 `json:"loss"`
	Accuracy     float64 `json:"accuracy"`
	LearningRate float64 `json:"learning_rate"`
	Progress     float64 `json:"progress"`
	Timestamp    string  `json:"timestamp"`
}

// ModelStatus reports serving state for one model.
type ModelStatus struct {
	Type      string  `json:"type"`
	Model     string  `json:"model"`
	Status    string  `json:"status"`
	Version   string  `json:"version"`
	LatencyMS float64 `json:"latency_ms"`
}

// ResourceUpdate carries host resource gauges for the training dashboard.
type ResourceUpdate struct {
	Type          string  `json:"type"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	GPUPercent    float64 `json:"gpu_percent"`
	GPUMemPercent float64 `json:"gpu_memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// ExperimentComplete announces a finished experiment.
type ExperimentComplete struct {
	Type         string  `json:"type"`
	ExperimentID string  `json:"experiment_id"`
	Name         string  `json:"name"`
	Result       string  `json:"result"`
	DurationSecs float64 `json:"duration_seconds"`
	BestMetric   float64 `json:"best_metric"`
}

// AnalyticsUpdate is a bag of named gauges for the analytics dashboard.
type AnalyticsUpdate struct {
	Type      string             `json:"type"`
	Metrics   map[string]float64 `json:"metrics"`
	Timestamp string             `json:"timestamp"`
}

// TradeCompleted reports one filled trade.
type TradeCompleted struct {
	Type      string  `json:"type"`
	TradeID   string  `json:"trade_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"` // "buy" or "sell"
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	PnL       float64 `json:"pnl"`
	Strategy  string  `json:"strategy"`
	Timestamp string  `json:"timestamp"`
}

// RiskAlert is an operator-facing warning from the trading engine.
type RiskAlert struct {
	Type      string `json:"type"`
	Level     string `json:"level"` // "info", "warning", "critical"
	Message   string `json:"message"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// StrategyUpdate reports per-strategy state.
type StrategyUpdate struct {
	Type     string  `json:"type"`
	Strategy string  `json:"strategy"`
	Status   string  `json:"status"`
	PnL      float64 `json:"pnl"`
	WinRate  float64 `json:"win_rate"`
	Trades   int64   `json:"trades"`
}

// StatusUpdate is the trading engine's comprehensive status frame.
type StatusUpdate struct {
	Type string `json:"type"`
	Data struct {
		Running       bool    `json:"running"`
		Mode          string  `json:"mode"`
		ActiveOrders  int     `json:"active_orders"`
		OpenPositions int     `json:"open_positions"`
		DailyPnL      float64 `json:"daily_pnl"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Position is one holding inside a portfolio update.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AvgPrice      float64 `json:"avg_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// PortfolioUpdate carries the full portfolio state.
type PortfolioUpdate struct {
	Type       string     `json:"type"`
	TotalValue float64    `json:"total_value"`
	Cash       float64    `json:"cash"`
	DailyPnL   float64    `json:"daily_pnl"`
	Positions  []Position `json:"positions"`
	Timestamp  string     `json:"timestamp"`
}

// Opportunity is one arbitrage opportunity inside an opportunity update.
type Opportunity struct {
	Kind         string  `json:"type"` // "cross_exchange" or "triangular"
	Pair         string  `json:"pair"`
	BuyExchange  string  `json:"buy_exchange"`
	SellExchange string  `json:"sell_exchange"`
	ProfitPct    float64 `json:"profit_pct"`
	Volume       float64 `json:"volume"`
}

// OpportunityUpdate carries the current opportunity set.
type OpportunityUpdate struct {
	Type          string        `json:"type"`
	Opportunities []Opportunity `json:"opportunities"`
	Timestamp     string        `json:"timestamp"`
}

// RiskUpdate carries portfolio risk gauges.
type RiskUpdate struct {
	Type        string  `json:"type"`
	Exposure    float64 `json:"exposure"`
	VaR95       float64 `json:"var_95"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Leverage    float64 `json:"leverage"`
}

// PerformanceUpdate carries rolling performance figures.
type PerformanceUpdate struct {
	Type        string  `json:"type"`
	TotalReturn float64 `json:"total_return"`
	Sharpe      float64 `json:"sharpe"`
	WinRate     float64 `json:"win_rate"`
	TradesToday int64   `json:"trades_today"`
}

// ErrorFrame is the server's error envelope.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Outbound is a client-to-server frame (chat sends, status commands).
type Outbound struct {
	Type      string `json:"type,omitempty"`
	Command   string `json:"command,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	RoomID    int64  `json:"room_id,omitempty"`
	Message   string `json:"message,omitempty"`
}
