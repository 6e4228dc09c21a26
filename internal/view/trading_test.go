package view

import (
	"fmt"
	"testing"
)

func TestTradingView_StatusUpdate(t *testing.T) {
	v := NewTradingView(nil)

	v.onStatusUpdate(frame(t, `{
		"type": "status_update",
		"data": {"running": true, "mode": "paper", "active_orders": 2, "daily_pnl": 15.25}
	}`))

	snap := v.Snapshot()
	if !snap.Running || snap.Mode != "paper" || snap.DailyPnL != 15.25 {
		t.Errorf("unexpected status: %+v", snap)
	}
}

func TestTradingView_TradeLog(t *testing.T) {
	v := NewTradingView(nil)

	for i := 0; i < tradeLimit+5; i++ {
		v.onTradeCompleted(frame(t, fmt.Sprintf(`{
			"type": "trade_completed",
			"trade_id": "t%d",
			"symbol": "BTC-USD",
			"side": "buy",
			"pnl": 1.5
		}`, i)))
	}

	snap := v.Snapshot()
	if len(snap.Trades) != tradeLimit {
		t.Fatalf("got %d trades, want %d", len(snap.Trades), tradeLimit)
	}
	if snap.Trades[0].TradeID != "t5" {
		t.Errorf("first retained = %q, want t5", snap.Trades[0].TradeID)
	}
	if snap.Trades[tradeLimit-1].TradeID != fmt.Sprintf("t%d", tradeLimit+4) {
		t.Errorf("last retained = %q", snap.Trades[tradeLimit-1].TradeID)
	}
}

func TestTradingView_AlertsAndStrategies(t *testing.T) {
	v := NewTradingView(nil)

	v.onRiskAlert(frame(t, `{"type": "risk_alert", "level": "warning", "message": "exposure high"}`))
	v.onRiskAlert(frame(t, `{"type": "risk_alert", "level": "critical", "message": "drawdown limit"}`))

	v.onStrategyUpdate(frame(t, `{"type": "strategy_update", "strategy": "momentum", "status": "active", "pnl": 3.2}`))
	v.onStrategyUpdate(frame(t, `{"type": "strategy_update", "strategy": "momentum", "status": "paused", "pnl": 3.0}`))

	snap := v.Snapshot()
	if len(snap.Alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(snap.Alerts))
	}
	if snap.Alerts[1].Level != "critical" {
		t.Errorf("alerts[1].Level = %q, want critical", snap.Alerts[1].Level)
	}
	if len(snap.Strategies) != 1 || snap.Strategies["momentum"].Status != "paused" {
		t.Errorf("unexpected strategies: %+v", snap.Strategies)
	}
}

func TestTradingView_PortfolioAndOpportunities(t *testing.T) {
	v := NewTradingView(nil)

	v.onPortfolioUpdate(frame(t, `{
		"type": "portfolio_update",
		"total_value": 10500.0,
		"cash": 2500.0,
		"positions": [{"symbol": "ETH-USD", "quantity": 2.0, "unrealized_pnl": 40.0}]
	}`))

	v.onOpportunityUpdate(frame(t, `{
		"type": "opportunity_update",
		"opportunities": [
			{"type": "cross_exchange", "pair": "BTC/USDT", "profit_pct": 0.4},
			{"type": "triangular", "pair": "ETH/BTC", "profit_pct": 0.2}
		]
	}`))

	snap := v.Snapshot()
	if snap.Portfolio.TotalValue != 10500.0 || len(snap.Portfolio.Positions) != 1 {
		t.Errorf("unexpected portfolio: %+v", snap.Portfolio)
	}
	if len(snap.Opportunities) != 2 || snap.Opportunities[0].Kind != "cross_exchange" {
		t.Errorf("unexpected opportunities: %+v", snap.Opportunities)
	}

	// Each update replaces the full opportunity set.
	v.onOpportunityUpdate(frame(t, `{"type": "opportunity_update", "opportunities": []}`))
	if snap := v.Snapshot(); len(snap.Opportunities) != 0 {
		t.Errorf("opportunities not replaced: %+v", snap.Opportunities)
	}
}

func TestTradingView_RiskAndPerformance(t *testing.T) {
	v := NewTradingView(nil)

	v.onRiskUpdate(frame(t, `{"type": "risk_update", "exposure": 0.6, "var_95": 120.0, "leverage": 1.5}`))
	v.onPerformanceUpdate(frame(t, `{"type": "performance_update", "total_return": 0.12, "sharpe": 1.8, "trades_today": 14}`))

	snap := v.Snapshot()
	if snap.Risk.Exposure != 0.6 || snap.Risk.VaR95 != 120.0 {
		t.Errorf("unexpected risk: %+v", snap.Risk)
	}
	if snap.Performance.Sharpe != 1.8 || snap.Performance.TradesToday != 14 {
		t.Errorf("unexpected performance: %+v", snap.Performance)
	}
}

func TestAnalyticsView_MergesMetrics(t *testing.T) {
	v := NewAnalyticsView(nil)

	v.onAnalyticsUpdate(frame(t, `{
		"type": "analytics_update",
		"metrics": {"requests_per_sec": 120.0, "error_rate": 0.01},
		"timestamp": "2025-06-01T12:00:00Z"
	}`))
	v.onAnalyticsUpdate(frame(t, `{
		"type": "analytics_update",
		"metrics": {"error_rate": 0.02},
		"timestamp": "2025-06-01T12:00:05Z"
	}`))

	metrics, updatedAt := v.Metrics()
	if metrics["requests_per_sec"] != 120.0 {
		t.Errorf("requests_per_sec = %v, want 120.0 (gauges merge)", metrics["requests_per_sec"])
	}
	if metrics["error_rate"] != 0.02 {
		t.Errorf("error_rate = %v, want 0.02 (latest wins)", metrics["error_rate"])
	}
	if updatedAt != "2025-06-01T12:00:05Z" {
		t.Errorf("updatedAt = %q", updatedAt)
	}
}
