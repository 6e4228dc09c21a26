package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lumenhq/livefeed/internal/api"
	"github.com/lumenhq/livefeed/internal/channel"
	"github.com/lumenhq/livefeed/internal/event"
	"github.com/lumenhq/livefeed/internal/poll"
)

const (
	tradeLimit = 200
	alertLimit = 100
)

// TradingSnapshot is a point-in-time copy of the trading dashboard state.
type TradingSnapshot struct {
	Running       bool
	Mode          string
	DailyPnL      float64
	Portfolio     event.PortfolioUpdate
	Trades        []event.TradeCompleted
	Alerts        []event.RiskAlert
	Strategies    map[string]event.StrategyUpdate
	Opportunities []event.Opportunity
	Risk          event.RiskUpdate
	Performance   event.PerformanceUpdate
}

// TradingView owns the trading dashboard state: engine status, portfolio,
// trade log, risk alerts, strategies, opportunities, and performance.
type TradingView struct {
	logger *slog.Logger

	mu            sync.Mutex
	running       bool
	mode          string
	dailyPnL      float64
	portfolio     event.PortfolioUpdate
	trades        []event.TradeCompleted
	alerts        []event.RiskAlert
	strategies    map[string]event.StrategyUpdate
	opportunities []event.Opportunity
	risk          event.RiskUpdate
	performance   event.PerformanceUpdate

	disposer []func()
}

// NewTradingView creates an empty trading view.
func NewTradingView(logger *slog.Logger) *TradingView {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradingView{
		logger:     logger.With("view", "trading"),
		strategies: make(map[string]event.StrategyUpdate),
	}
}

// Bind subscribes the view's handlers on a channel.
func (v *TradingView) Bind(ch *channel.Channel) {
	v.disposer = append(v.disposer,
		ch.Subscribe(event.TypeStatusUpdate, v.onStatusUpdate),
		ch.Subscribe(event.TypeTradeCompleted, v.onTradeCompleted),
		ch.Subscribe(event.TypeRiskAlert, v.onRiskAlert),
		ch.Subscribe(event.TypeStrategyUpdate, v.onStrategyUpdate),
		ch.Subscribe(event.TypePortfolioUpdate, v.onPortfolioUpdate),
		ch.Subscribe(event.TypeOpportunityUpdate, v.onOpportunityUpdate),
		ch.Subscribe(event.TypeRiskUpdate, v.onRiskUpdate),
		ch.Subscribe(event.TypePerformanceUpdate, v.onPerformanceUpdate),
	)
}

// Close removes all subscriptions.
func (v *TradingView) Close() {
	for _, d := range v.disposer {
		d()
	}
	v.disposer = nil
}

// PollTask returns the REST task that refreshes trading status between live
// updates.
func (v *TradingView) PollTask(client *api.Client) poll.Task {
	return poll.Task{
		Name: "trading_status",
		Fetch: func(ctx context.Context) error {
			status, err := client.GetTradingStatus(ctx)
			if err != nil {
				return err
			}
			v.mu.Lock()
			v.running = status.Running
			v.mode = status.Mode
			v.dailyPnL = status.DailyPnL
			v.mu.Unlock()
			return nil
		},
	}
}

// Snapshot returns a copy of the current state.
func (v *TradingView) Snapshot() TradingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := TradingSnapshot{
		Running:     v.running,
		Mode:        v.mode,
		DailyPnL:    v.dailyPnL,
		Portfolio:   v.portfolio,
		Risk:        v.risk,
		Performance: v.performance,
		Strategies:  make(map[string]event.StrategyUpdate, len(v.strategies)),
	}
	for name, s := range v.strategies {
		snap.Strategies[name] = s
	}
	snap.Trades = make([]event.TradeCompleted, len(v.trades))
	copy(snap.Trades, v.trades)
	snap.Alerts = make([]event.RiskAlert, len(v.alerts))
	copy(snap.Alerts, v.alerts)
	snap.Opportunities = make([]event.Opportunity, len(v.opportunities))
	copy(snap.Opportunities, v.opportunities)
	return snap
}

func (v *TradingView) onStatusUpdate(msg event.Message) {
	var p event.StatusUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad status_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.running = p.Data.Running
	v.mode = p.Data.Mode
	v.dailyPnL = p.Data.DailyPnL
	v.mu.Unlock()
}

func (v *TradingView) onTradeCompleted(msg event.Message) {
	var p event.TradeCompleted
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad trade_completed payload", "error", err)
		return
	}

	v.mu.Lock()
	v.trades = append(v.trades, p)
	if len(v.trades) > tradeLimit {
		v.trades = append([]event.TradeCompleted(nil), v.trades[len(v.trades)-tradeLimit:]...)
	}
	v.mu.Unlock()
}

func (v *TradingView) onRiskAlert(msg event.Message) {
	var p event.RiskAlert
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad risk_alert payload", "error", err)
		return
	}

	v.mu.Lock()
	v.alerts = append(v.alerts, p)
	if len(v.alerts) > alertLimit {
		v.alerts = append([]event.RiskAlert(nil), v.alerts[len(v.alerts)-alertLimit:]...)
	}
	v.mu.Unlock()

	if p.Level == "critical" {
		v.logger.Warn("critical risk alert", "message", p.Message, "source", p.Source)
	}
}

func (v *TradingView) onStrategyUpdate(msg event.Message) {
	var p event.StrategyUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad strategy_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.strategies[p.Strategy] = p
	v.mu.Unlock()
}

func (v *TradingView) onPortfolioUpdate(msg event.Message) {
	var p event.PortfolioUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad portfolio_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.portfolio = p
	v.mu.Unlock()
}

func (v *TradingView) onOpportunityUpdate(msg event.Message) {
	var p event.OpportunityUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad opportunity_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.opportunities = p.Opportunities
	v.mu.Unlock()
}

func (v *TradingView) onRiskUpdate(msg event.Message) {
	var p event.RiskUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad risk_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.risk = p
	v.mu.Unlock()
}

func (v *TradingView) onPerformanceUpdate(msg event.Message) {
	var p event.PerformanceUpdate
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad performance_update payload", "error", err)
		return
	}

	v.mu.Lock()
	v.performance = p
	v.mu.Unlock()
}
