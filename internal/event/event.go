package event

import (
	"encoding/json"
	"time"
)

// Known message types across the dashboard endpoints.
const (
	TypeMessage               = "message"
	TypeConnectionEstablished = "connection_established"
	TypeUserJoined            = "user_joined"
	TypeUserLeft              = "user_left"
	TypeTypingStart           = "typing_start"
	TypeTypingStop            = "typing_stop"
	TypeTrainingUpdate        = "training_update"
	TypeModelStatus           = "model_status"
	TypeResourceUpdate        = "resource_update"
	TypeExperimentComplete    = "experiment_complete"
	TypeAnalyticsUpdate       = "analytics_update"
	TypeTradeCompleted        = "trade_completed"
	TypeRiskAlert             = "risk_alert"
	TypeStrategyUpdate        = "strategy_update"
	TypeStatusUpdate          = "status_update"
	TypePortfolioUpdate       = "portfolio_update"
	TypeOpportunityUpdate     = "opportunity_update"
	TypeRiskUpdate            = "risk_update"
	TypePerformanceUpdate     = "performance_update"
	TypeError                 = "error"
)

// Message is one inbound frame after type extraction. Data holds the full
// raw frame so handlers can decode the payload shape they expect.
type Message struct {
	Type       string
	Data       []byte
	ReceivedAt time.Time
}

// Decode unmarshals the full frame into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

// envelope is used for fast type extraction without a full parse.
type envelope struct {
	Type string `json:"type"`
}

// ExtractType returns the type field of a raw frame.
func ExtractType(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}
