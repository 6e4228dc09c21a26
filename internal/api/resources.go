package api

import (
	"context"
	"fmt"
)

// Room is one chat room as returned by GET /api/rooms.
type Room struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RoomType    string `json:"room_type"`
	CreatedAt   string `json:"created_at"`
}

// RoomMessage is one stored message from GET /api/rooms/{id}/messages.
type RoomMessage struct {
	ID          int64  `json:"id"`
	RoomID      int64  `json:"room_id"`
	Username    string `json:"username"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	MessageType string `json:"message_type"`
}

// SendResult is the response to POST /api/rooms/{id}/messages.
type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// TradingStatus is the trading engine's comprehensive status.
type TradingStatus struct {
	Running       bool    `json:"running"`
	Mode          string  `json:"mode"`
	ActiveOrders  int     `json:"active_orders"`
	OpenPositions int     `json:"open_positions"`
	DailyPnL      float64 `json:"daily_pnl"`
	Error         string  `json:"error"`
}

// TrainingStatus is the training subsystem's status.
type TrainingStatus struct {
	TrainingActive bool              `json:"training_active"`
	CurrentRunID   string            `json:"current_run_id"`
	Error          string            `json:"error"`
	MCPClients     map[string]string `json:"mcp_clients"`
}

// AnalyticsSummary is the response to GET /api/agents/analytics.
type AnalyticsSummary struct {
	TotalInteractions int64          `json:"total_interactions"`
	AvgProcessingTime float64        `json:"average_processing_time"`
	ModeUsage         map[string]int `json:"mode_usage"`
}

// Health is the response to GET /api/health.
type Health struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	TradingEngine bool   `json:"trading_engine"`
	Version       string `json:"version"`
}

// GetRooms returns the available chat rooms.
func (c *Client) GetRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.get(ctx, "/api/rooms", nil, &rooms); err != nil {
		return nil, fmt.Errorf("get rooms: %w", err)
	}
	return rooms, nil
}

// GetRoomMessages returns stored messages for one room.
func (c *Client) GetRoomMessages(ctx context.Context, roomID int64) ([]RoomMessage, error) {
	var msgs []RoomMessage
	path := fmt.Sprintf("/api/rooms/%d/messages", roomID)
	if err := c.get(ctx, path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("get room messages: %w", err)
	}
	return msgs, nil
}

// SendRoomMessage posts a message to a room.
func (c *Client) SendRoomMessage(ctx context.Context, roomID int64, message string) (SendResult, error) {
	var res SendResult
	path := fmt.Sprintf("/api/rooms/%d/messages", roomID)
	payload := map[string]string{"message": message}
	if err := c.post(ctx, path, payload, &res); err != nil {
		return SendResult{}, fmt.Errorf("send room message: %w", err)
	}
	return res, nil
}

// GetTradingStatus returns the trading engine status.
func (c *Client) GetTradingStatus(ctx context.Context) (TradingStatus, error) {
	var status TradingStatus
	if err := c.get(ctx, "/api/trading/status", nil, &status); err != nil {
		return TradingStatus{}, fmt.Errorf("get trading status: %w", err)
	}
	return status, nil
}

// GetTrainingStatus returns the training subsystem status.
func (c *Client) GetTrainingStatus(ctx context.Context) (TrainingStatus, error) {
	var status TrainingStatus
	if err := c.get(ctx, "/api/training/status", nil, &status); err != nil {
		return TrainingStatus{}, fmt.Errorf("get training status: %w", err)
	}
	return status, nil
}

// GetAnalyticsSummary returns aggregate interaction analytics.
func (c *Client) GetAnalyticsSummary(ctx context.Context) (AnalyticsSummary, error) {
	var summary AnalyticsSummary
	if err := c.get(ctx, "/api/agents/analytics", nil, &summary); err != nil {
		return AnalyticsSummary{}, fmt.Errorf("get analytics summary: %w", err)
	}
	return summary, nil
}

// GetHealth returns the dashboard health summary.
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var h Health
	if err := c.get(ctx, "/api/health", nil, &h); err != nil {
		return Health{}, fmt.Errorf("get health: %w", err)
	}
	return h, nil
}
