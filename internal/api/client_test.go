package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_GetRooms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms" {
			t.Errorf("path = %q, want /api/rooms", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		json.NewEncoder(w).Encode([]Room{
			{ID: 1, Name: "general", RoomType: "public"},
			{ID: 2, Name: "trading", RoomType: "public"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	rooms, err := client.GetRooms(context.Background())
	if err != nil {
		t.Fatalf("GetRooms failed: %v", err)
	}

	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2", len(rooms))
	}
	if rooms[0].Name != "general" || rooms[1].ID != 2 {
		t.Errorf("unexpected rooms: %+v", rooms)
	}
}

func TestClient_GetRoomMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms/7/messages" {
			t.Errorf("path = %q, want /api/rooms/7/messages", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]RoomMessage{
			{ID: 10, RoomID: 7, Username: "alice", Message: "hi"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	msgs, err := client.GetRoomMessages(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetRoomMessages failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Username != "alice" {
		t.Errorf("unexpected messages: %+v", msgs)
	}
}

func TestClient_SendRoomMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["message"] != "hello room" {
			t.Errorf("message = %q, want %q", payload["message"], "hello room")
		}
		json.NewEncoder(w).Encode(SendResult{Success: true, ID: 42})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	res, err := client.SendRoomMessage(context.Background(), 3, "hello room")
	if err != nil {
		t.Fatalf("SendRoomMessage failed: %v", err)
	}
	if !res.Success || res.ID != 42 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "room not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetRoomMessages(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("404 should not be retryable")
	}
}

func TestClient_RetryOn503(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Health{Status: "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetries(3, 10*time.Millisecond))
	h, err := client.GetHealth(context.Background())
	if err != nil {
		t.Fatalf("GetHealth failed: %v", err)
	}
	if h.Status != "healthy" {
		t.Errorf("status = %q, want healthy", h.Status)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.GetHealth(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1", got)
	}
}

func TestClient_NoRetryOn400(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetries(3, 10*time.Millisecond))
	if _, err := client.GetHealth(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1", got)
	}
}

func TestClient_ContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.GetTradingStatus(ctx); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestClient_GetAnalyticsSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agents/analytics" {
			t.Errorf("path = %q, want /api/agents/analytics", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AnalyticsSummary{
			TotalInteractions: 1200,
			AvgProcessingTime: 0.8,
			ModeUsage:         map[string]int{"chat": 900, "trade": 300},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	summary, err := client.GetAnalyticsSummary(context.Background())
	if err != nil {
		t.Fatalf("GetAnalyticsSummary failed: %v", err)
	}
	if summary.TotalInteractions != 1200 || summary.ModeUsage["chat"] != 900 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestClient_GetTradingStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trading/status" {
			t.Errorf("path = %q, want /api/trading/status", r.URL.Path)
		}
		json.NewEncoder(w).Encode(TradingStatus{
			Running:      true,
			Mode:         "paper",
			ActiveOrders: 4,
			DailyPnL:     12.5,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	status, err := client.GetTradingStatus(context.Background())
	if err != nil {
		t.Fatalf("GetTradingStatus failed: %v", err)
	}
	if !status.Running || status.Mode != "paper" || status.ActiveOrders != 4 {
		t.Errorf("unexpected status: %+v", status)
	}
}
