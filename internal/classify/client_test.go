package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/racketlab/swing-analytics/internal/frame"
)

func TestClient_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/swing/classify" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method %s", r.Method)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.PlayerID != "player_1" || req.SessionID != "session_1" {
			t.Errorf("Unexpected identifiers: %+v", req)
		}
		if req.SamplingRateHz != 100 || len(req.Samples) != 2 {
			t.Errorf("Unexpected window shape: rate=%d samples=%d", req.SamplingRateHz, len(req.Samples))
		}

		json.NewEncoder(w).Encode(Response{
			PlayerID:  req.PlayerID,
			SessionID: req.SessionID,
			Result: Result{
				ShotType:      "Smash",
				Confidence:    0.91,
				SpeedMPS:      18.4,
				AccuracyScore: 0.88,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Classify(context.Background(), Request{
		PlayerID:       "player_1",
		SessionID:      "session_1",
		SamplingRateHz: 100,
		Samples: []frame.SensorSample{
			{AX: 1, AY: 2, AZ: 9.8},
			{AX: 2, AY: 3, AZ: 9.7, T: 0.01},
		},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.ShotType != "Smash" || result.Confidence != 0.91 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestClient_ClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Classify(context.Background(), Request{PlayerID: "p", SessionID: "s", SamplingRateHz: 100})
	if err == nil {
		t.Fatal("Expected error on server failure")
	}
}

func TestClient_ClassifyUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := client.Classify(context.Background(), Request{PlayerID: "p", SessionID: "s"})
	if err == nil {
		t.Fatal("Expected error for unreachable service")
	}
}
