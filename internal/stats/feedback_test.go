package stats

import (
	"strings"
	"testing"
)

func sessionWith(shotType string, count int, confidence float64) *Aggregate {
	a := NewAggregate()
	a.MergeStats(ShotStats{ShotType: shotType, Count: count, AverageConfidence: confidence, AverageSpeedMPS: 10.0})
	return a
}

func TestGenerateFeedback_NoSessions(t *testing.T) {
	msg := GenerateFeedback(nil, nil)
	if !strings.Contains(msg, "get started") {
		t.Errorf("Expected 'get started' message, got %q", msg)
	}

	msg = GenerateFeedback(NewAggregate(), nil)
	if !strings.Contains(msg, "get started") {
		t.Errorf("Expected 'get started' message for empty aggregate, got %q", msg)
	}
}

func TestGenerateFeedback_FirstSessionAmazing(t *testing.T) {
	msg := GenerateFeedback(sessionWith("Forehand", 20, 0.92), nil)
	if !strings.Contains(msg, "Amazing start") {
		t.Errorf("Expected 'Amazing start' branch, got %q", msg)
	}
	if !strings.Contains(msg, "Forehand") {
		t.Errorf("Expected dominant shot named, got %q", msg)
	}
}

func TestGenerateFeedback_FirstSessionFoundation(t *testing.T) {
	msg := GenerateFeedback(sessionWith("Backhand", 15, 0.80), nil)
	if !strings.Contains(msg, "Great foundation") {
		t.Errorf("Expected 'Great foundation' branch, got %q", msg)
	}
}

func TestGenerateFeedback_FirstSessionJourney(t *testing.T) {
	msg := GenerateFeedback(sessionWith("Serve", 10, 0.50), nil)
	if !strings.Contains(msg, "journey") {
		t.Errorf("Expected 'journey' branch, got %q", msg)
	}
}

func TestGenerateFeedback_Improvement(t *testing.T) {
	prev := 0.75
	msg := GenerateFeedback(sessionWith("Smash", 12, 0.80), &prev)
	if !strings.Contains(msg, "improvement") {
		t.Errorf("Expected improvement branch, got %q", msg)
	}
	// Дельта приводится в сообщении
	if !strings.Contains(msg, "5.0%") {
		t.Errorf("Expected delta cited in message, got %q", msg)
	}
}

func TestGenerateFeedback_Regression(t *testing.T) {
	prev := 0.85
	msg := GenerateFeedback(sessionWith("Forehand", 12, 0.80), &prev)
	if !strings.Contains(msg, "dipped") {
		t.Errorf("Expected regression branch, got %q", msg)
	}
	if !strings.Contains(msg, "Forehand") {
		t.Errorf("Expected dominant shot named in regression message, got %q", msg)
	}
	if !strings.Contains(msg, "5.0%") {
		t.Errorf("Expected positive magnitude cited, got %q", msg)
	}
}

func TestGenerateFeedback_StableAtExactThreshold(t *testing.T) {
	// Дельта ровно 0.02 попадает в стабильную ветку
	prev := 0.0
	msg := GenerateFeedback(sessionWith("Backhand", 12, 0.02), &prev)
	if !strings.Contains(msg, "small goal") {
		t.Errorf("Expected stable branch at exact 0.02 delta, got %q", msg)
	}
	if !strings.Contains(msg, "Backhand") {
		t.Errorf("Expected dominant shot named in stable message, got %q", msg)
	}
}
