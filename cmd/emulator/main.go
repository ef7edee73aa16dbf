package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/racketlab/swing-analytics/internal/emulator"
)

type sessionResponse struct {
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
}

// createSession заводит сессию на сервере и возвращает ее ID
func createSession(serverURL, playerID string, rate int) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"player_id":        playerID,
		"sampling_rate_hz": rate,
	})

	resp, err := http.Post(serverURL+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var decoded sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}

	return decoded.Session.ID, nil
}

func main() {
	serverURL := getEnvString("SERVER_URL", "http://localhost:8080")
	wsURL := getEnvString("SERVER_WS_URL", "ws://localhost:8080")
	playerID := getEnvString("PLAYER_ID", "practice_player")
	sampleRate := getEnvInt("SAMPLE_RATE_HZ", 100)
	durationSec := getEnvInt("DURATION_SEC", 60)
	jsonlPath := getEnvString("JSONL_PATH", "")

	sessionID, err := createSession(serverURL, playerID, sampleRate)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Printf("[INFO] Created session %s for player %s", sessionID, playerID)

	wsSender, err := emulator.NewWSSender(fmt.Sprintf("%s/ws/ingest?session_id=%s", wsURL, sessionID))
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to ingest endpoint: %v", err)
	}

	var sender emulator.FrameSender = wsSender
	if jsonlPath != "" {
		jsonlSender, err := emulator.NewJSONLSender(jsonlPath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to open JSONL file: %v", err)
		}
		sender = emulator.NewMultiSender(wsSender, jsonlSender)
		log.Printf("[INFO] Mirroring frames to %s", jsonlPath)
	}
	defer sender.Close()

	gen := emulator.NewSwingGenerator(sampleRate)
	em := emulator.NewEmulator(gen, sender, emulator.Config{
		SampleRateHz: sampleRate,
		Duration:     time.Duration(durationSec) * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("[INFO] Shutting down emulator...")
		cancel()
	}()

	if err := em.Run(ctx); err != nil {
		log.Fatalf("[FATAL] Emulator failed: %v", err)
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
