package session

import (
	"time"

	"github.com/racketlab/swing-analytics/internal/classify"
	"github.com/racketlab/swing-analytics/internal/stats"
)

// SessionStatus представляет статус сессии
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "ACTIVE"
	SessionStatusStopped SessionStatus = "STOPPED"
)

// Session представляет тренировочную сессию игрока
type Session struct {
	ID             string        `json:"id"`
	PlayerID       string        `json:"player_id"`
	Status         SessionStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	StoppedAt      *time.Time    `json:"stopped_at,omitempty"`
	SamplingRateHz int           `json:"sampling_rate_hz"`
	TotalSwings    int           `json:"total_swings"`
}

// CreateSessionRequest представляет запрос на создание сессии
type CreateSessionRequest struct {
	PlayerID       string `json:"player_id"`
	SamplingRateHz int    `json:"sampling_rate_hz,omitempty"`
}

// SessionResponse представляет ответ с информацией о сессии.
// BufferedSamples заполняется только для живых сессий.
type SessionResponse struct {
	Session         *Session          `json:"session"`
	Shots           []stats.ShotStats `json:"shots,omitempty"`
	BufferedSamples int               `json:"buffered_samples,omitempty"`
}

// SwingResponse представляет результат классификации одного удара
type SwingResponse struct {
	PlayerID  string            `json:"player_id"`
	SessionID string            `json:"session_id"`
	Result    classify.Result   `json:"result"`
	Shots     []stats.ShotStats `json:"shots"`
}

// SessionSummary представляет сводку завершенной сессии
type SessionSummary struct {
	SessionID   string            `json:"session_id"`
	StartedAt   time.Time         `json:"started_at"`
	TotalSwings int               `json:"total_swings"`
	AvgAccuracy float64           `json:"avg_accuracy"`
	AvgSpeedMPS float64           `json:"avg_speed_mps"`
	Shots       []stats.ShotStats `json:"shots"`
}

// PlayerHistoryResponse представляет историю сессий игрока
// в хронологическом порядке
type PlayerHistoryResponse struct {
	PlayerID string           `json:"player_id"`
	Sessions []SessionSummary `json:"sessions"`
}

// SessionStatsResponse представляет статистику одной сессии
type SessionStatsResponse struct {
	PlayerID  string            `json:"player_id"`
	SessionID string            `json:"session_id"`
	Shots     []stats.ShotStats `json:"shots"`
}

// PlayerSummary представляет карьерную сводку игрока:
// готовые к отображению выходы движка аналитики
type PlayerSummary struct {
	PlayerID    string            `json:"player_id"`
	TotalSwings int               `json:"total_swings"`
	AvgAccuracy float64           `json:"avg_accuracy"`
	AvgSpeedMPS float64           `json:"avg_speed_mps"`
	Level       string            `json:"level"`
	BestShot    *stats.ShotStats  `json:"best_shot,omitempty"`
	Trend       stats.Trend       `json:"trend"`
	Feedback    string            `json:"feedback"`
	Shots       []stats.ShotStats `json:"shots"`
}

// LeaderboardEntry представляет позицию игрока в таблице лидеров
type LeaderboardEntry struct {
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

// Статусы испытаний
const (
	ChallengeStatusNotStarted = "not_started"
	ChallengeStatusInProgress = "in_progress"
	ChallengeStatusCompleted  = "completed"
)

// Challenge представляет тренировочное испытание, оцениваемое по
// статистике текущей сессии
type Challenge struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	TargetShot      string   `json:"target_shot"`
	TargetAccuracy  float64  `json:"target_accuracy"`
	Status          string   `json:"status"`
	Progress        float64  `json:"progress"`
	CurrentAccuracy *float64 `json:"current_accuracy,omitempty"`
	CurrentSwings   int      `json:"current_swings"`
}

// baseChallenges - фиксированный набор испытаний
func baseChallenges() []Challenge {
	return []Challenge{
		{
			ID:             "c1",
			Title:          "Forehand Accuracy",
			Description:    "Hit 20 consistent forehands above 80% accuracy.",
			TargetShot:     "Forehand",
			TargetAccuracy: 0.8,
			Status:         ChallengeStatusNotStarted,
		},
		{
			ID:             "c2",
			Title:          "Backhand Power",
			Description:    "Perform 10 strong backhands with high racket speed.",
			TargetShot:     "Backhand",
			TargetAccuracy: 0.75,
			Status:         ChallengeStatusNotStarted,
		},
	}
}

// summaryFromAggregate строит сводку сессии из агрегата
func summaryFromAggregate(sessionID string, startedAt time.Time, agg *stats.Aggregate) SessionSummary {
	count, accuracy, speed := agg.Overall()
	return SessionSummary{
		SessionID:   sessionID,
		StartedAt:   startedAt,
		TotalSwings: count,
		AvgAccuracy: accuracy,
		AvgSpeedMPS: speed,
		Shots:       agg.ShotsSorted(),
	}
}
