package session

import (
	"context"
	"encoding/json"

	"github.com/racketlab/swing-analytics/internal/stats"
)

// Repository определяет интерфейс для постоянного хранилища сессий (Domain Layer)
type Repository interface {
	// Сохранение завершенной сессии вместе с ее статистикой (в транзакции)
	SaveSessionStats(ctx context.Context, session *Session, shots []stats.ShotStats) error

	// Чтение сессии и ее статистики
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	GetSessionStats(ctx context.Context, playerID, sessionID string) ([]stats.ShotStats, error)

	// История игрока: завершенные сессии в хронологическом порядке
	GetPlayerHistory(ctx context.Context, playerID string) ([]SessionSummary, error)

	// Список известных игроков (для пересчета таблицы лидеров)
	ListPlayers(ctx context.Context) ([]string, error)
}

// CacheStore определяет интерфейс для работы с кэшем (Redis)
type CacheStore interface {
	// Управление живыми сессиями в кэше
	SetSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Зеркало накопленной статистики живой сессии (hash на тип удара)
	SetShotStats(ctx context.Context, sessionID string, shots []stats.ShotStats) error
	GetShotStats(ctx context.Context, sessionID string) ([]stats.ShotStats, error)

	// Таблица лидеров (sorted set по карьерной точности)
	UpdateLeaderboard(ctx context.Context, playerID string, score float64) error
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Настройки отображения игрока (непрозрачный JSON блоб)
	SetPreferences(ctx context.Context, playerID string, prefs json.RawMessage) error
	GetPreferences(ctx context.Context, playerID string) (json.RawMessage, error)
}
