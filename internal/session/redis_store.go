package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/racketlab/swing-analytics/internal/stats"
)

// RedisStore реализует CacheStore для Redis (Infrastructure Layer)
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает новый экземпляр RedisStore
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// ===== Ключи Redis =====

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:metadata", sessionID)
}

func shotStatsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:shots", sessionID)
}

func preferencesKey(playerID string) string {
	return fmt.Sprintf("player:%s:preferences", playerID)
}

const leaderboardKey = "leaderboard:accuracy"

// ===== Управление сессиями =====

func (r *RedisStore) SetSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, sessionKey(session.ID), data, 0).Err()
}

func (r *RedisStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, shotStatsKey(sessionID))
	_, err := pipe.Exec(ctx)
	return err
}

// ===== Статистика живой сессии =====

// SetShotStats перезаписывает зеркало статистики сессии.
// Hash: поле - тип удара, значение - JSON накопителя.
func (r *RedisStore) SetShotStats(ctx context.Context, sessionID string, shots []stats.ShotStats) error {
	if len(shots) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(shots))
	for _, shot := range shots {
		data, err := json.Marshal(shot)
		if err != nil {
			return fmt.Errorf("failed to marshal shot stats: %w", err)
		}
		fields[shot.ShotType] = data
	}

	return r.client.HSet(ctx, shotStatsKey(sessionID), fields).Err()
}

func (r *RedisStore) GetShotStats(ctx context.Context, sessionID string) ([]stats.ShotStats, error) {
	data, err := r.client.HGetAll(ctx, shotStatsKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get shot stats: %w", err)
	}

	shots := make([]stats.ShotStats, 0, len(data))
	for _, raw := range data {
		var shot stats.ShotStats
		if err := json.Unmarshal([]byte(raw), &shot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shot stats: %w", err)
		}
		shots = append(shots, shot)
	}

	sort.Slice(shots, func(i, j int) bool {
		return shots[i].ShotType < shots[j].ShotType
	})

	return shots, nil
}

// ===== Таблица лидеров =====

func (r *RedisStore) UpdateLeaderboard(ctx context.Context, playerID string, score float64) error {
	return r.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  score,
		Member: playerID,
	}).Err()
}

func (r *RedisStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		playerID, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			PlayerID: playerID,
			Score:    z.Score,
			Rank:     i + 1,
		})
	}

	return entries, nil
}

// ===== Настройки игрока =====

func (r *RedisStore) SetPreferences(ctx context.Context, playerID string, prefs json.RawMessage) error {
	return r.client.Set(ctx, preferencesKey(playerID), []byte(prefs), 0).Err()
}

// GetPreferences возвращает блоб настроек игрока.
// Отсутствие настроек - не ошибка, возвращается пустой объект.
func (r *RedisStore) GetPreferences(ctx context.Context, playerID string) (json.RawMessage, error) {
	data, err := r.client.Get(ctx, preferencesKey(playerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return json.RawMessage(`{}`), nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return json.RawMessage(data), nil
}
