package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/racketlab/swing-analytics/internal/stats"
)

// PostgresRepository реализует Repository для PostgreSQL (Infrastructure Layer)
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// NewPostgresRepositoryFromDSN создает репозиторий из строки подключения
func NewPostgresRepositoryFromDSN(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// Close закрывает соединение с БД
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SaveSessionStats сохраняет завершенную сессию и ее статистику в транзакции
func (r *PostgresRepository) SaveSessionStats(ctx context.Context, session *Session, shots []stats.ShotStats) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sessions (id, player_id, status, started_at, stopped_at, sampling_rate_hz, total_swings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, stopped_at = EXCLUDED.stopped_at, total_swings = EXCLUDED.total_swings
	`

	_, err = tx.ExecContext(ctx, query,
		session.ID,
		session.PlayerID,
		session.Status,
		session.StartedAt,
		session.StoppedAt,
		session.SamplingRateHz,
		session.TotalSwings,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	statsQuery := `
		INSERT INTO session_shot_stats (session_id, shot_type, count, average_confidence, average_speed_mps)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, shot_type) DO UPDATE
		SET count = EXCLUDED.count,
		    average_confidence = EXCLUDED.average_confidence,
		    average_speed_mps = EXCLUDED.average_speed_mps
	`

	for _, shot := range shots {
		if _, err := tx.ExecContext(ctx, statsQuery,
			session.ID,
			shot.ShotType,
			shot.Count,
			shot.AverageConfidence,
			shot.AverageSpeedMPS,
		); err != nil {
			return fmt.Errorf("failed to save shot stats for %s: %w", shot.ShotType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSession получает сессию по ID
func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	query := `
		SELECT id, player_id, status, started_at, stopped_at, sampling_rate_hz, total_swings
		FROM sessions
		WHERE id = $1
	`

	var session Session
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.PlayerID,
		&session.Status,
		&session.StartedAt,
		&session.StoppedAt,
		&session.SamplingRateHz,
		&session.TotalSwings,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// GetSessionStats получает статистику одной сессии игрока
func (r *PostgresRepository) GetSessionStats(ctx context.Context, playerID, sessionID string) ([]stats.ShotStats, error) {
	query := `
		SELECT st.shot_type, st.count, st.average_confidence, st.average_speed_mps
		FROM session_shot_stats st
		JOIN sessions s ON s.id = st.session_id
		WHERE s.player_id = $1 AND st.session_id = $2
		ORDER BY st.shot_type
	`

	rows, err := r.db.QueryContext(ctx, query, playerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", err)
	}
	defer rows.Close()

	var shots []stats.ShotStats
	for rows.Next() {
		var shot stats.ShotStats
		if err := rows.Scan(&shot.ShotType, &shot.Count, &shot.AverageConfidence, &shot.AverageSpeedMPS); err != nil {
			return nil, fmt.Errorf("failed to scan shot stats: %w", err)
		}
		shots = append(shots, shot)
	}

	return shots, rows.Err()
}

// GetPlayerHistory получает завершенные сессии игрока в хронологическом
// порядке вместе со статистикой каждой
func (r *PostgresRepository) GetPlayerHistory(ctx context.Context, playerID string) ([]SessionSummary, error) {
	query := `
		SELECT id, started_at
		FROM sessions
		WHERE player_id = $1 AND status = $2
		ORDER BY started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playerID, SessionStatusStopped)
	if err != nil {
		return nil, fmt.Errorf("failed to query player sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var summary SessionSummary
		if err := rows.Scan(&summary.SessionID, &summary.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		shots, err := r.GetSessionStats(ctx, playerID, summaries[i].SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for session %s: %w", summaries[i].SessionID, err)
		}
		agg := stats.FromShots(shots)
		count, accuracy, speed := agg.Overall()
		summaries[i].Shots = agg.ShotsSorted()
		summaries[i].TotalSwings = count
		summaries[i].AvgAccuracy = accuracy
		summaries[i].AvgSpeedMPS = speed
	}

	return summaries, nil
}

// ListPlayers возвращает идентификаторы всех игроков с завершенными сессиями
func (r *PostgresRepository) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT player_id FROM sessions WHERE status = $1`, SessionStatusStopped)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		players = append(players, playerID)
	}

	return players, rows.Err()
}
