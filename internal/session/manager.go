package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/racketlab/swing-analytics/internal/capture"
	"github.com/racketlab/swing-analytics/internal/classify"
	"github.com/racketlab/swing-analytics/internal/frame"
	"github.com/racketlab/swing-analytics/internal/stats"
)

// Ошибки уровня менеджера сессий
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session is not active")
	ErrClassifyInFlight = errors.New("classification already in flight")
)

// Classifier определяет интерфейс удаленного сервиса классификации ударов
type Classifier interface {
	Classify(ctx context.Context, req classify.Request) (classify.Result, error)
}

// Broadcaster рассылает события живым подписчикам (WebSocket hub)
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// liveSession - состояние активной сессии в памяти.
// Агрегат в памяти авторитетен; Redis - зеркало для чтения.
type liveSession struct {
	session  *Session
	pipeline *capture.Pipeline
	agg      *stats.Aggregate
	busy     bool // одна классификация в полете на сессию
	cancel   context.CancelFunc
}

// Manager управляет тренировочными сессиями (Application Layer)
type Manager struct {
	cache       CacheStore
	repository  Repository
	classifier  Classifier
	broadcaster Broadcaster

	windowSize      int
	bufferSize      int
	leaderboardSize int

	mu             sync.RWMutex
	activeSessions map[string]*liveSession
}

// NewManager создает новый менеджер сессий
func NewManager(cache CacheStore, repository Repository, classifier Classifier, windowSize, bufferSize, leaderboardSize int) *Manager {
	if windowSize <= 0 {
		windowSize = capture.DefaultWindowSize
	}
	if bufferSize <= 0 {
		bufferSize = capture.DefaultMaxSamples
	}
	if leaderboardSize <= 0 {
		leaderboardSize = 10
	}
	return &Manager{
		cache:           cache,
		repository:      repository,
		classifier:      classifier,
		windowSize:      windowSize,
		bufferSize:      bufferSize,
		leaderboardSize: leaderboardSize,
		activeSessions:  make(map[string]*liveSession),
	}
}

// SetBroadcaster подключает рассылку живых событий
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// StartSession создает новую сессию и готовит конвейер захвата
func (m *Manager) StartSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if req.PlayerID == "" {
		return nil, fmt.Errorf("player_id is required")
	}

	samplingRate := req.SamplingRateHz
	if samplingRate <= 0 {
		samplingRate = 100
	}

	session := &Session{
		ID:             uuid.New().String(),
		PlayerID:       req.PlayerID,
		Status:         SessionStatusActive,
		StartedAt:      time.Now(),
		SamplingRateHz: samplingRate,
	}

	if err := m.cache.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session to cache: %w", err)
	}

	live := &liveSession{
		session:  session,
		pipeline: capture.NewPipeline(m.bufferSize),
		agg:      stats.NewAggregate(),
	}

	m.mu.Lock()
	m.activeSessions[session.ID] = live
	m.mu.Unlock()

	log.Printf("[SESSION] Started session %s for player %s (rate: %dHz)", session.ID, session.PlayerID, samplingRate)
	return session, nil
}

// OpenFrameStream открывает поток кадров для сессии: возвращает канал,
// в который транспорт пишет сырые кадры. Каждое открытие начинает новую
// эпоху захвата; предыдущий поток, если был, отменяется. Транспорт
// закрывает канал при разрыве соединения - накопленная статистика при
// этом не трогается.
func (m *Manager) OpenFrameStream(sessionID string) (chan<- []byte, error) {
	m.mu.Lock()
	live, ok := m.activeSessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if live.cancel != nil {
		live.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	live.cancel = cancel
	frames := make(chan []byte, 256)
	pipeline := live.pipeline
	m.mu.Unlock()

	go pipeline.Run(ctx, frames)

	log.Printf("[SESSION] Frame stream opened for session %s", sessionID)
	return frames, nil
}

// SubmitSwing извлекает окно из буфера захвата, классифицирует его и
// вливает результат в статистику сессии. Одновременно допускается только
// одна классификация на сессию; неудачная классификация никогда не
// попадает в статистику.
func (m *Manager) SubmitSwing(ctx context.Context, sessionID string) (*SwingResponse, error) {
	m.mu.Lock()
	live, ok := m.activeSessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if live.busy {
		m.mu.Unlock()
		return nil, ErrClassifyInFlight
	}
	live.busy = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		live.busy = false
		m.mu.Unlock()
	}()

	window, err := live.pipeline.Snapshot(m.windowSize)
	if err != nil {
		return nil, err
	}

	result, err := m.classifier.Classify(ctx, classify.Request{
		PlayerID:       live.session.PlayerID,
		SessionID:      sessionID,
		SamplingRateHz: live.session.SamplingRateHz,
		Samples:        window,
	})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	m.mu.Lock()
	live.agg.Merge(result.ShotType, result.Confidence, result.SpeedMPS)
	live.session.TotalSwings++
	shots := live.agg.ShotsSorted()
	session := *live.session
	m.mu.Unlock()

	// Зеркалим в Redis - ошибка кэша не откатывает слитую статистику
	if err := m.cache.SetShotStats(ctx, sessionID, shots); err != nil {
		log.Printf("[WARN] Failed to mirror shot stats to cache: %v", err)
	}
	if err := m.cache.SetSession(ctx, &session); err != nil {
		log.Printf("[WARN] Failed to update session in cache: %v", err)
	}

	response := &SwingResponse{
		PlayerID:  session.PlayerID,
		SessionID: sessionID,
		Result:    result,
		Shots:     shots,
	}

	if m.broadcaster != nil {
		m.broadcaster.BroadcastJSON(response)
	}

	log.Printf("[SESSION] Classified swing for session %s: %s (confidence: %.2f, speed: %.1f m/s)",
		sessionID, result.ShotType, result.Confidence, result.SpeedMPS)

	return response, nil
}

// StopSession останавливает сессию, сохраняет ее в PostgreSQL и обновляет
// таблицу лидеров
func (m *Manager) StopSession(ctx context.Context, sessionID string) (*SessionSummary, error) {
	m.mu.Lock()
	live, ok := m.activeSessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if live.cancel != nil {
		live.cancel()
	}

	now := time.Now()
	live.session.Status = SessionStatusStopped
	live.session.StoppedAt = &now
	session := *live.session
	shots := live.agg.ShotsSorted()
	summary := summaryFromAggregate(sessionID, session.StartedAt, live.agg)
	m.mu.Unlock()

	if err := m.repository.SaveSessionStats(ctx, &session, shots); err != nil {
		return nil, fmt.Errorf("failed to save session to database: %w", err)
	}

	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	m.mu.Unlock()

	if err := m.cache.SetSession(ctx, &session); err != nil {
		log.Printf("[WARN] Failed to update session status in cache: %v", err)
	}

	m.updateLeaderboard(ctx, session.PlayerID)

	log.Printf("[SESSION] Stopped session %s: %d swings, avg accuracy %.2f",
		sessionID, summary.TotalSwings, summary.AvgAccuracy)

	return &summary, nil
}

// updateLeaderboard пересчитывает карьерную точность игрока и обновляет
// таблицу лидеров. Лучший результат: счет - процент точности.
func (m *Manager) updateLeaderboard(ctx context.Context, playerID string) {
	history, err := m.repository.GetPlayerHistory(ctx, playerID)
	if err != nil {
		log.Printf("[WARN] Failed to load history for leaderboard update: %v", err)
		return
	}

	career := stats.NewAggregate()
	for _, summary := range history {
		for _, shot := range summary.Shots {
			career.MergeStats(shot)
		}
	}

	count, accuracy, _ := career.Overall()
	if count == 0 {
		return
	}

	if err := m.cache.UpdateLeaderboard(ctx, playerID, accuracy*100); err != nil {
		log.Printf("[WARN] Failed to update leaderboard for %s: %v", playerID, err)
	}
}

// GetSession получает состояние сессии: живую - из памяти, завершенную -
// из кэша или БД
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	m.mu.RLock()
	if live, ok := m.activeSessions[sessionID]; ok {
		session := *live.session
		response := &SessionResponse{
			Session:         &session,
			Shots:           live.agg.ShotsSorted(),
			BufferedSamples: live.pipeline.Len(),
		}
		m.mu.RUnlock()
		return response, nil
	}
	m.mu.RUnlock()

	session, err := m.cache.GetSession(ctx, sessionID)
	if err != nil {
		session, err = m.repository.GetSession(ctx, sessionID)
		if err != nil {
			return nil, ErrSessionNotFound
		}
	}

	shots, err := m.repository.GetSessionStats(ctx, session.PlayerID, sessionID)
	if err != nil {
		log.Printf("[WARN] Failed to load stats for session %s: %v", sessionID, err)
		shots = nil
	}

	return &SessionResponse{Session: session, Shots: shots}, nil
}

// GetSessionStats получает статистику одной сессии игрока,
// отсортированную по типу удара
func (m *Manager) GetSessionStats(ctx context.Context, playerID, sessionID string) (*SessionStatsResponse, error) {
	m.mu.RLock()
	if live, ok := m.activeSessions[sessionID]; ok && live.session.PlayerID == playerID {
		response := &SessionStatsResponse{
			PlayerID:  playerID,
			SessionID: sessionID,
			Shots:     live.agg.ShotsSorted(),
		}
		m.mu.RUnlock()
		return response, nil
	}
	m.mu.RUnlock()

	shots, err := m.repository.GetSessionStats(ctx, playerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session stats: %w", err)
	}

	return &SessionStatsResponse{
		PlayerID:  playerID,
		SessionID: sessionID,
		Shots:     shots,
	}, nil
}

// GetPlayerHistory получает историю завершенных сессий игрока
func (m *Manager) GetPlayerHistory(ctx context.Context, playerID string) (*PlayerHistoryResponse, error) {
	sessions, err := m.repository.GetPlayerHistory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player history: %w", err)
	}

	if sessions == nil {
		sessions = []SessionSummary{}
	}

	return &PlayerHistoryResponse{
		PlayerID: playerID,
		Sessions: sessions,
	}, nil
}

// GetPlayerSummary строит карьерную сводку игрока: агрегат, уровень,
// тренд и тренерское сообщение. Недоступность истории не фатальна -
// сводка строится по тому, что есть, с предупреждением в логе.
func (m *Manager) GetPlayerSummary(ctx context.Context, playerID string) (*PlayerSummary, error) {
	history, err := m.repository.GetPlayerHistory(ctx, playerID)
	if err != nil {
		log.Printf("[WARN] Failed to load history for player %s, proceeding with empty data: %v", playerID, err)
		history = nil
	}

	// Живая сессия игрока участвует в сводке как последняя
	var liveSummary *SessionSummary
	m.mu.RLock()
	for _, live := range m.activeSessions {
		if live.session.PlayerID == playerID && live.agg.TotalSwings() > 0 {
			s := summaryFromAggregate(live.session.ID, live.session.StartedAt, live.agg)
			liveSummary = &s
			break
		}
	}
	m.mu.RUnlock()

	sessions := history
	if liveSummary != nil {
		sessions = append(append([]SessionSummary{}, history...), *liveSummary)
	}

	career := stats.NewAggregate()
	for _, summary := range sessions {
		for _, shot := range summary.Shots {
			career.MergeStats(shot)
		}
	}

	totalSwings, avgAccuracy, avgSpeed := career.Overall()

	summary := &PlayerSummary{
		PlayerID:    playerID,
		TotalSwings: totalSwings,
		AvgAccuracy: avgAccuracy,
		AvgSpeedMPS: avgSpeed,
		Level:       stats.ClassifyLevel(totalSwings, avgAccuracy),
		Shots:       career.ShotsSorted(),
	}

	if best, ok := career.BestShot(); ok {
		summary.BestShot = &best
	}

	var latestAgg *stats.Aggregate
	var previousAccuracy *float64
	if len(sessions) > 0 {
		latest := sessions[len(sessions)-1]
		latestAgg = stats.FromShots(latest.Shots)

		if len(sessions) > 1 {
			previous := sessions[len(sessions)-2]
			previousAccuracy = &previous.AvgAccuracy
			summary.Trend = stats.CompareSessions(
				stats.SessionMetrics{AvgAccuracy: latest.AvgAccuracy, AvgSpeedMPS: latest.AvgSpeedMPS},
				&stats.SessionMetrics{AvgAccuracy: previous.AvgAccuracy, AvgSpeedMPS: previous.AvgSpeedMPS},
			)
		} else {
			summary.Trend = stats.CompareSessions(
				stats.SessionMetrics{AvgAccuracy: latest.AvgAccuracy, AvgSpeedMPS: latest.AvgSpeedMPS},
				nil,
			)
		}
	} else {
		summary.Trend = stats.CompareSessions(stats.SessionMetrics{}, nil)
	}

	summary.Feedback = stats.GenerateFeedback(latestAgg, previousAccuracy)

	return summary, nil
}

// GetChallenges оценивает испытания по статистике указанной сессии.
// Без явного session_id берется активная сессия игрока.
func (m *Manager) GetChallenges(ctx context.Context, playerID, sessionID string) ([]Challenge, error) {
	if sessionID == "" {
		m.mu.RLock()
		for id, live := range m.activeSessions {
			if live.session.PlayerID == playerID {
				sessionID = id
				break
			}
		}
		m.mu.RUnlock()
	}

	statsResponse, err := m.GetSessionStats(ctx, playerID, sessionID)
	if err != nil {
		log.Printf("[WARN] Failed to load stats for challenges, treating as empty: %v", err)
		statsResponse = &SessionStatsResponse{}
	}

	perShot := make(map[string]stats.ShotStats, len(statsResponse.Shots))
	for _, shot := range statsResponse.Shots {
		perShot[shot.ShotType] = shot
	}

	challenges := baseChallenges()
	for i := range challenges {
		ch := &challenges[i]

		shot, ok := perShot[ch.TargetShot]
		if !ok || shot.Count <= 0 {
			continue
		}

		accuracy := shot.AverageConfidence
		ch.CurrentAccuracy = &accuracy
		ch.CurrentSwings = shot.Count

		if accuracy >= ch.TargetAccuracy {
			ch.Status = ChallengeStatusCompleted
			ch.Progress = 1.0
		} else {
			ch.Status = ChallengeStatusInProgress
			progress := accuracy / ch.TargetAccuracy
			if progress < 0 {
				progress = 0
			}
			if progress > 1 {
				progress = 1
			}
			ch.Progress = progress
		}
	}

	return challenges, nil
}

// GetLeaderboard возвращает таблицу лидеров по карьерной точности
func (m *Manager) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > m.leaderboardSize {
		limit = m.leaderboardSize
	}
	return m.cache.GetLeaderboard(ctx, limit)
}

// GetPreferences возвращает настройки отображения игрока
func (m *Manager) GetPreferences(ctx context.Context, playerID string) (interface{}, error) {
	prefs, err := m.cache.GetPreferences(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

// SetPreferences сохраняет настройки отображения игрока как есть.
// Движок аналитики их не читает.
func (m *Manager) SetPreferences(ctx context.Context, playerID string, prefs []byte) error {
	if err := m.cache.SetPreferences(ctx, playerID, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// IsSessionActive проверяет, активна ли сессия
func (m *Manager) IsSessionActive(sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.activeSessions[sessionID]
	return exists
}

// ClassifyWindow классифицирует готовое окно сэмплов в обход буфера
// захвата и вливает результат в статистику сессии. Используется
// массовым импортом: окна приходят по одному, с явной частотой
// дискретизации.
func (m *Manager) ClassifyWindow(ctx context.Context, sessionID string, samplingRateHz int, window []frame.SensorSample) (*SwingResponse, error) {
	if len(window) == 0 {
		return nil, capture.ErrNoSamples
	}

	m.mu.RLock()
	live, ok := m.activeSessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	result, err := m.classifier.Classify(ctx, classify.Request{
		PlayerID:       live.session.PlayerID,
		SessionID:      sessionID,
		SamplingRateHz: samplingRateHz,
		Samples:        window,
	})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	m.mu.Lock()
	live.agg.Merge(result.ShotType, result.Confidence, result.SpeedMPS)
	live.session.TotalSwings++
	shots := live.agg.ShotsSorted()
	session := *live.session
	m.mu.Unlock()

	if err := m.cache.SetShotStats(ctx, sessionID, shots); err != nil {
		log.Printf("[WARN] Failed to mirror shot stats to cache: %v", err)
	}

	return &SwingResponse{
		PlayerID:  session.PlayerID,
		SessionID: sessionID,
		Result:    result,
		Shots:     shots,
	}, nil
}
