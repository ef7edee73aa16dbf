package session

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/racketlab/swing-analytics/internal/capture"
	"github.com/racketlab/swing-analytics/internal/classify"
	"github.com/racketlab/swing-analytics/internal/frame"
	"github.com/racketlab/swing-analytics/internal/stats"
)

// ===== Фейки хранилищ =====

type fakeCache struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	shotStats   map[string][]stats.ShotStats
	leaderboard map[string]float64
	prefs       map[string]json.RawMessage
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		sessions:    make(map[string]*Session),
		shotStats:   make(map[string][]stats.ShotStats),
		leaderboard: make(map[string]float64),
		prefs:       make(map[string]json.RawMessage),
	}
}

func (f *fakeCache) SetSession(ctx context.Context, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeCache) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	copied := *session
	return &copied, nil
}

func (f *fakeCache) DeleteSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	delete(f.shotStats, sessionID)
	return nil
}

func (f *fakeCache) SetShotStats(ctx context.Context, sessionID string, shots []stats.ShotStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shotStats[sessionID] = append([]stats.ShotStats{}, shots...)
	return nil
}

func (f *fakeCache) GetShotStats(ctx context.Context, sessionID string) ([]stats.ShotStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shotStats[sessionID], nil
}

func (f *fakeCache) UpdateLeaderboard(ctx context.Context, playerID string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderboard[playerID] = score
	return nil
}

func (f *fakeCache) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]LeaderboardEntry, 0, len(f.leaderboard))
	for playerID, score := range f.leaderboard {
		entries = append(entries, LeaderboardEntry{PlayerID: playerID, Score: score})
	}
	return entries, nil
}

func (f *fakeCache) SetPreferences(ctx context.Context, playerID string, prefs json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[playerID] = prefs
	return nil
}

func (f *fakeCache) GetPreferences(ctx context.Context, playerID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prefs, ok := f.prefs[playerID]; ok {
		return prefs, nil
	}
	return json.RawMessage(`{}`), nil
}

type savedSession struct {
	session *Session
	shots   []stats.ShotStats
}

type fakeRepository struct {
	mu      sync.Mutex
	saved   []savedSession
	history map[string][]SessionSummary
	failAll bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		history: make(map[string][]SessionSummary),
	}
}

func (f *fakeRepository) SaveSessionStats(ctx context.Context, session *Session, shots []stats.ShotStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("database unavailable")
	}
	copied := *session
	f.saved = append(f.saved, savedSession{session: &copied, shots: append([]stats.ShotStats{}, shots...)})

	agg := stats.FromShots(shots)
	count, accuracy, speed := agg.Overall()
	f.history[session.PlayerID] = append(f.history[session.PlayerID], SessionSummary{
		SessionID:   session.ID,
		StartedAt:   session.StartedAt,
		TotalSwings: count,
		AvgAccuracy: accuracy,
		AvgSpeedMPS: speed,
		Shots:       agg.ShotsSorted(),
	})
	return nil
}

func (f *fakeRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saved {
		if s.session.ID == sessionID {
			copied := *s.session
			return &copied, nil
		}
	}
	return nil, errors.New("session not found")
}

func (f *fakeRepository) GetSessionStats(ctx context.Context, playerID, sessionID string) ([]stats.ShotStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saved {
		if s.session.ID == sessionID && s.session.PlayerID == playerID {
			return s.shots, nil
		}
	}
	return nil, errors.New("session stats not found")
}

func (f *fakeRepository) GetPlayerHistory(ctx context.Context, playerID string) ([]SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("database unavailable")
	}
	return f.history[playerID], nil
}

func (f *fakeRepository) ListPlayers(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	players := make([]string, 0, len(f.history))
	for playerID := range f.history {
		players = append(players, playerID)
	}
	return players, nil
}

// ===== Фейк классификатора =====

type fakeClassifier struct {
	mu      sync.Mutex
	result  classify.Result
	err     error
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (f *fakeClassifier) Classify(ctx context.Context, req classify.Request) (classify.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.result, f.err
}

func encodeFrame(ax, ay, az, gx, gy, gz float32) []byte {
	buf := make([]byte, 24)
	for i, v := range [6]float32{ax, ay, az, gx, gy, gz} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func newTestManager(classifier Classifier) (*Manager, *fakeCache, *fakeRepository) {
	cache := newFakeCache()
	repo := newFakeRepository()
	return NewManager(cache, repo, classifier, 100, 400, 10), cache, repo
}

// waitBufferedSamples ждет, пока конвейер сессии поглотит ожидаемое число кадров
func waitBufferedSamples(t *testing.T, m *Manager, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		response, err := m.GetSession(context.Background(), sessionID)
		if err == nil && response.BufferedSamples >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Pipeline did not buffer %d samples in time", want)
}

func TestManager_SwingFlow(t *testing.T) {
	classifier := &fakeClassifier{result: classify.Result{
		ShotType:      "Smash",
		Confidence:    0.9,
		SpeedMPS:      12.0,
		AccuracyScore: 0.9,
	}}
	m, cache, _ := newTestManager(classifier)

	session, err := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	frames, err := m.OpenFrameStream(session.ID)
	if err != nil {
		t.Fatalf("OpenFrameStream failed: %v", err)
	}
	for i := 0; i < 120; i++ {
		frames <- encodeFrame(float32(i), 0, 9.8, 0, 0, 0)
	}
	waitBufferedSamples(t, m, session.ID, 120)

	response, err := m.SubmitSwing(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("SubmitSwing failed: %v", err)
	}

	if len(response.Shots) != 1 {
		t.Fatalf("Expected 1 shot type, got %d", len(response.Shots))
	}
	shot := response.Shots[0]
	if shot.ShotType != "Smash" || shot.Count != 1 || shot.AverageConfidence != 0.9 || shot.AverageSpeedMPS != 12.0 {
		t.Errorf("Unexpected merged stats: %+v", shot)
	}

	// Статистика отражена в кэше
	mirrored, _ := cache.GetShotStats(context.Background(), session.ID)
	if len(mirrored) != 1 || mirrored[0].ShotType != "Smash" {
		t.Errorf("Expected stats mirrored to cache, got %v", mirrored)
	}

	close(frames)
}

func TestManager_SwingNoSamples(t *testing.T) {
	m, _, _ := newTestManager(&fakeClassifier{})

	session, err := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err = m.SubmitSwing(context.Background(), session.ID)
	if !errors.Is(err, capture.ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples before any frames, got %v", err)
	}
}

func TestManager_SwingFailureNotMerged(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model not loaded")}
	m, _, _ := newTestManager(classifier)

	session, _ := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	frames, _ := m.OpenFrameStream(session.ID)
	frames <- encodeFrame(1, 2, 3, 4, 5, 6)
	waitBufferedSamples(t, m, session.ID, 1)

	if _, err := m.SubmitSwing(context.Background(), session.ID); err == nil {
		t.Fatal("Expected classification error")
	}

	// Неудачная классификация не попала в статистику
	response, _ := m.GetSession(context.Background(), session.ID)
	if len(response.Shots) != 0 {
		t.Errorf("Expected no merged stats after failure, got %v", response.Shots)
	}
	close(frames)
}

func TestManager_SwingBusyRejected(t *testing.T) {
	classifier := &fakeClassifier{
		result:  classify.Result{ShotType: "Forehand", Confidence: 0.8, SpeedMPS: 10},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	m, _, _ := newTestManager(classifier)

	session, _ := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	frames, _ := m.OpenFrameStream(session.ID)
	frames <- encodeFrame(1, 2, 3, 4, 5, 6)
	waitBufferedSamples(t, m, session.ID, 1)

	done := make(chan error, 1)
	go func() {
		_, err := m.SubmitSwing(context.Background(), session.ID)
		done <- err
	}()

	// Дожидаемся, пока первый запрос войдет в классификатор
	<-classifier.entered

	if _, err := m.SubmitSwing(context.Background(), session.ID); !errors.Is(err, ErrClassifyInFlight) {
		t.Errorf("Expected ErrClassifyInFlight for concurrent submit, got %v", err)
	}

	close(classifier.release)
	if err := <-done; err != nil {
		t.Errorf("First submit failed: %v", err)
	}
	close(frames)
}

func TestManager_StopSessionPersists(t *testing.T) {
	classifier := &fakeClassifier{result: classify.Result{ShotType: "Forehand", Confidence: 0.85, SpeedMPS: 11}}
	m, cache, repo := newTestManager(classifier)

	session, _ := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	frames, _ := m.OpenFrameStream(session.ID)
	frames <- encodeFrame(1, 2, 3, 4, 5, 6)
	waitBufferedSamples(t, m, session.ID, 1)

	if _, err := m.SubmitSwing(context.Background(), session.ID); err != nil {
		t.Fatalf("SubmitSwing failed: %v", err)
	}

	summary, err := m.StopSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("StopSession failed: %v", err)
	}
	if summary.TotalSwings != 1 || summary.AvgAccuracy != 0.85 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	repo.mu.Lock()
	savedCount := len(repo.saved)
	repo.mu.Unlock()
	if savedCount != 1 {
		t.Fatalf("Expected 1 saved session, got %d", savedCount)
	}

	// Таблица лидеров обновлена карьерной точностью
	cache.mu.Lock()
	score, ok := cache.leaderboard["player_1"]
	cache.mu.Unlock()
	if !ok || math.Abs(score-85.0) > 1e-9 {
		t.Errorf("Expected leaderboard score 85.0, got %v (present: %v)", score, ok)
	}

	if m.IsSessionActive(session.ID) {
		t.Error("Session should not be active after stop")
	}
	close(frames)
}

func TestManager_PlayerSummaryTrend(t *testing.T) {
	m, _, repo := newTestManager(&fakeClassifier{})

	base := time.Now().Add(-2 * time.Hour)
	repo.history["player_1"] = []SessionSummary{
		{
			SessionID: "s1", StartedAt: base, TotalSwings: 10, AvgAccuracy: 0.80, AvgSpeedMPS: 10,
			Shots: []stats.ShotStats{{ShotType: "Forehand", Count: 10, AverageConfidence: 0.80, AverageSpeedMPS: 10}},
		},
		{
			SessionID: "s2", StartedAt: base.Add(time.Hour), TotalSwings: 10, AvgAccuracy: 0.85, AvgSpeedMPS: 10,
			Shots: []stats.ShotStats{{ShotType: "Forehand", Count: 10, AverageConfidence: 0.85, AverageSpeedMPS: 10}},
		},
	}

	summary, err := m.GetPlayerSummary(context.Background(), "player_1")
	if err != nil {
		t.Fatalf("GetPlayerSummary failed: %v", err)
	}

	if summary.Trend.Accuracy != "6.3% increase in accuracy" {
		t.Errorf("Expected '6.3%% increase in accuracy', got %q", summary.Trend.Accuracy)
	}
	if summary.TotalSwings != 20 {
		t.Errorf("Expected 20 career swings, got %d", summary.TotalSwings)
	}
	if summary.Level != stats.LevelAmateur {
		t.Errorf("Expected Amateur at 20 swings, got %s", summary.Level)
	}
	if summary.Feedback == "" {
		t.Error("Expected non-empty feedback")
	}
	if summary.BestShot == nil || summary.BestShot.ShotType != "Forehand" {
		t.Errorf("Expected Forehand best shot, got %+v", summary.BestShot)
	}
}

func TestManager_PlayerSummaryDegradesOnRepoFailure(t *testing.T) {
	m, _, repo := newTestManager(&fakeClassifier{})
	repo.failAll = true

	summary, err := m.GetPlayerSummary(context.Background(), "player_1")
	if err != nil {
		t.Fatalf("Summary should degrade, not fail: %v", err)
	}
	if summary.TotalSwings != 0 {
		t.Errorf("Expected empty summary, got %d swings", summary.TotalSwings)
	}
	if summary.Trend.Accuracy != "no previous data" {
		t.Errorf("Expected 'no previous data', got %q", summary.Trend.Accuracy)
	}
}

func TestManager_Challenges(t *testing.T) {
	classifier := &fakeClassifier{result: classify.Result{ShotType: "Forehand", Confidence: 0.9, SpeedMPS: 12}}
	m, _, _ := newTestManager(classifier)

	session, _ := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})
	frames, _ := m.OpenFrameStream(session.ID)
	frames <- encodeFrame(1, 2, 3, 4, 5, 6)
	waitBufferedSamples(t, m, session.ID, 1)

	if _, err := m.SubmitSwing(context.Background(), session.ID); err != nil {
		t.Fatalf("SubmitSwing failed: %v", err)
	}

	challenges, err := m.GetChallenges(context.Background(), "player_1", "")
	if err != nil {
		t.Fatalf("GetChallenges failed: %v", err)
	}
	if len(challenges) != 2 {
		t.Fatalf("Expected 2 challenges, got %d", len(challenges))
	}

	// Forehand 0.9 >= цели 0.8 - выполнено
	if challenges[0].Status != ChallengeStatusCompleted || challenges[0].Progress != 1.0 {
		t.Errorf("Expected completed forehand challenge, got %+v", challenges[0])
	}
	// Backhand не бил - не начато
	if challenges[1].Status != ChallengeStatusNotStarted {
		t.Errorf("Expected not_started backhand challenge, got %+v", challenges[1])
	}
	close(frames)
}

func TestManager_ClassifyWindowBypassesBuffer(t *testing.T) {
	classifier := &fakeClassifier{result: classify.Result{ShotType: "Serve", Confidence: 0.7, SpeedMPS: 15}}
	m, _, _ := newTestManager(classifier)

	session, _ := m.StartSession(context.Background(), &CreateSessionRequest{PlayerID: "player_1"})

	window := make([]frame.SensorSample, 50)
	for i := range window {
		window[i] = frame.SensorSample{AX: float64(i), T: float64(i) * 0.02}
	}

	response, err := m.ClassifyWindow(context.Background(), session.ID, 50, window)
	if err != nil {
		t.Fatalf("ClassifyWindow failed: %v", err)
	}
	if response.Result.ShotType != "Serve" || response.Shots[0].Count != 1 {
		t.Errorf("Unexpected response: %+v", response)
	}

	if _, err := m.ClassifyWindow(context.Background(), session.ID, 50, nil); !errors.Is(err, capture.ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples for empty window, got %v", err)
	}
}
