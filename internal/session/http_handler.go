package session

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/racketlab/swing-analytics/internal/capture"
)

// HTTPHandler обрабатывает HTTP запросы сессий и игроков (Presentation Layer)
type HTTPHandler struct {
	manager *Manager
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(manager *Manager) *HTTPHandler {
	return &HTTPHandler{
		manager: manager,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	sessions := router.PathPrefix("/api/sessions").Subrouter()
	sessions.HandleFunc("", h.CreateSession).Methods("POST")
	sessions.HandleFunc("/{id}", h.GetSession).Methods("GET")
	sessions.HandleFunc("/{id}/swing", h.SubmitSwing).Methods("POST")
	sessions.HandleFunc("/{id}/stop", h.StopSession).Methods("POST")

	players := router.PathPrefix("/api/players").Subrouter()
	players.HandleFunc("/{id}/sessions/{sid}/stats", h.GetSessionStats).Methods("GET")
	players.HandleFunc("/{id}/history", h.GetPlayerHistory).Methods("GET")
	players.HandleFunc("/{id}/summary", h.GetPlayerSummary).Methods("GET")
	players.HandleFunc("/{id}/challenges", h.GetChallenges).Methods("GET")
	players.HandleFunc("/{id}/preferences", h.GetPreferences).Methods("GET")
	players.HandleFunc("/{id}/preferences", h.SetPreferences).Methods("PUT")

	router.HandleFunc("/api/leaderboard", h.GetLeaderboard).Methods("GET")
}

// CreateSession создает новую тренировочную сессию
// @Summary Начать тренировочную сессию
// @Description Создает сессию для игрока и готовит конвейер захвата кадров
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Параметры сессии"
// @Success 201 {object} SessionResponse "Созданная сессия"
// @Failure 400 {object} map[string]interface{} "Неверный запрос"
// @Failure 500 {object} map[string]interface{} "Ошибка сервера"
// @Router /api/sessions [post]
func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.manager.StartSession(r.Context(), &req)
	if err != nil {
		if req.PlayerID == "" {
			respondError(w, http.StatusBadRequest, "player_id is required")
			return
		}
		log.Printf("[ERROR] Failed to create session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, SessionResponse{Session: session})
}

// GetSession получает текущее состояние сессии
// @Summary Состояние сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionResponse "Сессия и ее статистика"
// @Failure 404 {object} map[string]interface{} "Сессия не найдена"
// @Router /api/sessions/{id} [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	response, err := h.manager.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// SubmitSwing классифицирует текущее окно захвата как один удар
// @Summary Классифицировать удар
// @Description Извлекает окно последних сэмплов, отправляет его классификатору и вливает результат в статистику сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SwingResponse "Результат классификации"
// @Failure 400 {object} map[string]interface{} "Нет захваченных данных"
// @Failure 404 {object} map[string]interface{} "Сессия не найдена"
// @Failure 409 {object} map[string]interface{} "Классификация уже выполняется"
// @Failure 502 {object} map[string]interface{} "Сервис классификации недоступен"
// @Router /api/sessions/{id}/swing [post]
func (h *HTTPHandler) SubmitSwing(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	response, err := h.manager.SubmitSwing(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrClassifyInFlight):
			respondError(w, http.StatusConflict, "Classification already in flight")
		case errors.Is(err, capture.ErrNoSamples):
			respondError(w, http.StatusBadRequest, "No data captured yet")
		default:
			log.Printf("[ERROR] Failed to classify swing for session %s: %v", sessionID, err)
			respondError(w, http.StatusBadGateway, "Classification service unavailable")
		}
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// StopSession останавливает сессию и сохраняет ее статистику
// @Summary Остановить сессию
// @Description Завершает сессию, сохраняет статистику в базу и обновляет таблицу лидеров
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionSummary "Сводка завершенной сессии"
// @Failure 404 {object} map[string]interface{} "Сессия не найдена"
// @Failure 500 {object} map[string]interface{} "Ошибка сохранения"
// @Router /api/sessions/{id}/stop [post]
func (h *HTTPHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	summary, err := h.manager.StopSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("[ERROR] Failed to stop session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to stop session")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetSessionStats возвращает статистику одной сессии игрока
// @Summary Статистика сессии
// @Tags Players
// @Produce json
// @Param id path string true "ID игрока"
// @Param sid path string true "ID сессии"
// @Success 200 {object} SessionStatsResponse "Статистика по типам ударов"
// @Failure 404 {object} map[string]interface{} "Статистика не найдена"
// @Router /api/players/{id}/sessions/{sid}/stats [get]
func (h *HTTPHandler) GetSessionStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	response, err := h.manager.GetSessionStats(r.Context(), vars["id"], vars["sid"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Session stats not found")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetPlayerHistory возвращает историю сессий игрока
// @Summary История игрока
// @Tags Players
// @Produce json
// @Param id path string true "ID игрока"
// @Success 200 {object} PlayerHistoryResponse "Сессии в хронологическом порядке"
// @Failure 500 {object} map[string]interface{} "Ошибка чтения истории"
// @Router /api/players/{id}/history [get]
func (h *HTTPHandler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	response, err := h.manager.GetPlayerHistory(r.Context(), playerID)
	if err != nil {
		log.Printf("[ERROR] Failed to load history for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load player history")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetPlayerSummary возвращает карьерную сводку игрока
// @Summary Сводка игрока
// @Description Карьерный агрегат, уровень, тренд и тренерское сообщение
// @Tags Players
// @Produce json
// @Param id path string true "ID игрока"
// @Success 200 {object} PlayerSummary "Готовые к отображению показатели"
// @Router /api/players/{id}/summary [get]
func (h *HTTPHandler) GetPlayerSummary(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	summary, err := h.manager.GetPlayerSummary(r.Context(), playerID)
	if err != nil {
		log.Printf("[ERROR] Failed to build summary for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "Failed to build player summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetChallenges возвращает испытания игрока
// @Summary Испытания игрока
// @Description Оценивает фиксированный набор испытаний по статистике указанной сессии
// @Tags Players
// @Produce json
// @Param id path string true "ID игрока"
// @Param session_id query string false "ID сессии (по умолчанию - активная)"
// @Success 200 {array} Challenge "Статусы испытаний"
// @Router /api/players/{id}/challenges [get]
func (h *HTTPHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]
	sessionID := r.URL.Query().Get("session_id")

	challenges, err := h.manager.GetChallenges(r.Context(), playerID, sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to evaluate challenges for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "Failed to evaluate challenges")
		return
	}

	respondJSON(w, http.StatusOK, challenges)
}

// GetLeaderboard возвращает таблицу лидеров
// @Summary Таблица лидеров
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Максимум записей" default(10)
// @Success 200 {array} LeaderboardEntry "Игроки по убыванию карьерной точности"
// @Failure 500 {object} map[string]interface{} "Ошибка чтения"
// @Router /api/leaderboard [get]
func (h *HTTPHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := getQueryInt(r, "limit", 10)

	entries, err := h.manager.GetLeaderboard(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] Failed to load leaderboard: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	if entries == nil {
		entries = []LeaderboardEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

// GetPreferences возвращает настройки отображения игрока
// @Summary Настройки игрока
// @Tags Players
// @Produce json
// @Param id path string true "ID игрока"
// @Success 200 {object} map[string]interface{} "Непрозрачный блоб настроек"
// @Router /api/players/{id}/preferences [get]
func (h *HTTPHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	prefs, err := h.manager.GetPreferences(r.Context(), playerID)
	if err != nil {
		log.Printf("[ERROR] Failed to load preferences for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// SetPreferences сохраняет настройки отображения игрока
// @Summary Сохранить настройки игрока
// @Tags Players
// @Accept json
// @Produce json
// @Param id path string true "ID игрока"
// @Param request body map[string]interface{} true "Блоб настроек"
// @Success 200 {object} map[string]interface{} "Подтверждение"
// @Failure 400 {object} map[string]interface{} "Неверный JSON"
// @Router /api/players/{id}/preferences [put]
func (h *HTTPHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "Preferences must be valid JSON")
		return
	}

	if err := h.manager.SetPreferences(r.Context(), playerID, body); err != nil {
		log.Printf("[ERROR] Failed to save preferences for player %s: %v", playerID, err)
		respondError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Preferences saved",
		"player_id": playerID,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
