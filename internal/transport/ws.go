package transport

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var ingestUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене следует проверять домен
		return true
	},
}

// WSIngest принимает бинарные кадры от шлюзов устройств и эмулятора
// через WebSocket и проталкивает их в конвейер захвата сессии
type WSIngest struct {
	sink FrameSink
}

// NewWSIngest создает обработчик WebSocket приема кадров
func NewWSIngest(sink FrameSink) *WSIngest {
	return &WSIngest{
		sink: sink,
	}
}

// HandleIngest обрабатывает соединение источника кадров.
// GET /ws/ingest?session_id=... ; каждое бинарное сообщение - один сырой
// кадр. Разрыв соединения закрывает эпоху захвата, статистика сессии
// остается нетронутой.
func (wi *WSIngest) HandleIngest(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, `{"error": "session_id is required"}`, http.StatusBadRequest)
		return
	}
	if !wi.sink.IsSessionActive(sessionID) {
		http.Error(w, `{"error": "session not found or not active"}`, http.StatusNotFound)
		return
	}

	conn, err := ingestUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade ingest connection: %v", err)
		return
	}

	frames, err := wi.sink.OpenFrameStream(sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to open frame stream for session %s: %v", sessionID, err)
		conn.Close()
		return
	}

	log.Printf("[INGEST] Device connected for session %s", sessionID)

	defer func() {
		close(frames)
		conn.Close()
		log.Printf("[INGEST] Device disconnected from session %s", sessionID)
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] Ingest connection error for session %s: %v", sessionID, err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		select {
		case frames <- data:
		default:
			// Конвейер не успевает - кадр отбрасывается, поток не блокируется
			log.Printf("[WARN] Frame channel full for session %s, dropping frame", sessionID)
		}
	}
}
