package importer

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HTTPHandler обрабатывает загрузку записанных сэмплов
type HTTPHandler struct {
	importer *Importer
}

// NewHTTPHandler создает обработчик импорта
func NewHTTPHandler(importer *Importer) *HTTPHandler {
	return &HTTPHandler{
		importer: importer,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sessions/{id}/import", h.ImportCSV).Methods("POST")
}

// ImportCSV загружает CSV запись сенсора в сессию
// @Summary Импортировать запись сенсора
// @Description Загружает CSV файл (колонки t,ax,ay,az,gx,gy,gz), нарезает его на окна и классифицирует каждое в обход буфера захвата
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID сессии"
// @Param file formData file true "CSV файл с записью сенсора"
// @Param sampling_rate_hz formData int false "Частота дискретизации записи" default(100)
// @Success 200 {object} Result "Итог импорта"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 500 {object} map[string]string "Ошибка обработки"
// @Router /api/sessions/{id}/import [post]
func (h *HTTPHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		http.Error(w, `{"error": "Failed to parse form: `+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error": "Failed to get file: `+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	samplingRate := 100
	if v := r.FormValue("sampling_rate_hz"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			samplingRate = parsed
		}
	}

	log.Printf("[IMPORT] Received file %s (%d bytes) for session %s", header.Filename, header.Size, sessionID)

	samples, skipped, err := ParseCSV(file)
	if err != nil {
		http.Error(w, `{"error": "Failed to parse CSV: `+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	result, err := h.importer.Import(r.Context(), sessionID, samplingRate, samples, skipped)
	if err != nil {
		log.Printf("[ERROR] Import failed for session %s: %v", sessionID, err)
		http.Error(w, `{"error": "Import failed: `+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("[ERROR] Failed to encode import result: %v", err)
	}
}
