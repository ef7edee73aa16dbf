package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/racketlab/swing-analytics/internal/frame"
	"github.com/racketlab/swing-analytics/internal/session"
)

// DefaultWindowSize - длина окна, на которые нарезается импортированная запись
const DefaultWindowSize = 100

// Importer выполняет массовый импорт записанных сэмплов.
// Скользящий буфер захвата обходится: сэмплы нарезаются на окна и
// идут напрямую в путь классификация -> статистика, с явной частотой
// дискретизации.
type Importer struct {
	manager    *session.Manager
	windowSize int
}

// NewImporter создает импортер с заданной длиной окна
func NewImporter(manager *session.Manager, windowSize int) *Importer {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Importer{
		manager:    manager,
		windowSize: windowSize,
	}
}

// Result - итог импорта одного файла
type Result struct {
	SessionID      string `json:"session_id"`
	TotalSamples   int    `json:"total_samples"`
	SkippedRows    int    `json:"skipped_rows"`
	WindowsTotal   int    `json:"windows_total"`
	WindowsMerged  int    `json:"windows_merged"`
	WindowsFailed  int    `json:"windows_failed"`
	SamplingRateHz int    `json:"sampling_rate_hz"`
}

// ParseCSV читает запись сенсора из CSV: колонки t,ax,ay,az,gx,gy,gz.
// Заголовок определяется автоматически. Битые строки пропускаются с
// предупреждением - запись с датчика может содержать шум.
func ParseCSV(r io.Reader) ([]frame.SensorSample, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("CSV file is empty")
	}

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	var samples []frame.SensorSample
	skipped := 0
	for i := start; i < len(records); i++ {
		record := records[i]
		if len(record) < 7 {
			log.Printf("[WARN] Skipping row %d: expected 7 columns, got %d", i+1, len(record))
			skipped++
			continue
		}

		values := make([]float64, 7)
		ok := true
		for j := 0; j < 7; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				log.Printf("[WARN] Skipping row %d: invalid value %q", i+1, record[j])
				skipped++
				ok = false
				break
			}
			values[j] = v
		}
		if !ok {
			continue
		}

		// t берется из файла как есть, не перештампуется
		samples = append(samples, frame.SensorSample{
			T:  values[0],
			AX: values[1],
			AY: values[2],
			AZ: values[3],
			GX: values[4],
			GY: values[5],
			GZ: values[6],
		})
	}

	return samples, skipped, nil
}

// isHeaderRow определяет, является ли первая строка заголовком
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	return err != nil
}

// Import нарезает запись на окна и классифицирует каждое.
// Ошибка классификации одного окна не прерывает импорт: окно
// пропускается, следующие обрабатываются.
func (im *Importer) Import(ctx context.Context, sessionID string, samplingRateHz int, samples []frame.SensorSample, skipped int) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no valid samples to import")
	}
	if samplingRateHz <= 0 {
		samplingRateHz = 100
	}

	result := &Result{
		SessionID:      sessionID,
		TotalSamples:   len(samples),
		SkippedRows:    skipped,
		SamplingRateHz: samplingRateHz,
	}

	for offset := 0; offset < len(samples); offset += im.windowSize {
		end := offset + im.windowSize
		if end > len(samples) {
			end = len(samples)
		}
		window := samples[offset:end]
		result.WindowsTotal++

		if _, err := im.manager.ClassifyWindow(ctx, sessionID, samplingRateHz, window); err != nil {
			log.Printf("[WARN] Failed to classify imported window %d: %v", result.WindowsTotal, err)
			result.WindowsFailed++
			continue
		}
		result.WindowsMerged++
	}

	log.Printf("[IMPORT] Session %s: %d samples, %d windows merged, %d failed",
		sessionID, result.TotalSamples, result.WindowsMerged, result.WindowsFailed)

	return result, nil
}
