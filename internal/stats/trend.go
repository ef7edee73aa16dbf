package stats

import "fmt"

// SessionMetrics - сводные показатели одной сессии для сравнения трендов
type SessionMetrics struct {
	AvgAccuracy float64 `json:"avg_accuracy"`
	AvgSpeedMPS float64 `json:"avg_speed_mps"`
}

// Trend - человекочитаемые метки динамики между двумя сессиями
type Trend struct {
	Accuracy string `json:"accuracy"`
	Speed    string `json:"speed"`
}

// CompareSessions сравнивает текущую сессию с предыдущей по каждой метрике.
// Если предыдущей сессии нет, обе метки - "no previous data".
func CompareSessions(current SessionMetrics, previous *SessionMetrics) Trend {
	if previous == nil {
		return Trend{
			Accuracy: "no previous data",
			Speed:    "no previous data",
		}
	}
	return Trend{
		Accuracy: trendLabel("accuracy", current.AvgAccuracy, previous.AvgAccuracy),
		Speed:    trendLabel("speed", current.AvgSpeedMPS, previous.AvgSpeedMPS),
	}
}

// trendLabel форматирует метку динамики одной метрики.
// Процент - относительный к предыдущему значению, с одним знаком после
// запятой. При нулевой базе процент считается от абсолютной дельты.
func trendLabel(metric string, current, previous float64) string {
	delta := current - previous

	pct := delta * 100
	if previous != 0 {
		pct = delta / previous * 100
	}

	if pct < 0.001 && pct > -0.001 {
		return fmt.Sprintf("no change in %s", metric)
	}
	if pct < 0 {
		return fmt.Sprintf("%.1f%% decrease in %s", -pct, metric)
	}
	return fmt.Sprintf("%.1f%% increase in %s", pct, metric)
}
