package stats

import "fmt"

// Порог значимого изменения точности между сессиями.
// Дельта ровно +-0.02 считается стабильностью, не изменением.
const accuracyDeltaThreshold = 0.02

// GenerateFeedback строит тренерское сообщение по дереву правил.
// latest - агрегат последней сессии (nil или пустой - сессий нет),
// previousAccuracy - средняя точность предыдущей сессии (nil - первая
// сессия). Правила проверяются сверху вниз, срабатывает первое.
func GenerateFeedback(latest *Aggregate, previousAccuracy *float64) string {
	if latest == nil || latest.TotalSwings() == 0 {
		return "No sessions yet. Grab your racket and record your first swings to get started!"
	}

	_, accuracy, _ := latest.Overall()
	dominant, _ := latest.DominantShot()

	// Первая сессия: оцениваем абсолютную точность
	if previousAccuracy == nil {
		switch {
		case accuracy >= 0.90:
			return fmt.Sprintf("Amazing start! Your %s is already looking sharp at %.0f%% accuracy.", dominant.ShotType, accuracy*100)
		case accuracy >= 0.75:
			return fmt.Sprintf("Great foundation! %.0f%% accuracy in your first session is a solid base to build on.", accuracy*100)
		default:
			return "Every pro started somewhere. This is the beginning of your journey - keep swinging!"
		}
	}

	delta := accuracy - *previousAccuracy
	switch {
	case delta > accuracyDeltaThreshold:
		return fmt.Sprintf("Nice improvement! Your accuracy went up by %.1f%% since last session. Keep it up!", delta*100)
	case delta < -accuracyDeltaThreshold:
		return fmt.Sprintf("Accuracy dipped by %.1f%% this time - that happens to everyone. Your %s is still your strong side, trust it.", -delta*100, dominant.ShotType)
	default:
		return fmt.Sprintf("Steady performance. Try setting a small goal for your %s next session.", dominant.ShotType)
	}
}
