package stats

import "sort"

// ShotStats - накопленная статистика по одному типу удара в рамках сессии.
// Средние - взвешенные по количеству, при count == 0 считаются нулевыми.
type ShotStats struct {
	ShotType          string  `json:"shot_type"`
	Count             int     `json:"count"`
	AverageConfidence float64 `json:"average_confidence"`
	AverageSpeedMPS   float64 `json:"average_speed_mps"`
}

// Aggregate - упорядоченный набор ShotStats одной сессии (или карьеры).
// Порядок вставки отслеживается явно: от него зависит разрешение ничьих
// для "лучшего" и "доминирующего" удара.
type Aggregate struct {
	order []string
	shots map[string]*ShotStats
}

// NewAggregate создает пустой агрегат
func NewAggregate() *Aggregate {
	return &Aggregate{
		shots: make(map[string]*ShotStats),
	}
}

// Merge вливает один результат классификации в агрегат.
// Онлайн-обновление взвешенного среднего, численно эквивалентное
// пересчету с нуля.
func (a *Aggregate) Merge(shotType string, confidence, speedMPS float64) {
	existing, ok := a.shots[shotType]
	if !ok {
		existing = &ShotStats{ShotType: shotType}
		a.shots[shotType] = existing
		a.order = append(a.order, shotType)
	}

	total := existing.Count + 1
	existing.AverageConfidence = (existing.AverageConfidence*float64(existing.Count) + confidence) / float64(total)
	existing.AverageSpeedMPS = (existing.AverageSpeedMPS*float64(existing.Count) + speedMPS) / float64(total)
	existing.Count = total
}

// MergeStats вливает уже агрегированную статистику (из хранилища).
// Используется при сведении карьерных показателей из нескольких сессий:
// средние взвешиваются количеством, никогда не усредняются поровну.
func (a *Aggregate) MergeStats(s ShotStats) {
	if s.Count <= 0 {
		return
	}

	existing, ok := a.shots[s.ShotType]
	if !ok {
		existing = &ShotStats{ShotType: s.ShotType}
		a.shots[s.ShotType] = existing
		a.order = append(a.order, s.ShotType)
	}

	total := existing.Count + s.Count
	existing.AverageConfidence = (existing.AverageConfidence*float64(existing.Count) + s.AverageConfidence*float64(s.Count)) / float64(total)
	existing.AverageSpeedMPS = (existing.AverageSpeedMPS*float64(existing.Count) + s.AverageSpeedMPS*float64(s.Count)) / float64(total)
	existing.Count = total
}

// Shots возвращает статистику по типам ударов в порядке вставки
func (a *Aggregate) Shots() []ShotStats {
	result := make([]ShotStats, 0, len(a.order))
	for _, shotType := range a.order {
		result = append(result, *a.shots[shotType])
	}
	return result
}

// ShotsSorted возвращает статистику, отсортированную по типу удара
// (стабильный порядок для API ответов)
func (a *Aggregate) ShotsSorted() []ShotStats {
	result := a.Shots()
	sort.Slice(result, func(i, j int) bool {
		return result[i].ShotType < result[j].ShotType
	})
	return result
}

// Overall сводит все типы ударов в один показатель, взвешенный по count.
// Наивное среднее средних исказило бы точность: типы ударов имеют разное
// число сэмплов.
func (a *Aggregate) Overall() (count int, avgConfidence, avgSpeedMPS float64) {
	var sumConfidence, sumSpeed float64
	for _, shotType := range a.order {
		s := a.shots[shotType]
		count += s.Count
		sumConfidence += s.AverageConfidence * float64(s.Count)
		sumSpeed += s.AverageSpeedMPS * float64(s.Count)
	}
	if count == 0 {
		return 0, 0, 0
	}
	return count, sumConfidence / float64(count), sumSpeed / float64(count)
}

// TotalSwings возвращает общее число ударов в агрегате
func (a *Aggregate) TotalSwings() int {
	count, _, _ := a.Overall()
	return count
}

// BestShot возвращает тип удара с наибольшей средней уверенностью среди
// типов с count > 0. Ничья разрешается в пользу первого влитого типа.
func (a *Aggregate) BestShot() (ShotStats, bool) {
	var best *ShotStats
	for _, shotType := range a.order {
		s := a.shots[shotType]
		if s.Count == 0 {
			continue
		}
		if best == nil || s.AverageConfidence > best.AverageConfidence {
			best = s
		}
	}
	if best == nil {
		return ShotStats{}, false
	}
	return *best, true
}

// DominantShot возвращает тип удара с наибольшим количеством.
// Ничья разрешается в пользу первого влитого типа.
func (a *Aggregate) DominantShot() (ShotStats, bool) {
	var dominant *ShotStats
	for _, shotType := range a.order {
		s := a.shots[shotType]
		if s.Count == 0 {
			continue
		}
		if dominant == nil || s.Count > dominant.Count {
			dominant = s
		}
	}
	if dominant == nil {
		return ShotStats{}, false
	}
	return *dominant, true
}

// FromShots собирает агрегат из готового списка ShotStats,
// сохраняя порядок списка как порядок вставки
func FromShots(shots []ShotStats) *Aggregate {
	a := NewAggregate()
	for _, s := range shots {
		a.MergeStats(s)
	}
	return a
}
