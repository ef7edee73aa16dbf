package stats

// Уровни игрока
const (
	LevelPro     = "Pro"
	LevelVeteran = "Veteran"
	LevelAmateur = "Amateur"
)

// Пороги классификации уровня
const (
	proMinSwings       = 400
	proMinAccuracy     = 0.80
	veteranMinSwings   = 200
	veteranMinAccuracy = 0.65
)

// ClassifyLevel определяет уровень игрока по карьерным показателям.
// Оба порога ступени должны выполняться одновременно, границы включительно.
func ClassifyLevel(totalSwings int, avgAccuracy float64) string {
	if totalSwings >= proMinSwings && avgAccuracy >= proMinAccuracy {
		return LevelPro
	}
	if totalSwings >= veteranMinSwings && avgAccuracy >= veteranMinAccuracy {
		return LevelVeteran
	}
	return LevelAmateur
}
