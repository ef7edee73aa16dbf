package emulator

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// SwingGenerator генерирует синтетическое движение ракетки: тихий фон
// между ударами и короткие всплески ускорения и вращения во время замаха
type SwingGenerator struct {
	rand *rand.Rand

	// Состояние текущего всплеска
	burstRemaining int
	burstLength    int
	burstAmplitude float64

	// Тиков тишины до следующего всплеска
	quietRemaining int

	sampleRateHz int
}

// NewSwingGenerator создает генератор для заданной частоты дискретизации
func NewSwingGenerator(sampleRateHz int) *SwingGenerator {
	if sampleRateHz <= 0 {
		sampleRateHz = 100
	}
	g := &SwingGenerator{
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sampleRateHz: sampleRateHz,
	}
	g.scheduleQuiet()
	return g
}

// Seed устанавливает seed для воспроизводимых последовательностей
func (g *SwingGenerator) Seed(seed int64) {
	g.rand = rand.New(rand.NewSource(seed))
}

// scheduleQuiet планирует паузу 1-3 секунды до следующего удара
func (g *SwingGenerator) scheduleQuiet() {
	g.quietRemaining = g.sampleRateHz + g.rand.Intn(g.sampleRateHz*2)
}

// scheduleBurst планирует всплеск ~0.3-0.5 секунды
func (g *SwingGenerator) scheduleBurst() {
	g.burstLength = g.sampleRateHz*3/10 + g.rand.Intn(g.sampleRateHz/5+1)
	g.burstRemaining = g.burstLength
	g.burstAmplitude = 20 + g.rand.Float64()*40 // пиковое ускорение, m/s^2
}

// Next возвращает следующий кадр сенсора: [ax ay az gx gy gz]
func (g *SwingGenerator) Next() [6]float32 {
	if g.burstRemaining > 0 {
		return g.burstFrame()
	}

	g.quietRemaining--
	if g.quietRemaining <= 0 {
		g.scheduleBurst()
		return g.burstFrame()
	}

	// Фон: гравитация по оси z плюс шум датчика
	return [6]float32{
		float32(g.noise(0.3)),
		float32(g.noise(0.3)),
		float32(9.81 + g.noise(0.3)),
		float32(g.noise(0.05)),
		float32(g.noise(0.05)),
		float32(g.noise(0.05)),
	}
}

// burstFrame генерирует кадр внутри всплеска: полусинусоида амплитуды
// по ускорению, пропорциональное вращение
func (g *SwingGenerator) burstFrame() [6]float32 {
	progress := 1.0 - float64(g.burstRemaining)/float64(g.burstLength)
	envelope := math.Sin(progress * math.Pi)
	g.burstRemaining--
	if g.burstRemaining <= 0 {
		g.scheduleQuiet()
	}

	accel := g.burstAmplitude * envelope
	gyro := accel * 0.25

	return [6]float32{
		float32(accel*0.8 + g.noise(1.0)),
		float32(accel*0.4 + g.noise(1.0)),
		float32(9.81 + accel*0.3 + g.noise(1.0)),
		float32(gyro + g.noise(0.2)),
		float32(gyro*0.6 + g.noise(0.2)),
		float32(gyro*0.3 + g.noise(0.2)),
	}
}

func (g *SwingGenerator) noise(scale float64) float64 {
	return (g.rand.Float64()*2 - 1) * scale
}

// EncodeFrame упаковывает кадр в 24 байта little-endian float32
func EncodeFrame(values [6]float32) []byte {
	buf := make([]byte, 24)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
