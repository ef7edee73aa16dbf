package capture

import (
	"errors"

	"github.com/racketlab/swing-analytics/internal/frame"
)

// DefaultMaxSamples - емкость скользящего буфера захвата (~4 секунды при 100Hz)
const DefaultMaxSamples = 400

// DefaultWindowSize - длина окна классификации (1 секунда при 100Hz)
const DefaultWindowSize = 100

// ErrNoSamples возвращается при попытке извлечь окно из пустого буфера
var ErrNoSamples = errors.New("no samples captured")

// Buffer - скользящий буфер последних сэмплов эпохи захвата.
// Кольцевой, с фиксированной емкостью: при переполнении самые старые
// сэмплы вытесняются. Мутирует буфер только владелец (pipeline);
// читатели получают копии через Window.
type Buffer struct {
	data  []frame.SensorSample
	head  int // индекс следующей записи
	count int
}

// NewBuffer создает буфер с заданной емкостью
func NewBuffer(maxSamples int) *Buffer {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Buffer{
		data: make([]frame.SensorSample, maxSamples),
	}
}

// Append добавляет сэмпл, вытесняя самый старый при переполнении. O(1).
func (b *Buffer) Append(s frame.SensorSample) {
	b.data[b.head] = s
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// Len возвращает текущее число сэмплов в буфере
func (b *Buffer) Len() int {
	return b.count
}

// Cap возвращает емкость буфера
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Reset очищает буфер в начале новой эпохи захвата
func (b *Buffer) Reset() {
	b.head = 0
	b.count = 0
}

// Window извлекает копию последних n сэмплов в хронологическом порядке.
// Если сэмплов меньше n, возвращаются все имеющиеся: недозаполненное окно
// легально, запрос классификации несет sampling_rate_hz рядом с данными.
// Пустой буфер - отказ с ErrNoSamples. Буфер не модифицируется.
func (b *Buffer) Window(n int) ([]frame.SensorSample, error) {
	if b.count == 0 {
		return nil, ErrNoSamples
	}
	if n <= 0 || n > b.count {
		n = b.count
	}

	window := make([]frame.SensorSample, n)
	start := (b.head - n + len(b.data)) % len(b.data)
	for i := 0; i < n; i++ {
		window[i] = b.data[(start+i)%len(b.data)]
	}
	return window, nil
}
