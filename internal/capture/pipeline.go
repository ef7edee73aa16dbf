package capture

import (
	"context"
	"log"
	"sync"

	"github.com/racketlab/swing-analytics/internal/frame"
)

// Pipeline - стадия декодирования и буферизации живого потока кадров.
// Единственный потребитель SPSC канала от транспортного слоя; буфер -
// единственное мутируемое состояние, доступное только через операции
// pipeline. Извлечение окна берет атомарный снимок, поэтому конкурентные
// append никогда не рвут окно.
type Pipeline struct {
	mu  sync.RWMutex
	dec *frame.Decoder
	buf *Buffer

	stats struct {
		mu       sync.RWMutex
		accepted int64
		dropped  int64
	}
}

// NewPipeline создает pipeline с буфером заданной емкости
func NewPipeline(maxSamples int) *Pipeline {
	return &Pipeline{
		dec: frame.NewDecoder(),
		buf: NewBuffer(maxSamples),
	}
}

// Run потребляет кадры из канала до его закрытия или отмены контекста.
// Вызов Run начинает новую эпоху захвата: буфер очищается, первый принятый
// кадр определяет t = 0. Обработка кадра только добавляет/вытесняет,
// никогда не блокирует.
func (p *Pipeline) Run(ctx context.Context, frames <-chan []byte) {
	p.mu.Lock()
	p.dec.Reset()
	p.buf.Reset()
	p.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[PIPELINE] Capture epoch cancelled")
			return

		case raw, ok := <-frames:
			if !ok {
				log.Printf("[PIPELINE] Frame stream closed, epoch finished")
				return
			}
			p.ingest(raw)
		}
	}
}

// ingest декодирует и буферизует один кадр
func (p *Pipeline) ingest(raw []byte) {
	p.mu.Lock()
	sample, ok := p.dec.Decode(raw)
	if !ok {
		p.mu.Unlock()
		p.incrementDropped()
		return
	}
	p.buf.Append(sample)
	p.mu.Unlock()

	p.incrementAccepted()
}

// Snapshot извлекает копию последних n сэмплов. Неразрушающее чтение:
// содержимое буфера не меняется, окно независимо от последующих append.
func (p *Pipeline) Snapshot(n int) ([]frame.SensorSample, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buf.Window(n)
}

// Len возвращает текущее число сэмплов в буфере
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buf.Len()
}

func (p *Pipeline) incrementAccepted() {
	p.stats.mu.Lock()
	p.stats.accepted++
	p.stats.mu.Unlock()
}

func (p *Pipeline) incrementDropped() {
	p.stats.mu.Lock()
	p.stats.dropped++
	p.stats.mu.Unlock()
}

// GetStats возвращает счетчики принятых и отброшенных кадров
func (p *Pipeline) GetStats() (accepted, dropped int64) {
	p.stats.mu.RLock()
	defer p.stats.mu.RUnlock()
	return p.stats.accepted, p.stats.dropped
}
