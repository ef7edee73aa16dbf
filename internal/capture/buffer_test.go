package capture

import (
	"testing"

	"github.com/racketlab/swing-analytics/internal/frame"
)

func sampleN(i int) frame.SensorSample {
	return frame.SensorSample{AX: float64(i), T: float64(i) * 0.01}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	buf := NewBuffer(400)

	// Добавляем 450 сэмплов - должны остаться ровно последние 400
	for i := 0; i < 450; i++ {
		buf.Append(sampleN(i))
	}

	if buf.Len() != 400 {
		t.Fatalf("Expected 400 samples after 450 appends, got %d", buf.Len())
	}

	window, err := buf.Window(400)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	for i, s := range window {
		if s.AX != float64(50+i) {
			t.Fatalf("Expected sample %d at index %d, got %v", 50+i, i, s.AX)
		}
	}
}

func TestBuffer_WindowTail(t *testing.T) {
	buf := NewBuffer(400)
	for i := 0; i < 400; i++ {
		buf.Append(sampleN(i))
	}

	window, err := buf.Window(100)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	if len(window) != 100 {
		t.Fatalf("Expected window of 100, got %d", len(window))
	}

	// Окно должно совпадать с buffer[300:400] поэлементно
	for i, s := range window {
		if s.AX != float64(300+i) {
			t.Errorf("Expected sample %d at window index %d, got %v", 300+i, i, s.AX)
		}
	}
}

func TestBuffer_WindowEmptyRefused(t *testing.T) {
	buf := NewBuffer(400)

	if _, err := buf.Window(100); err != ErrNoSamples {
		t.Errorf("Expected ErrNoSamples on empty buffer, got %v", err)
	}
}

func TestBuffer_WindowUndersized(t *testing.T) {
	buf := NewBuffer(400)
	for i := 0; i < 30; i++ {
		buf.Append(sampleN(i))
	}

	// Меньше запрошенного - легально, возвращается все что есть
	window, err := buf.Window(100)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(window) != 30 {
		t.Errorf("Expected 30 samples, got %d", len(window))
	}
}

func TestBuffer_WindowIsCopy(t *testing.T) {
	buf := NewBuffer(4)
	for i := 0; i < 4; i++ {
		buf.Append(sampleN(i))
	}

	window, err := buf.Window(4)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	// Последующие append не должны менять уже извлеченное окно
	buf.Append(sampleN(99))
	buf.Append(sampleN(100))

	if window[0].AX != 0 || window[3].AX != 3 {
		t.Errorf("Window mutated by later appends: %v", window)
	}
}

func TestBuffer_ResetStartsEmpty(t *testing.T) {
	buf := NewBuffer(400)
	for i := 0; i < 10; i++ {
		buf.Append(sampleN(i))
	}

	buf.Reset()

	if buf.Len() != 0 {
		t.Errorf("Expected empty buffer after reset, got %d", buf.Len())
	}
	if _, err := buf.Window(10); err != ErrNoSamples {
		t.Errorf("Expected ErrNoSamples after reset, got %v", err)
	}
}
