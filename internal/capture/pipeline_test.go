package capture

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func encodeFrame(ax, ay, az, gx, gy, gz float32) []byte {
	buf := make([]byte, 24)
	for i, v := range [6]float32{ax, ay, az, gx, gy, gz} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestPipeline_IngestAndSnapshot(t *testing.T) {
	p := NewPipeline(400)

	frames := make(chan []byte, 128)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.Run(ctx, frames)
		close(done)
	}()

	// 120 синтетических кадров при 100Hz
	for i := 0; i < 120; i++ {
		frames <- encodeFrame(float32(i), 0, 9.8, 0, 0, 0)
	}
	close(frames)
	<-done

	accepted, dropped := p.GetStats()
	if accepted != 120 || dropped != 0 {
		t.Fatalf("Expected 120 accepted / 0 dropped, got %d / %d", accepted, dropped)
	}

	window, err := p.Snapshot(100)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(window) != 100 {
		t.Fatalf("Expected 100-sample window, got %d", len(window))
	}

	// Окно - последние 100 из 120 кадров
	if window[0].AX != 20 || window[99].AX != 119 {
		t.Errorf("Expected window [20..119], got [%v..%v]", window[0].AX, window[99].AX)
	}
}

func TestPipeline_ShortFramesCountedDropped(t *testing.T) {
	p := NewPipeline(400)

	frames := make(chan []byte, 8)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), frames)
		close(done)
	}()

	frames <- encodeFrame(1, 2, 3, 4, 5, 6)
	frames <- make([]byte, 23) // короткий кадр - молча отброшен
	frames <- encodeFrame(7, 8, 9, 1, 2, 3)
	close(frames)
	<-done

	accepted, dropped := p.GetStats()
	if accepted != 2 {
		t.Errorf("Expected 2 accepted frames, got %d", accepted)
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped frame, got %d", dropped)
	}
	if p.Len() != 2 {
		t.Errorf("Expected 2 buffered samples, got %d", p.Len())
	}
}

func TestPipeline_RunResetsEpoch(t *testing.T) {
	p := NewPipeline(400)

	// Первая эпоха
	frames := make(chan []byte, 4)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), frames)
		close(done)
	}()
	frames <- encodeFrame(1, 0, 0, 0, 0, 0)
	frames <- encodeFrame(2, 0, 0, 0, 0, 0)
	close(frames)
	<-done

	// Переподключение: новая эпоха сбрасывает буфер
	frames = make(chan []byte, 4)
	done = make(chan struct{})
	go func() {
		p.Run(context.Background(), frames)
		close(done)
	}()
	frames <- encodeFrame(5, 0, 0, 0, 0, 0)
	close(frames)
	<-done

	window, err := p.Snapshot(100)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(window) != 1 || window[0].AX != 5 {
		t.Errorf("Expected only the new epoch's sample, got %v", window)
	}
	if window[0].T != 0 {
		t.Errorf("Expected t=0 for first frame of new epoch, got %f", window[0].T)
	}
}

func TestPipeline_CancelStopsRun(t *testing.T) {
	p := NewPipeline(400)

	frames := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Run(ctx, frames)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pipeline did not stop after context cancel")
	}
}
