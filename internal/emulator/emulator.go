package emulator

import (
	"context"
	"log"
	"time"
)

// Config - параметры работы эмулятора
type Config struct {
	SampleRateHz int
	Duration     time.Duration
}

// Emulator генерирует синтетическое движение ракетки и отправляет
// кадры с заданной частотой
type Emulator struct {
	gen    *SwingGenerator
	sender FrameSender
	config Config
}

// NewEmulator создает эмулятор
func NewEmulator(gen *SwingGenerator, sender FrameSender, cfg Config) *Emulator {
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 100
	}
	return &Emulator{
		gen:    gen,
		sender: sender,
		config: cfg,
	}
}

// Run гонит кадры до истечения длительности или отмены контекста
func (e *Emulator) Run(ctx context.Context) error {
	if e.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Duration)
		defer cancel()
	}

	interval := time.Second / time.Duration(e.config.SampleRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Starting paddle emulator at %dHz for %v", e.config.SampleRateHz, e.config.Duration)

	sent := 0
	for {
		select {
		case <-ticker.C:
			frame := EncodeFrame(e.gen.Next())
			if err := e.sender.Send(frame); err != nil {
				log.Printf("Send error: %v", err)
				return err
			}
			sent++

		case <-ctx.Done():
			log.Printf("Emulator stopped after %d frames", sent)
			return nil
		}
	}
}
