package frame

import (
	"encoding/binary"
	"math"
	"time"
)

// FrameSize - минимальный размер бинарного кадра в байтах:
// шесть little-endian float32 значений [ax ay az gx gy gz]
const FrameSize = 24

// SensorSample представляет одно инерциальное измерение ракетки.
// Поле T - время в секундах относительно первого принятого кадра эпохи захвата.
type SensorSample struct {
	AX float64 `json:"ax"`
	AY float64 `json:"ay"`
	AZ float64 `json:"az"`
	GX float64 `json:"gx"`
	GY float64 `json:"gy"`
	GZ float64 `json:"gz"`
	T  float64 `json:"t"`
}

// Decoder разбирает бинарные нотификации сенсора и штампует сэмплы временем
// от начала эпохи захвата. Часы монотонные, не wall clock.
type Decoder struct {
	now     func() time.Time
	start   time.Time
	started bool
}

// NewDecoder создает новый декодер с системными часами
func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// NewDecoderWithClock создает декодер с заданными часами (для тестов)
func NewDecoderWithClock(now func() time.Time) *Decoder {
	return &Decoder{now: now}
}

// Reset начинает новую эпоху захвата: следующий принятый кадр получит t = 0
func (d *Decoder) Reset() {
	d.started = false
	d.start = time.Time{}
}

// Decode разбирает один кадр нотификации. Хвостовые байты сверх FrameSize
// игнорируются. Кадр короче FrameSize молча отбрасывается: сенсорный шум
// ожидаем и не должен прерывать поток.
func (d *Decoder) Decode(buf []byte) (SensorSample, bool) {
	if len(buf) < FrameSize {
		return SensorSample{}, false
	}

	ts := d.now()
	if !d.started {
		d.start = ts
		d.started = true
	}

	return SensorSample{
		AX: float64(readFloat32(buf[0:4])),
		AY: float64(readFloat32(buf[4:8])),
		AZ: float64(readFloat32(buf[8:12])),
		GX: float64(readFloat32(buf[12:16])),
		GY: float64(readFloat32(buf[16:20])),
		GZ: float64(readFloat32(buf[20:24])),
		T:  ts.Sub(d.start).Seconds(),
	}, true
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
