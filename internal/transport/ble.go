package transport

import (
	"context"
	"fmt"
	"log"

	"tinygo.org/x/bluetooth"
)

// UUID сервиса и характеристики сенсорного потока ракетки
var (
	SensorServiceUUID = bluetooth.NewUUID([16]byte{0xfb, 0x34, 0x9b, 0x5f, 0x80, 0x00, 0x00, 0x80, 0x00, 0x10, 0x00, 0x00, 0x44, 0x21, 0x00, 0x00})
	SensorCharUUID    = bluetooth.NewUUID([16]byte{0xfb, 0x34, 0x9b, 0x5f, 0x80, 0x00, 0x00, 0x80, 0x00, 0x10, 0x00, 0x00, 0x45, 0x21, 0x00, 0x00})
)

// BLECentral подключается к ракетке напрямую по BLE: сканирование по
// имени устройства, подключение, обнаружение сервиса и характеристики,
// включение уведомлений. Каждое уведомление - один сырой кадр.
type BLECentral struct {
	adapter    *bluetooth.Adapter
	deviceName string
}

// NewBLECentral создает BLE транспорт для устройства с заданным именем
func NewBLECentral(deviceName string) *BLECentral {
	return &BLECentral{
		adapter:    bluetooth.DefaultAdapter,
		deviceName: deviceName,
	}
}

// bleStream реализует Stream поверх BLE уведомлений
type bleStream struct {
	device *bluetooth.Device
	frames chan []byte
}

func (s *bleStream) Frames() <-chan []byte {
	return s.frames
}

func (s *bleStream) Close() error {
	return s.device.Disconnect()
}

// Connect выполняет полную последовательность установки соединения.
// Любой шаг может заблокироваться или упасть; отмена контекста
// прерывает сканирование. Ошибка любого шага фатальна для этой попытки,
// эпоха захвата не начинается.
func (c *BLECentral) Connect(ctx context.Context) (Stream, error) {
	if err := c.adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}

	log.Printf("[BLE] Scanning for device %q", c.deviceName)

	found := make(chan bluetooth.ScanResult, 1)
	go func() {
		<-ctx.Done()
		c.adapter.StopScan()
	}()

	err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if result.LocalName() != c.deviceName {
			return
		}
		adapter.StopScan()
		select {
		case found <- result:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	log.Printf("[BLE] Found %s at %s, connecting", c.deviceName, result.Address.String())

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{SensorServiceUUID})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("service discovery failed: %w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return nil, fmt.Errorf("sensor service not found on %s", c.deviceName)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{SensorCharUUID})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("characteristic discovery failed: %w", err)
	}
	if len(chars) == 0 {
		device.Disconnect()
		return nil, fmt.Errorf("sensor characteristic not found on %s", c.deviceName)
	}

	stream := &bleStream{
		device: device,
		frames: make(chan []byte, 256),
	}

	// Колбэк уведомлений не должен блокироваться: кадр либо уходит в
	// канал, либо отбрасывается
	err = chars[0].EnableNotifications(func(buf []byte) {
		frame := make([]byte, len(buf))
		copy(frame, buf)
		select {
		case stream.frames <- frame:
		default:
		}
	})
	if err != nil {
		device.Disconnect()
		return nil, fmt.Errorf("failed to enable notifications: %w", err)
	}

	log.Printf("[BLE] %s connected and streaming", c.deviceName)
	return stream, nil
}

// Pump подключается к устройству и перекачивает его кадры в сток
// до отмены контекста
func (c *BLECentral) Pump(ctx context.Context, sink FrameSink, sessionID string) error {
	stream, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	frames, err := sink.OpenFrameStream(sessionID)
	if err != nil {
		return err
	}
	defer close(frames)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-stream.Frames():
			if !ok {
				return nil
			}
			select {
			case frames <- frame:
			default:
				log.Printf("[WARN] Frame channel full for session %s, dropping frame", sessionID)
			}
		}
	}
}
