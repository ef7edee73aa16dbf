package emulator

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// Ошибки отправителей
var (
	ErrSendFailed       = errors.New("failed to send frame")
	ErrConnectionFailed = errors.New("connection failed")
)

// FrameSender интерфейс для отправки кадров
type FrameSender interface {
	// Send отправляет один кадр
	Send(frame []byte) error

	// Close освобождает ресурсы
	Close() error
}

// WSSender отправляет кадры на ingest endpoint сервера по WebSocket
type WSSender struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWSSender подключается к серверу.
// url - полный адрес вида ws://host:port/ws/ingest?session_id=...
func NewWSSender(url string) (*WSSender, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return &WSSender{conn: conn}, nil
}

// Send отправляет кадр бинарным сообщением
func (s *WSSender) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Close закрывает соединение
func (s *WSSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

// jsonlFrame - строка JSONL файла с раскодированным кадром
type jsonlFrame struct {
	AX float32 `json:"ax"`
	AY float32 `json:"ay"`
	AZ float32 `json:"az"`
	GX float32 `json:"gx"`
	GY float32 `json:"gy"`
	GZ float32 `json:"gz"`
}

// JSONLSender пишет кадры в JSONL файл для офлайн захвата
type JSONLSender struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewJSONLSender открывает файл на дозапись
func NewJSONLSender(filePath string) (*JSONLSender, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &JSONLSender{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Send раскодирует кадр и пишет его JSON строкой
func (s *JSONLSender) Send(frame []byte) error {
	if len(frame) < 24 {
		return ErrSendFailed
	}

	record := jsonlFrame{
		AX: frameFloat(frame, 0),
		AY: frameFloat(frame, 1),
		AZ: frameFloat(frame, 2),
		GX: frameFloat(frame, 3),
		GY: frameFloat(frame, 4),
		GZ: frameFloat(frame, 5),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}
	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Close сбрасывает буфер и закрывает файл
func (s *JSONLSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

// MultiSender отправляет каждый кадр нескольким отправителям
type MultiSender struct {
	senders []FrameSender
}

// NewMultiSender объединяет отправителей
func NewMultiSender(senders ...FrameSender) *MultiSender {
	return &MultiSender{senders: senders}
}

// Send отправляет кадр всем; первая ошибка возвращается, остальные
// отправители все равно получают кадр
func (s *MultiSender) Send(frame []byte) error {
	var firstErr error
	for _, sender := range s.senders {
		if err := sender.Send(frame); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close закрывает всех отправителей
func (s *MultiSender) Close() error {
	var firstErr error
	for _, sender := range s.senders {
		if err := sender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func frameFloat(frame []byte, index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(frame[index*4:]))
}
