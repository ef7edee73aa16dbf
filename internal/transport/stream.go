package transport

import "context"

// Transport устанавливает соединение с источником сенсорных кадров.
// Вся последовательность установки (соединение, обнаружение сервиса,
// включение уведомлений) отменяется контекстом.
type Transport interface {
	Connect(ctx context.Context) (Stream, error)
}

// Stream - живой поток сырых кадров. Канал закрывается при разрыве
// соединения; уже доставленные кадры при этом остаются валидными.
type Stream interface {
	Frames() <-chan []byte
	Close() error
}

// FrameSink принимает поток кадров для сессии.
// Реализуется менеджером сессий.
type FrameSink interface {
	OpenFrameStream(sessionID string) (chan<- []byte, error)
	IsSessionActive(sessionID string) bool
}
