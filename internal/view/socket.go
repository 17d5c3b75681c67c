package view

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koios/plotbox/pkg/models"
)

const writeWait = 10 * time.Second

// Socket is a Sink writing JSON frames to a WebSocket connection
type Socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewSocket wraps an upgraded connection
func NewSocket(conn *websocket.Conn) *Socket {
	return &Socket{conn: conn}
}

// Register sends a plugins frame
func (s *Socket) Register(plugins ...*models.Plugin) error {
	return s.write(Frame{Type: FramePlugins, Plugins: plugins})
}

// Show sends a show frame holding the boxes
func (s *Socket) Show(caption string, boxes ...*models.Box) error {
	return s.write(Frame{Type: FrameShow, Caption: caption, Boxes: boxes})
}

// Close sends a normal close message and closes the connection
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return s.conn.Close()
}

func (s *Socket) write(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := s.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to write %s frame: %w", frame.Type, err)
	}
	return nil
}
