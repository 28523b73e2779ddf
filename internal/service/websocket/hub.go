package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"attendance/internal/logger"
	"attendance/internal/model"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// FrameMessage is the preview message sent to viewers for every admitted frame.
type FrameMessage struct {
	ID        string `json:"id"`
	MIME      string `json:"mime"`
	Image     string `json:"image"`
	Timestamp int64  `json:"timestamp"`
}

// HubService fans admitted frames out to the connected preview viewers.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every client. Run must be called at most once.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending preview: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer. After the hub stopped the viewer is closed instead.
func (h *HubService) Register(client *websocket.Conn) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes and closes a viewer. It returns at once when the hub
// has stopped, since stopping closed every viewer.
func (h *HubService) Unregister(client *websocket.Conn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for all viewers. When viewers are too slow the
// message is dropped.
func (h *HubService) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		return false
	}
}

// BroadcastFrame sends an admitted frame to the viewers. It never blocks the caller.
func (h *HubService) BroadcastFrame(frame model.CapturedFrame) {
	if h.GetClientCount() == 0 {
		return
	}
	msg, err := json.Marshal(FrameMessage{
		ID:        frame.ID,
		MIME:      frame.MIME,
		Image:     base64.StdEncoding.EncodeToString(frame.Image),
		Timestamp: frame.Timestamp.UnixMilli(),
	})
	if err != nil {
		h.logger.Error("Cannot encode preview of frame %s: %v", frame.ID, err)
		return
	}
	if !h.Broadcast(msg) {
		h.logger.Warning("⚠️  Preview queue full - skipping frame %s", frame.ID)
	}
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
