package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/models"
)

// Hub транслирует живые результаты опросов подписанным клиентам.
// Клиент после подключения присылает сообщения subscribe/unsubscribe с id
// опроса; каждый успешный голос рассылает обновлённую раскладку всем
// подписчикам этого опроса.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[*Client]struct{}
	unregister  chan *Client
	broadcast   chan message
}

type message struct {
	pollID  uuid.UUID
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*Client]struct{}),
		unregister:  make(chan *Client),
		broadcast:   make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.dropClient(client)
		case msg := <-h.broadcast:
			h.send(msg.pollID, msg.payload)
		}
	}
}

// Unregister удаляет клиента и все его подписки.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastPollResults отправляет свежую раскладку подписчикам опроса.
// Реализует service.TallyNotifier.
func (h *Hub) BroadcastPollResults(results *models.PollResults) {
	payload := map[string]any{
		"type": "poll_results",
		"data": results,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.WithComponent("ws").WithError(err).Error("не удалось сериализовать результаты опроса")
		return
	}

	select {
	case h.broadcast <- message{pollID: results.PollID, payload: raw}:
	default:
		// Канал переполнен: пропускаем кадр, следующий голос принесёт свежие цифры.
		logger.WithComponent("ws").WithField("poll_id", results.PollID).Warn("очередь трансляции переполнена, кадр пропущен")
	}
}

// Subscribe подписывает клиента на опрос.
func (h *Hub) Subscribe(client *Client, pollID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[pollID]; !ok {
		h.subscribers[pollID] = make(map[*Client]struct{})
	}
	h.subscribers[pollID][client] = struct{}{}
}

// Unsubscribe снимает подписку клиента с опроса.
func (h *Hub) Unsubscribe(client *Client, pollID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeSubscription(client, pollID)
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pollID := range h.subscribers {
		h.removeSubscription(client, pollID)
	}
}

// removeSubscription вызывается под h.mu.
func (h *Hub) removeSubscription(client *Client, pollID uuid.UUID) {
	if subs, ok := h.subscribers[pollID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, pollID)
		}
	}
}

func (h *Hub) send(pollID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[pollID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем асинхронно, чтобы не держать остальных.
			go client.Close()
		}
	}
}
