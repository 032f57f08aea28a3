package session

import "sync"

// Hub fans session events out to the subscribers of one session key.
// Each subscriber holds at most the latest undelivered event.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a listener for key. The returned function removes it
// and closes the channel; calling it more than once is harmless.
func (h *Hub) Subscribe(key string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 1)
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]chan Event)
	}
	h.subs[key][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(key, id) })
	}
}

func (h *Hub) remove(key string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[key]
	if ch, ok := subs[id]; ok {
		close(ch)
		delete(subs, id)
	}
	if len(subs) == 0 {
		delete(h.subs, key)
	}
}

// Publish delivers ev to every subscriber of key without blocking. A stale
// pending event is replaced by the new one.
func (h *Hub) Publish(key string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[key] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Subscribers returns how many listeners key has.
func (h *Hub) Subscribers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}
