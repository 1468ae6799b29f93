package editor

import "sync"

type EventType string

const (
	EventPinsChanged      EventType = "pins"
	EventConnectorChanged EventType = "connector"
	EventSelectionChanged EventType = "selection"
	EventConfigsChanged   EventType = "configs"
	EventImported         EventType = "imported"
	EventState            EventType = "state"
)

// Event carries the live state as it was right after a change.
type Event struct {
	Type  EventType `json:"type"`
	State Snapshot  `json:"state"`
}

const subscriberBuffer = 64

// hub fans events out to subscribers. Sends never block: a subscriber that
// falls behind misses events rather than stalling the editor.
type hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan Event]struct{})}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
