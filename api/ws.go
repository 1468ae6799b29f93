package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"pin-editor/editor"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS streams editor events to the client as JSON messages. The first
// message is a "state" event with the current live state. Client messages
// are read only to notice disconnects.
func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(ev editor.Event) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(ev)
	}

	events, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	if err := writeMsg(editor.Event{Type: editor.EventState, State: h.session.State()}); err != nil {
		log.Printf("WS initial state error: %v", err)
		return
	}

	// Pump events until unsubscribe closes the channel.
	go func() {
		for ev := range events {
			if err := writeMsg(ev); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
