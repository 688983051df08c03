package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ariefcatur/go-storefront/internal/orders"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}

// live streams the order status over a websocket until it is paid, the client leaves,
// or LiveFor elapses. A frame is sent only when the status changes.
func (h *OrdersHandler) live(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "session_id")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade sudah menulis response error
	}
	defer conn.Close()

	// reader hanya untuk mendeteksi client menutup koneksi
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poll, window := h.LivePoll, h.LiveFor
	if poll <= 0 {
		poll = time.Second
	}
	if window <= 0 {
		window = 2 * time.Minute
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()
	deadline := time.NewTimer(window)
	defer deadline.Stop()

	var last orders.Status
	for {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		v, err := h.status(ctx, sid)
		cancel()
		if errors.Is(err, orders.ErrNotFound) {
			v, err = orders.StatusView{SessionID: sid, Status: orders.StatusPending}, nil
		}
		if err != nil {
			log.Printf("[orders] live session=%s: %v", sid, err)
			_ = conn.WriteJSON(map[string]string{"error": "internal error"})
			return
		}
		if v.Status != last {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(v); err != nil {
				return
			}
			last = v.Status
		}
		if v.Status == orders.StatusPaid {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "paid"), time.Now().Add(time.Second))
			return
		}

		select {
		case <-tick.C:
		case <-gone:
			return
		case <-deadline.C:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "timeout"), time.Now().Add(time.Second))
			return
		case <-r.Context().Done():
			return
		}
	}
}
