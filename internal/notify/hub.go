package notify

import (
	"context"
	"sync"

	"travelmarket/internal/domain"

	"github.com/gorilla/websocket"
)

// Hub tracks one websocket connection per user and pushes booking
// events to whoever is online. Offline users simply miss the push;
// durable delivery is the AMQP consumers' job.
type Hub struct {
	connections map[int64]*websocket.Conn
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.Close()
	}
	h.connections[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[userID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, userID)
	}
}

func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mutex.RLock()
	conn, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || conn == nil {
		return false
	}

	if err := conn.WriteJSON(message); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, userID)
	}
}

// Notifier interface over the hub.

func (h *Hub) BookingCreated(_ context.Context, r *domain.Reservation) error {
	_ = h.SendToUser(r.VendorID, BookingEvent{
		Kind:          KindBookingCreated,
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		ServiceType:   r.ServiceType,
		UserID:        r.UserID,
		VendorID:      r.VendorID,
		Status:        r.Status,
	})
	return nil
}

func (h *Hub) BookingStatusChanged(_ context.Context, r *domain.Reservation, previous domain.BookingStatus) error {
	_ = h.SendToUser(r.UserID, BookingEvent{
		Kind:           KindStatusChanged,
		ReservationID:  r.ID,
		ListingID:      r.ListingID,
		ServiceType:    r.ServiceType,
		UserID:         r.UserID,
		VendorID:       r.VendorID,
		Status:         r.Status,
		PreviousStatus: previous,
		Reason:         r.CancellationReason,
	})
	return nil
}

func (h *Hub) BookingCancelledByCustomer(_ context.Context, r *domain.Reservation, reason string) error {
	_ = h.SendToUser(r.VendorID, BookingEvent{
		Kind:          KindCustomerCancel,
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		ServiceType:   r.ServiceType,
		UserID:        r.UserID,
		VendorID:      r.VendorID,
		Status:        r.Status,
		Reason:        reason,
	})
	return nil
}
